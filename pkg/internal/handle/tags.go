package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/types"
)

// GetTags 分页查询标签.
//
//	@Summary	标签列表
//	@Tags		tags
//	@Produce	json
//	@Success	200	{object}	types.TagsResponse
//	@Security	BearerAuth
//	@Router		/getTags [get]
func (h *Handler) GetTags(c *gin.Context) {
	tags, err := h.svc.Tags.List(c.Request.Context(), repository.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.TagsResponse{Message: service.MsgTagsFetched, Tags: tags})
}

// GetTag 按 ID 查询标签.
func (h *Handler) GetTag(c *gin.Context) {
	id, ok := pathID(c, "tagId", service.MsgTagNotFound)
	if !ok {
		return
	}

	tag, err := h.svc.Tags.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.TagResponse{Message: service.MsgTagFetched, Tag: tag})
}

// CreateTag 创建标签.
//
//	@Summary	创建标签
//	@Tags		tags
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.CreateTagRequest	true	"标签"
//	@Success	201		{object}	types.TagResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/createTag [post]
func (h *Handler) CreateTag(c *gin.Context) {
	var req types.CreateTagRequest
	if !bind(c, &req) {
		return
	}

	tag, err := h.svc.Tags.Create(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusCreated, types.TagResponse{Message: service.MsgTagCreated, Tag: tag})
}

// UpdateTag 更新标签.
func (h *Handler) UpdateTag(c *gin.Context) {
	id, ok := pathID(c, "tagId", service.MsgTagNoUpdate)
	if !ok {
		return
	}

	var req types.UpdateTagRequest
	if !bind(c, &req) {
		return
	}

	tag, err := h.svc.Tags.Update(c.Request.Context(), id, &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.TagResponse{Message: service.MsgTagUpdated, Tag: tag})
}

// DeleteTag 删除标签.
func (h *Handler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "tagId", service.MsgTagNoDelete)
	if !ok {
		return
	}

	if err := h.svc.Tags.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
