package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/types"
)

// GetVideos 分页查询视频.
//
//	@Summary	视频列表
//	@Tags		videos
//	@Produce	json
//	@Param		title	query		string	false	"标题模糊匹配"
//	@Success	200		{object}	types.VideosResponse
//	@Security	BearerAuth
//	@Router		/getVideos [get]
func (h *Handler) GetVideos(c *gin.Context) {
	videos, err := h.svc.Videos.List(c.Request.Context(), repository.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.VideosResponse{Message: service.MsgVideosFetched, Videos: videos})
}

// GetVideo 按 ID 查询视频.
func (h *Handler) GetVideo(c *gin.Context) {
	id, ok := pathID(c, "videoId", service.MsgVideoNotFound)
	if !ok {
		return
	}

	video, err := h.svc.Videos.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.VideoResponse{Message: service.MsgVideoFetched, Video: video})
}

// UploadVideo 登记已上传到对象存储的视频.
//
//	@Summary	上传视频
//	@Tags		videos
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.UploadVideoRequest	true	"视频信息"
//	@Success	201		{object}	types.VideoResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/uploadVideo [post]
func (h *Handler) UploadVideo(c *gin.Context) {
	var req types.UploadVideoRequest
	if !bind(c, &req) {
		return
	}

	video, err := h.svc.Videos.Upload(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusCreated, types.VideoResponse{Message: service.MsgVideoUploaded, Video: video})
}

// UpdateVideo 更新视频，videoId 在请求体中. 对象键变化时会迁移对象.
//
//	@Summary	更新视频
//	@Tags		videos
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.UpdateVideoRequest	true	"更新字段"
//	@Success	200		{object}	types.VideoResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Failure	500		{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/updateVideo [put]
func (h *Handler) UpdateVideo(c *gin.Context) {
	var req types.UpdateVideoRequest
	if !bind(c, &req) {
		return
	}

	video, err := h.svc.Videos.Update(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.VideoResponse{Message: service.MsgVideoUpdated, Video: video})
}

// UpdateViews 观看量加一.
func (h *Handler) UpdateViews(c *gin.Context) {
	var req types.VideoIDRequest
	if !bind(c, &req) {
		return
	}

	msg, video, err := h.svc.Videos.UpdateViews(c.Request.Context(), req.VideoID)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.ViewsResponse{Message: msg, Views: video.Views})
}

// DeleteVideo 删除视频及其对象.
func (h *Handler) DeleteVideo(c *gin.Context) {
	id, ok := pathID(c, "videoId", service.MsgVideoNotFound)
	if !ok {
		return
	}

	if err := h.svc.Videos.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
