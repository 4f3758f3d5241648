package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/types"
)

// GetPermissions 分页查询权限.
//
//	@Summary	权限列表
//	@Tags		permissions
//	@Produce	json
//	@Success	200	{object}	types.PermissionsResponse
//	@Security	BearerAuth
//	@Router		/getPermissions [get]
func (h *Handler) GetPermissions(c *gin.Context) {
	permissions, err := h.svc.Permissions.List(c.Request.Context(), repository.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.PermissionsResponse{Message: service.MsgPermissionsFetched, Permissions: permissions})
}

// GetPermission 按 ID 查询权限.
func (h *Handler) GetPermission(c *gin.Context) {
	id, ok := pathID(c, "permissionId", service.MsgPermissionNotFound)
	if !ok {
		return
	}

	permission, err := h.svc.Permissions.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.PermissionResponse{Message: service.MsgPermissionFetched, Permission: permission})
}

// CreatePermission 创建权限.
//
//	@Summary	创建权限
//	@Tags		permissions
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.CreatePermissionRequest	true	"权限"
//	@Success	201		{object}	types.PermissionResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/createPermission [post]
func (h *Handler) CreatePermission(c *gin.Context) {
	var req types.CreatePermissionRequest
	if !bind(c, &req) {
		return
	}

	permission, err := h.svc.Permissions.Create(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusCreated, types.PermissionResponse{Message: service.MsgPermissionCreated, Permission: permission})
}

// UpdatePermission 更新权限.
func (h *Handler) UpdatePermission(c *gin.Context) {
	id, ok := pathID(c, "permissionId", service.MsgPermissionNoUpdate)
	if !ok {
		return
	}

	var req types.UpdatePermissionRequest
	if !bind(c, &req) {
		return
	}

	permission, err := h.svc.Permissions.Update(c.Request.Context(), id, &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.PermissionResponse{Message: service.MsgPermissionUpdated, Permission: permission})
}

// DeletePermission 删除权限.
func (h *Handler) DeletePermission(c *gin.Context) {
	id, ok := pathID(c, "permissionId", service.MsgPermissionNoDelete)
	if !ok {
		return
	}

	if err := h.svc.Permissions.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
