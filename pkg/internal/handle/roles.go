package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/types"
)

// GetRoles 分页查询角色.
//
//	@Summary	角色列表
//	@Tags		roles
//	@Produce	json
//	@Success	200	{object}	types.RolesResponse
//	@Security	BearerAuth
//	@Router		/getRoles [get]
func (h *Handler) GetRoles(c *gin.Context) {
	roles, err := h.svc.Roles.List(c.Request.Context(), repository.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.RolesResponse{Message: service.MsgRolesFetched, Roles: roles})
}

// GetRole 按 ID 查询角色.
func (h *Handler) GetRole(c *gin.Context) {
	id, ok := pathID(c, "roleId", service.MsgRoleNotFound)
	if !ok {
		return
	}

	role, err := h.svc.Roles.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.RoleResponse{Message: service.MsgRoleFetched, Role: role})
}

// CreateRole 创建角色，permissions 中的每一项都必须是已存在的权限值.
//
//	@Summary	创建角色
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.CreateRoleRequest	true	"角色"
//	@Success	201		{object}	types.RoleResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/createRole [post]
func (h *Handler) CreateRole(c *gin.Context) {
	var req types.CreateRoleRequest
	if !bind(c, &req) {
		return
	}

	role, err := h.svc.Roles.Create(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusCreated, types.RoleResponse{Message: service.MsgRoleCreated, Role: role})
}

// UpdateRole 更新角色.
func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c, "roleId", service.MsgRoleNoUpdate)
	if !ok {
		return
	}

	var req types.UpdateRoleRequest
	if !bind(c, &req) {
		return
	}

	role, err := h.svc.Roles.Update(c.Request.Context(), id, &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.RoleResponse{Message: service.MsgRoleUpdated, Role: role})
}

// DeleteRole 删除角色.
func (h *Handler) DeleteRole(c *gin.Context) {
	id, ok := pathID(c, "roleId", service.MsgRoleNoDelete)
	if !ok {
		return
	}

	if err := h.svc.Roles.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
