package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/types"
)

// GetUsers 分页查询用户.
//
//	@Summary	用户列表
//	@Tags		users
//	@Produce	json
//	@Param		page	query		int		false	"页码"
//	@Param		limit	query		int		false	"每页数量"
//	@Param		sort	query		string	false	"排序字段"
//	@Param		order	query		string	false	"asc 或 desc"
//	@Success	200		{object}	types.UsersResponse
//	@Security	BearerAuth
//	@Router		/getUsers [get]
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.svc.Users.List(c.Request.Context(), repository.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.UsersResponse{Message: service.MsgUsersFetched, Users: users})
}

// GetUser 按 ID 查询用户.
//
//	@Summary	用户详情
//	@Tags		users
//	@Produce	json
//	@Param		userId	path		int	true	"用户ID"
//	@Success	200		{object}	types.UserResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/getUser/{userId} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "userId", service.MsgUserNotFound)
	if !ok {
		return
	}

	user, err := h.svc.Users.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.UserResponse{Message: service.MsgUserFetched, User: user})
}

// CreateUser 创建用户.
//
//	@Summary	创建用户
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.CreateUserRequest	true	"用户信息"
//	@Success	201		{object}	types.UserResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/createUser [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req types.CreateUserRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.svc.Users.Create(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusCreated, types.UserResponse{Message: service.MsgUserCreated, User: user})
}

// UpdateUser 更新用户，仅修改请求中出现的字段.
//
//	@Summary	更新用户
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		userId	path		int						true	"用户ID"
//	@Param		body	body		types.UpdateUserRequest	true	"更新字段"
//	@Success	200		{object}	types.UpdateUserResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/updateUser/{userId} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "userId", service.MsgUserNotFound)
	if !ok {
		return
	}

	var req types.UpdateUserRequest
	if !bind(c, &req) {
		return
	}

	summary, err := h.svc.Users.Update(c.Request.Context(), id, &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.UpdateUserResponse{Message: service.MsgUserUpdated, User: summary})
}

// DeleteUser 删除用户.
//
//	@Summary	删除用户
//	@Tags		users
//	@Param		userId	path	int	true	"用户ID"
//	@Success	204
//	@Failure	400	{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/deleteUser/{userId} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "userId", service.MsgUserNotFound)
	if !ok {
		return
	}

	if err := h.svc.Users.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetLogins 返回用户的登录记录，最新的在前.
func (h *Handler) GetLogins(c *gin.Context) {
	id, ok := pathID(c, "userId", service.MsgUserNotFound)
	if !ok {
		return
	}

	logins, err := h.svc.Logins.List(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.LoginsResponse{Message: service.MsgLoginsFetched, Logins: logins})
}
