package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/types"
)

// Login 邮箱密码登录，成功后返回令牌并记录登录信息.
//
//	@Summary	登录
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.LoginRequest	true	"凭证"
//	@Success	200		{object}	types.LoginResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Failure	429		{object}	types.ErrorResponse
//	@Router		/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bind(c, &req) {
		return
	}

	user, token, err := h.svc.Auth.Login(c.Request.Context(), &req, service.Client{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.LoginResponse{Message: service.MsgLoginSuccess, User: user, Token: token})
}

// SignUp 注册，与 CreateUser 相同.
//
//	@Summary	注册
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.CreateUserRequest	true	"用户信息"
//	@Success	201		{object}	types.UserResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Router		/signUp [post]
func (h *Handler) SignUp(c *gin.Context) {
	var req types.CreateUserRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.svc.Auth.SignUp(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusCreated, types.UserResponse{Message: service.MsgUserCreated, User: user})
}

// RequestPasswordReset 生成验证码并发布重置事件，由邮件服务发送.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req types.PasswordResetRequest
	if !bind(c, &req) {
		return
	}

	if err := h.svc.Auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.MessageResponse{Message: service.MsgResetRequested})
}

// VerifyOTP 校验验证码，成功后返回用于修改密码的令牌.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req types.VerifyOTPRequest
	if !bind(c, &req) {
		return
	}

	token, err := h.svc.Auth.VerifyOTP(c.Request.Context(), req.Email, req.OTPCode)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.VerifyOTPResponse{Message: service.MsgCodeVerified, Token: token})
}

// ChangePassword 使用 VerifyOTP 返回的令牌修改密码.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req types.ChangePasswordRequest
	if !bind(c, &req) {
		return
	}

	if err := h.svc.Auth.ChangePassword(c.Request.Context(), &req); err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.MessageResponse{Message: service.MsgPasswordChanged})
}
