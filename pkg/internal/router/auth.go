package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/handle"
	"github.com/yeisme/hydrogen/pkg/middleware"
)

// registerAuth 认证相关路由不需要令牌，登录与验证码接口额外限速.
func (r *routes) registerAuth(g *gin.RouterGroup, h *handle.Handler) {
	guard := middleware.LoginGuard(r.d.Config.RateLimit)

	g.POST("/login", guard, h.Login)
	g.POST("/signUp", h.SignUp)
	g.POST("/requestPasswordReset", guard, h.RequestPasswordReset)
	g.POST("/verifyOTP", guard, h.VerifyOTP)
	g.PUT("/changePassword", h.ChangePassword)
}
