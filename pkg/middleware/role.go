package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	nlog "github.com/yeisme/hydrogen/pkg/log"
)

// MsgNotAuthorized 权限不足.
const MsgNotAuthorized = "User not authorized to perform action."

// PermissionSource 解析用户的权限集合.
type PermissionSource interface {
	Resolve(ctx context.Context, email string) ([]string, error)
}

// RequirePermissions 要求当前用户的角色拥有全部 perms. 需在 Authenticate 之后使用.
func RequirePermissions(app configs.AppSection, source PermissionSource, perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if app.IsDevelopment() {
			c.Next()
			return
		}

		claims, ok := ClaimsFrom(c)
		if !ok {
			abortWithError(c, http.StatusForbidden, MsgNotAuthorized)
			return
		}

		granted, err := source.Resolve(c.Request.Context(), claims.Email)
		if err != nil {
			if se, ok := service.AsError(err); ok {
				abortWithError(c, se.Status, se.Message)
				return
			}

			nlog.Ctx(c.Request.Context()).Error().Err(err).Str("email", claims.Email).Msg("resolve permissions failed")
			abortWithError(c, http.StatusForbidden, MsgNotAuthorized)

			return
		}

		if !service.HasAll(granted, perms...) {
			abortWithError(c, http.StatusForbidden, MsgNotAuthorized)
			return
		}

		c.Next()
	}
}
