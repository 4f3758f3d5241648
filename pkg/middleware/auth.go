package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/auth"
	"github.com/yeisme/hydrogen/pkg/internal/model"
)

// ClaimsKey gin 上下文中令牌声明的键.
const ClaimsKey = "claims"

const (
	MsgTokenMissing   = "Access token is missing"
	MsgInvalidFormat  = "Invalid authorization format"
	MsgTokenExpired   = "Token has expired."
	MsgTokenForeign   = "Access token provided was not generated by this service."
	MsgTokenMetadata  = "Token metadata invalid"
	MsgAuthentication = "Authenication Error."
)

// UserLookup 按邮箱查找用户.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenParser 校验访问令牌.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate 校验 Authorization: Bearer <token>，并把声明写入 gin 上下文.
// 开发环境直接放行.
func Authenticate(app configs.AppSection, tokens TokenParser, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if app.IsDevelopment() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, http.StatusUnauthorized, MsgTokenMissing)
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortWithError(c, http.StatusUnauthorized, MsgInvalidFormat)
			return
		}

		claims, err := tokens.Parse(parts[1])

		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			abortWithError(c, http.StatusForbidden, MsgTokenExpired)
			return
		case errors.Is(err, auth.ErrTokenInvalid):
			abortWithError(c, http.StatusForbidden, MsgTokenForeign)
			return
		case err != nil:
			abortWithError(c, http.StatusForbidden, MsgAuthentication)
			return
		}

		if claims.Data.Email == "" {
			abortWithError(c, http.StatusForbidden, MsgTokenMetadata)
			return
		}

		if _, err := users.FindByEmail(c.Request.Context(), claims.Data.Email); err != nil {
			abortWithError(c, http.StatusForbidden, MsgTokenMetadata)
			return
		}

		c.Set(ClaimsKey, claims.Data)
		c.Next()
	}
}

// ClaimsFrom 读取 Authenticate 写入的声明.
func ClaimsFrom(c *gin.Context) (auth.ClaimsData, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return auth.ClaimsData{}, false
	}

	data, ok := v.(auth.ClaimsData)

	return data, ok
}
