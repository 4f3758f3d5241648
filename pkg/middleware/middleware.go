// Package middleware 提供 gin 中间件：认证鉴权、限流、错误响应、安全头、请求日志、
// 指标、追踪、熔断与响应缓存.
//
// 认证失败、鉴权失败与限流统一返回 {errors:[{value,msg}]}，未预期错误返回 {error}.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yeisme/hydrogen/pkg/internal/types"
	nlog "github.com/yeisme/hydrogen/pkg/log"
)

const (
	// HeaderRequestID 请求 ID 头.
	HeaderRequestID = "X-Request-ID"
	// RequestIDKey gin 上下文中的请求 ID 键.
	RequestIDKey = "request_id"

	msgInternal = "Internal Server Error"
)

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, types.NewErrorResponse(status, msg))
}

// RequestID 透传或生成请求 ID，并写入请求 context 供 log.Ctx 使用.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(nlog.WithRequestID(c.Request.Context(), id))

		c.Next()
	}
}

// SecurityHeaders 写入常用安全响应头，生产环境额外开启 HSTS.
func SecurityHeaders(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-DNS-Prefetch-Control", "off")

		if production {
			h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		}

		c.Next()
	}
}

// ErrorHandler 渲染处理器通过 c.Error 推入的未预期错误. 已写出响应的请求不再处理.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		nlog.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")

		c.AbortWithStatusJSON(http.StatusInternalServerError, types.InternalErrorResponse{Error: internalMessage(err, production)})
	}
}

// Recovery 捕获 panic 并返回 500，生产环境不暴露任何细节.
func Recovery(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if e, ok := rec.(error); ok && errors.Is(e, http.ErrAbortHandler) {
				panic(rec)
			}

			err := fmt.Errorf("panic: %v", rec)
			nlog.Ctx(c.Request.Context()).Error().Err(err).Bytes("stack", debug.Stack()).Msg("recovered from panic")

			if c.Writer.Written() {
				c.Abort()
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, types.InternalErrorResponse{Error: internalMessage(err, production)})
		}()

		c.Next()
	}
}

func internalMessage(err error, production bool) string {
	if production || err == nil {
		return msgInternal
	}

	return err.Error()
}
