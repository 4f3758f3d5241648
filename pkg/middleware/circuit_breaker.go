package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"

	"github.com/yeisme/hydrogen/pkg/configs"
	nlog "github.com/yeisme/hydrogen/pkg/log"
)

// MsgServiceUnavailable 熔断打开.
const MsgServiceUnavailable = "Service temporarily unavailable, please try again later."

var errServerFailure = errors.New("server failure")

// CircuitBreakerMiddleware 基于 gobreaker 的路由组熔断，5xx 与 c.Error 推入的错误计为失败.
// 打开状态下直接返回 503，不再调用处理器.
func CircuitBreakerMiddleware(name string, cfg configs.CircuitBreakerConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequestsInHalf,
		Interval:    cfg.Interval(),
		Timeout:     cfg.Timeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return cfg.ShouldTrip(counts.Requests, counts.TotalFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			nlog.Logger().Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return func(c *gin.Context) {
		_, err := cb.Execute(func() (any, error) {
			c.Next()

			if c.Writer.Status() >= http.StatusInternalServerError || len(c.Errors) > 0 {
				return nil, errServerFailure
			}

			return nil, nil
		})

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			abortWithError(c, http.StatusServiceUnavailable, MsgServiceUnavailable)
		}
	}
}
