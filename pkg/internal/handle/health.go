package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/types"
	nlog "github.com/yeisme/hydrogen/pkg/log"
)

const healthTimeout = 2 * time.Second

// Health 返回指定组件的健康检查处理器，组件为 db、s3、kv 或 mq.
//
//	@Summary	组件健康检查
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/health/{component} [get]
func (h *Handler) Health(component string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.health == nil {
			Respond(c, http.StatusServiceUnavailable, types.HealthResponse{
				Component: component, Status: "unhealthy", Error: "storage not initialized",
			})

			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := h.health.Health(ctx, component); err != nil {
			nlog.Ctx(ctx).Warn().Err(err).Str("component", component).Msg("health check failed")
			Respond(c, http.StatusServiceUnavailable, types.HealthResponse{
				Component: component, Status: "unhealthy", Error: err.Error(),
			})

			return
		}

		Respond(c, http.StatusOK, types.HealthResponse{Component: component, Status: "ok"})
	}
}
