package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeisme/hydrogen/pkg/metrics"
)

// unmatchedRoute 404 请求共用的 route 标签.
const unmatchedRoute = "unmatched"

// PrometheusMiddleware 以路由模板为标签记录请求数、耗时与响应大小. skip 中的路径不计入.
func PrometheusMiddleware(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		method := c.Request.Method
		timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues(method, route))

		metrics.InFlightRequests.Inc()
		defer metrics.InFlightRequests.Dec()

		c.Next()

		timer.ObserveDuration()
		metrics.RequestCounter.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()

		if size := c.Writer.Size(); size > 0 {
			metrics.ResponseSize.WithLabelValues(method, route).Observe(float64(size))
		}
	}
}
