package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/metrics"
	"github.com/yeisme/hydrogen/pkg/middleware"
)

func TestPrometheusMiddlewareUsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(middleware.PrometheusMiddleware("/metrics"))
	r.GET("/songs/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	ok := metrics.RequestCounter.WithLabelValues(http.MethodGet, "/songs/:id", "200")
	missing := metrics.RequestCounter.WithLabelValues(http.MethodGet, "unmatched", "404")
	scraped := metrics.RequestCounter.WithLabelValues(http.MethodGet, "/metrics", "200")

	before, beforeMissing := testutil.ToFloat64(ok), testutil.ToFloat64(missing)

	serve(r, httptest.NewRequest(http.MethodGet, "/songs/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/songs/2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.InDelta(t, before+2, testutil.ToFloat64(ok), 0)
	assert.InDelta(t, beforeMissing+1, testutil.ToFloat64(missing), 0)
	assert.Zero(t, testutil.ToFloat64(scraped))
	assert.Zero(t, testutil.ToFloat64(metrics.InFlightRequests))
}

func TestCORSMultipleOrigins(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware(configs.AppSection{FrontendOrigin: "https://a.example.com, https://b.example.com/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, origin := range []string{"https://a.example.com", "https://b.example.com"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", origin)

		w := serve(r, req)
		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	}
}

func TestCORSWildcard(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware(configs.AppSection{FrontendOrigin: "*"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://anything.example.com")

	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}
