// Package metrics 提供 Prometheus 监控指标.
//
// 所有指标注册在包内独立的 Registry 上，HTTP 中间件、gorm 插件与 watermill
// 装饰器共用同一个 Registry.
//
// Example:
//
//	if err := metrics.Init(cfg.Metrics); err != nil {
//		log.Fatal(err)
//	}
//
//	engine.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/hydrogen/pkg/configs"
)

const namespace = "hydrogen"

var (
	// RequestCounter HTTP 请求计数，route 为 gin 的路由模板.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration HTTP 请求耗时.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ResponseSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response body size in bytes",
			Buckets:   prometheus.ExponentialBuckets(128, 4, 8),
		},
		[]string{"method", "route"},
	)

	// InFlightRequests 正在处理的请求数.
	InFlightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Number of HTTP requests being served",
		},
	)

	// RateLimited 被限流拒绝的请求数.
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"limiter"},
	)

	// OrphanedObjects 清理失败、残留在对象存储中的文件数.
	OrphanedObjects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_objects_total",
			Help:      "Object storage keys left behind after a failed cleanup",
		},
	)

	registry = prometheus.NewRegistry()

	registerOnce sync.Once
	runtimeOnce  sync.Once
)

// Init 注册指标，重复调用无副作用. cfg.Labels 作为常量标签附加到业务指标上.
func Init(cfg configs.MetricsConfig) error {
	var err error

	registerOnce.Do(func() {
		reg := prometheus.WrapRegistererWith(prometheus.Labels(cfg.Labels), registry)

		err = errors.Join(
			reg.Register(RequestCounter),
			reg.Register(RequestDuration),
			reg.Register(ResponseSize),
			reg.Register(InFlightRequests),
			reg.Register(RateLimited),
			reg.Register(OrphanedObjects),
		)
	})

	if err != nil || !cfg.Enabled || !cfg.RuntimeMetrics {
		return err
	}

	runtimeOnce.Do(func() {
		err = errors.Join(
			registry.Register(collectors.NewGoCollector()),
			registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})),
		)
	})

	return err
}

// Handler 返回 /metrics 的处理器.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}

// NewServer 构造独立端口上的指标服务，监听 cfg.Endpoint. 开启 pprof 时一并暴露.
func NewServer(cfg configs.MetricsConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, Handler())

	if cfg.Pprof {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	return &http.Server{
		Addr:              cfg.Endpoint,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Serve 在后台运行指标服务，ctx 结束时关闭.
func Serve(ctx context.Context, srv *http.Server, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && onError != nil {
			onError(err)
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()
}
