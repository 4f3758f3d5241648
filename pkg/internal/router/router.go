// Package router 将处理器与中间件绑定到 gin 引擎. 所有业务路由挂载在 /{app.name}-service 下.
package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/cache"
	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/auth"
	"github.com/yeisme/hydrogen/pkg/internal/handle"
	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/storage"
	"github.com/yeisme/hydrogen/pkg/internal/storage/kv"
	"github.com/yeisme/hydrogen/pkg/metrics"
	"github.com/yeisme/hydrogen/pkg/middleware"
)

// healthCacheTTL 健康检查结果的缓存时间.
const healthCacheTTL = 5 * time.Second

// Deps 路由依赖.
type Deps struct {
	Config      *configs.AppConfig
	Handler     *handle.Handler
	Tokens      *auth.Signer
	Users       middleware.UserLookup
	Permissions middleware.PermissionSource
	KV          kv.KVStore
}

type routes struct {
	d Deps
}

// gate 认证并要求全部权限.
func (r *routes) gate(perms ...string) []gin.HandlerFunc {
	app := r.d.Config.App

	return []gin.HandlerFunc{
		middleware.Authenticate(app, r.d.Tokens, r.d.Users),
		middleware.RequirePermissions(app, r.d.Permissions, perms...),
	}
}

// with 在 gate 之后追加处理器.
func with(chain []gin.HandlerFunc, h ...gin.HandlerFunc) []gin.HandlerFunc {
	return append(chain, h...)
}

// Setup 注册全局中间件与全部路由.
func Setup(engine *gin.Engine, d Deps) {
	cfg := d.Config
	production := cfg.App.IsProduction()

	engine.Use(
		middleware.Recovery(production),
		middleware.RequestID(),
		middleware.GinLoggerMiddleware(),
		middleware.SecurityHeaders(production),
		middleware.CORSMiddleware(cfg.App),
	)

	if cfg.Tracing.Enabled {
		engine.Use(middleware.TracingMiddleware())
	}

	if cfg.Metrics.Enabled {
		engine.Use(middleware.PrometheusMiddleware(cfg.Metrics.Path))
		engine.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	engine.Use(
		middleware.ErrorHandler(production),
		middleware.RateLimit(cfg.RateLimit, d.KV),
	)

	RegisterSwaggerRoute(engine, cfg)

	r := &routes{d: d}
	h := d.Handler
	g := engine.Group(cfg.App.BasePath())

	r.registerMain(g, h)
	r.registerHealth(g, h)
	r.registerAuth(g, h)
	r.registerUsers(g, h)
	r.registerRBAC(g, h)
	r.registerTags(g, h)
	r.registerContent(g, h)

	engine.NoRoute(h.NotFound)
}

func (r *routes) registerMain(g *gin.RouterGroup, h *handle.Handler) {
	g.GET("/", h.Welcome)
	g.GET("/probeCheck", h.ProbeCheck)
	g.GET("/getIp", with(r.gate(model.PermSystemAdmin), h.GetIP)...)
	g.GET("/getConfiguration", with(r.gate(model.PermSystemAdmin), h.GetConfiguration)...)
	g.GET("/getJobs", with(r.gate(model.PermSystemAdmin), h.GetJobs)...)
}

// registerHealth 健康检查不需要认证，结果短暂缓存以免探针压垮后端.
func (r *routes) registerHealth(g *gin.RouterGroup, h *handle.Handler) {
	var store *cache.Cache
	if r.d.KV != nil {
		store = cache.NewCache(r.d.KV, cache.WithPrefix("rc:health:"))
	}

	health := g.Group("/health", middleware.ResponseCache(store, healthCacheTTL))
	{
		health.GET("/db", h.Health(storage.ComponentDB))
		health.GET("/s3", h.Health(storage.ComponentS3))
		health.GET("/kv", h.Health(storage.ComponentKV))
		health.GET("/mq", h.Health(storage.ComponentMQ))
	}
}
