// Package api 组装对外提供服务的 gin 引擎.
package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/router"
	"github.com/yeisme/hydrogen/pkg/log"
)

// NewEngine 创建引擎并注册全部路由. 未开启 trust_proxy 时忽略 X-Forwarded-For.
func NewEngine(d router.Deps) *gin.Engine {
	engine := gin.New()
	engine.RedirectTrailingSlash = false

	if !d.Config.App.TrustProxy {
		if err := engine.SetTrustedProxies(nil); err != nil {
			log.Logger().Warn().Err(err).Msg("disable trusted proxies failed")
		}
	}

	excluded := []string{"/swagger/"}
	if d.Config.Metrics.Enabled {
		excluded = append(excluded, d.Config.Metrics.Path)
	}

	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(excluded)))

	router.Setup(engine, d)

	return engine
}
