package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/configs"
)

const corsMaxAge = 12 * time.Hour

// CORSMiddleware app.frontend_origin 可以是逗号分隔的多个来源. 为空或 "*" 时允许任意来源，
// 此时不发送 Allow-Credentials.
func CORSMiddleware(app configs.AppSection) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Authorization", HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestID, "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"},
		MaxAge:        corsMaxAge,
	}

	origins := splitOrigins(app.FrontendOrigin)
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}

func splitOrigins(raw string) []string {
	var out []string

	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			return nil
		}

		if o != "" {
			out = append(out, o)
		}
	}

	return out
}
