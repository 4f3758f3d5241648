package middleware

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/storage/kv"
	nlog "github.com/yeisme/hydrogen/pkg/log"
	"github.com/yeisme/hydrogen/pkg/metrics"
)

// MsgTooManyRequests 超出限流.
const MsgTooManyRequests = "Too many calls made from this specific IP, please try again later"

// RateLimitOption 限流选项.
type RateLimitOption func(*rateLimiter)

// WithRateLimitClock 替换时钟.
func WithRateLimitClock(now func() time.Time) RateLimitOption {
	return func(l *rateLimiter) { l.now = now }
}

type rateLimiter struct {
	cfg   configs.RateLimitConfig
	store kv.KVStore
	now   func() time.Time
}

// RateLimit 按客户端 IP 的固定窗口限流. 计数保存在 KV 中，键为 ratelimit:<ip>:<窗口起点>，
// 过期时间等于窗口长度，使用 redis/nats 时多实例共享计数.
// KV 出错时放行请求.
func RateLimit(cfg configs.RateLimitConfig, store kv.KVStore, opts ...RateLimitOption) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Max <= 0 || cfg.Window <= 0 || store == nil {
		return func(c *gin.Context) { c.Next() }
	}

	l := &rateLimiter{cfg: cfg, store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}

	return l.handle
}

func (l *rateLimiter) handle(c *gin.Context) {
	now := l.now()
	start := now.Truncate(l.cfg.Window)
	reset := start.Add(l.cfg.Window)
	key := "ratelimit:" + clientIP(c) + ":" + strconv.FormatInt(start.Unix(), 10)

	n, err := kv.Incr(c.Request.Context(), l.store, key, l.cfg.Window)
	if err != nil {
		nlog.Ctx(c.Request.Context()).Warn().Err(err).Msg("rate limit counter unavailable")
		c.Next()

		return
	}

	remaining := int64(l.cfg.Max) - n
	if remaining < 0 {
		remaining = 0
	}

	h := c.Writer.Header()
	h.Set("RateLimit-Limit", strconv.Itoa(l.cfg.Max))
	h.Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	h.Set("RateLimit-Reset", strconv.FormatInt(int64(reset.Sub(now).Seconds()+0.5), 10))

	if n > int64(l.cfg.Max) {
		metrics.RateLimited.WithLabelValues("window").Inc()
		abortWithError(c, 429, MsgTooManyRequests)

		return
	}

	c.Next()
}

// LoginGuard 认证接口前的每 IP 令牌桶，login_rps 为 0 时关闭.
func LoginGuard(cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.LoginRPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	burst := cfg.LoginBurst
	if burst <= 0 {
		burst = 1
	}

	var (
		mu       sync.Mutex
		limiters = map[string]*rate.Limiter{}
	)

	getLimiter := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		if l, ok := limiters[key]; ok {
			return l
		}

		// 粗略的上限，超出后整体重置
		const maxLimiterEntries = 10000
		if len(limiters) >= maxLimiterEntries {
			limiters = map[string]*rate.Limiter{}
		}

		l := rate.NewLimiter(rate.Limit(cfg.LoginRPS), burst)
		limiters[key] = l

		return l
	}

	return func(c *gin.Context) {
		if !getLimiter(clientIP(c)).Allow() {
			metrics.RateLimited.WithLabelValues("login").Inc()
			abortWithError(c, 429, MsgTooManyRequests)

			return
		}

		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err == nil {
			ip = host
		} else {
			ip = c.Request.RemoteAddr
		}
	}

	if ip == "" {
		ip = "unknown"
	}

	return ip
}
