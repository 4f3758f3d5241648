package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultRateLimitEnabled = true
	DefaultRateLimitWindow  = 15 * time.Minute
	DefaultRateLimitMax     = 1000
	DefaultLoginRPS         = 1.0
	DefaultLoginBurst       = 10
)

// RateLimitConfig 每个客户端 IP 的固定窗口限流配置.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Window  time.Duration `mapstructure:"window"` // 窗口长度
	Max     int           `mapstructure:"max"`    // 窗口内允许的最大请求数
	// LoginRPS 与 LoginBurst 为认证接口额外的令牌桶限制，0 表示关闭.
	LoginRPS   float64 `mapstructure:"login_rps"`
	LoginBurst int     `mapstructure:"login_burst"`
}

func (c *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", DefaultRateLimitEnabled)
	v.SetDefault("rate_limit.window", DefaultRateLimitWindow)
	v.SetDefault("rate_limit.max", DefaultRateLimitMax)
	v.SetDefault("rate_limit.login_rps", DefaultLoginRPS)
	v.SetDefault("rate_limit.login_burst", DefaultLoginBurst)
}
