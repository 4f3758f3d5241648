package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultTokenExpiry = 60               // 令牌有效期（分钟）
	DefaultHashCost    = 10               // bcrypt cost
	DefaultOTPExpiry   = 15 * time.Minute // 验证码有效期
	DefaultOTPLength   = 6
)

// AuthConfig JWT 签发、密码哈希与一次性验证码配置.
type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"   rule:"required"`
	TokenExpiry int           `mapstructure:"token_expiry" rule:"min=1"`
	HashCost    int           `mapstructure:"hash_cost"    rule:"min=4,max=31"`
	OTPExpiry   time.Duration `mapstructure:"otp_expiry"`
	OTPLength   int           `mapstructure:"otp_length"   rule:"min=4,max=32"`
}

// TokenTTL 返回令牌有效期.
func (c *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpiry) * time.Minute
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_expiry", DefaultTokenExpiry)
	v.SetDefault("auth.hash_cost", DefaultHashCost)
	v.SetDefault("auth.otp_expiry", DefaultOTPExpiry)
	v.SetDefault("auth.otp_length", DefaultOTPLength)
}
