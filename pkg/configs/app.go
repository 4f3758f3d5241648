package configs

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/viper"
)

// AppVersion 应用版本，构建时可通过 -ldflags "-X" 覆盖.
var AppVersion = "1.0.0"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DefaultAppName        = "hydrogen"
	DefaultAppEnv         = EnvProduction
	DefaultFrontendOrigin = "http://localhost:3000"
)

// AppSection 应用级配置.
type AppSection struct {
	Name           string `mapstructure:"name"            rule:"required"`
	Env            string `mapstructure:"env"             rule:"oneof=development production test"`
	Version        string `mapstructure:"version"`
	FrontendOrigin string `mapstructure:"frontend_origin"`
	TrustProxy     bool   `mapstructure:"trust_proxy"`
}

// BasePath 返回所有路由挂载的前缀，形如 /hydrogen-service.
func (a *AppSection) BasePath() string {
	return fmt.Sprintf("/%s-service", a.Name)
}

// DisplayName 返回首字母大写的应用名称.
func (a *AppSection) DisplayName() string {
	if a.Name == "" {
		return ""
	}

	r := []rune(a.Name)
	r[0] = unicode.ToUpper(r[0])

	return string(r)
}

// IsDevelopment 开发环境下跳过认证与鉴权.
func (a *AppSection) IsDevelopment() bool {
	return strings.EqualFold(a.Env, EnvDevelopment)
}

// IsProduction 生产环境下隐藏内部错误信息.
func (a *AppSection) IsProduction() bool {
	return strings.EqualFold(a.Env, EnvProduction)
}

func (a *AppSection) setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", DefaultAppName)
	v.SetDefault("app.env", DefaultAppEnv)
	v.SetDefault("app.version", AppVersion)
	v.SetDefault("app.frontend_origin", DefaultFrontendOrigin)
	v.SetDefault("app.trust_proxy", false)
}
