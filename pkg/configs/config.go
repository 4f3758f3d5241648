// Package configs 管理应用程序配置，包括数据库、对象存储、KV、队列、认证与限流的配置信息.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// 所有配置项都可以通过 HYDROGEN_ 前缀的环境变量覆盖，例如 HYDROGEN_AUTH_JWT_SECRET.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port, config.App.BasePath())
//
// Example accessing S3 config:
//
//	s3Config := configs.GetConfig().S3
//	fmt.Println(s3Config.Buckets.Song, s3Config.CDN.Song)
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀.
const EnvPrefix = "HYDROGEN"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		App            AppSection           `mapstructure:"app"`             // 应用名称、运行环境、版本
		Server         ServerConfig         `mapstructure:"server"`          // 监听地址、端口、超时
		Log            LogConfig            `mapstructure:"log"`             // 日志相关配置
		DB             DBConfig             `mapstructure:"db"`              // 数据库配置
		S3             S3Config             `mapstructure:"s3"`              // 对象存储配置
		KV             KVConfig             `mapstructure:"kv"`              // 键值存储配置
		MQ             MQConfig             `mapstructure:"mq"`              // 消息队列配置
		Events         EventsConfig         `mapstructure:"events"`          // 事件开关
		Auth           AuthConfig           `mapstructure:"auth"`            // JWT、密码哈希、OTP
		RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`      // 固定窗口限流
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"` // 对象存储熔断
		Metrics        MetricsConfig        `mapstructure:"metrics"`         // Prometheus
		Tracing        TracingConfig        `mapstructure:"tracing"`         // OpenTelemetry
		Jobs           JobsConfig           `mapstructure:"jobs"`            // 定时任务
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
	mu       sync.RWMutex
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// 找不到配置文件时仅使用默认值与环境变量.
func InitConfig(path string) error {
	v := viper.New()
	setAllDefaults(v)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("hydrogen")
		v.AddConfigPath(path)
		v.AddConfigPath(filepath.Join(path, "configs"))

		if home, herr := os.UserHomeDir(); herr == nil {
			v.AddConfigPath(filepath.Join(home, ".hydrogen"))
		}

		for _, ext := range []string{"yaml", "yml", "json", "toml", "env", "dotenv"} {
			cfg := filepath.Join(path, "hydrogen."+ext)
			if _, err := os.Stat(cfg); err == nil {
				v.SetConfigFile(cfg)

				break
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	mu.Lock()
	globalConfig = cfg
	appViper = v
	mu.Unlock()

	reloadConfigs(v, cfg.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var cfg AppConfig

	cfg.App.setDefaults(v)
	cfg.Server.setDefaults(v)
	cfg.Log.setDefaults(v)
	cfg.DB.setDefaults(v)
	cfg.S3.setDefaults(v)
	cfg.KV.setDefaults(v)
	cfg.MQ.setDefaults(v)
	cfg.Events.setDefaults(v)
	cfg.Auth.setDefaults(v)
	cfg.RateLimit.setDefaults(v)
	cfg.CircuitBreaker.setDefaults(v)
	cfg.Metrics.setDefaults(v)
	cfg.Tracing.setDefaults(v)
	cfg.Jobs.setDefaults(v)
}

// Defaults 返回仅包含默认值的配置，测试与 CLI 子命令使用.
func Defaults() AppConfig {
	v := viper.New()
	setAllDefaults(v)

	var cfg AppConfig
	_ = v.Unmarshal(&cfg)

	return cfg
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload || v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		var cfg AppConfig
		if err := v.Unmarshal(&cfg); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)

			return
		}

		mu.Lock()
		globalConfig = cfg
		mu.Unlock()
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置的副本.
func GetConfig() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()

	cfg := globalConfig

	return &cfg
}

// GetViper 返回全局 Viper 实例.
func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()

	return appViper
}

// Masked 返回隐藏了密钥的配置副本，用于 /getConfiguration 与 CLI 展示.
func (c AppConfig) Masked() AppConfig {
	const mask = "******"

	out := c
	if out.Auth.JWTSecret != "" {
		out.Auth.JWTSecret = mask
	}

	if out.DB.Password != "" {
		out.DB.Password = mask
	}

	if out.S3.SecretAccessKey != "" {
		out.S3.SecretAccessKey = mask
	}

	if out.KV.Redis.Password != "" {
		out.KV.Redis.Password = mask
	}

	if out.KV.NATS.Password != "" {
		out.KV.NATS.Password = mask
	}

	if out.MQ.NATS.Password != "" {
		out.MQ.NATS.Password = mask
	}

	if out.MQ.NATS.NKey != "" {
		out.MQ.NATS.NKey = mask
	}

	if out.MQ.Redis.Password != "" {
		out.MQ.Redis.Password = mask
	}

	return out
}
