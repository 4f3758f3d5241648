package configs

import "github.com/spf13/viper"

// MetricsConfig Prometheus 指标配置. Path 挂载在主服务上，Endpoint 非空时另起独立端口.
type MetricsConfig struct {
	Enabled        bool              `mapstructure:"enabled"`
	Path           string            `mapstructure:"path"            rule:"omitempty,startswith=/"`
	Endpoint       string            `mapstructure:"endpoint"` // 独立端口，如 :9090，为空不启动
	Pprof          bool              `mapstructure:"pprof"`    // 独立端口上同时暴露 pprof
	RuntimeMetrics bool              `mapstructure:"runtime_metrics"`
	Labels         map[string]string `mapstructure:"labels"` // 附加到业务指标的常量标签
}

func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.endpoint", "")
	v.SetDefault("metrics.pprof", false)
	v.SetDefault("metrics.runtime_metrics", true)
	v.SetDefault("metrics.labels", map[string]string{})
}
