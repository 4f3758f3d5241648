package configs

import "github.com/spf13/viper"

const (
	DefaultLoginRetentionDays = 180
	DefaultLoginRetentionCron = "0 3 * * *"
	DefaultCodeExpiryCron     = "* * * * *"
	DefaultOrphanSweepCron    = "0 * * * *"
)

// JobsConfig 定时任务配置.
type JobsConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	LoginRetentionDays int    `mapstructure:"login_retention_days" rule:"min=1"`
	LoginRetentionCron string `mapstructure:"login_retention_cron"`
	CodeExpiryCron     string `mapstructure:"code_expiry_cron"`
	OrphanSweepCron    string `mapstructure:"orphan_sweep_cron"`
}

func (c *JobsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.login_retention_days", DefaultLoginRetentionDays)
	v.SetDefault("jobs.login_retention_cron", DefaultLoginRetentionCron)
	v.SetDefault("jobs.code_expiry_cron", DefaultCodeExpiryCron)
	v.SetDefault("jobs.orphan_sweep_cron", DefaultOrphanSweepCron)
}
