package configs

import "github.com/spf13/viper"

// EventsConfig 控制领域事件发布的开关.
type EventsConfig struct {
	Enabled bool                `mapstructure:"enabled"` // 总开关
	User    UserEventsConfig    `mapstructure:"user"`
	Content ContentEventsConfig `mapstructure:"content"`
}

// UserEventsConfig 用户与认证相关事件.
type UserEventsConfig struct {
	LoggedIn       bool `mapstructure:"logged_in"`
	PasswordReset  bool `mapstructure:"password_reset"`
	PasswordChange bool `mapstructure:"password_change"`
}

// ContentEventsConfig 歌曲与视频相关事件.
type ContentEventsConfig struct {
	Created    bool `mapstructure:"created"`
	Updated    bool `mapstructure:"updated"`
	Deleted    bool `mapstructure:"deleted"`
	Interacted bool `mapstructure:"interacted"`
	Orphaned   bool `mapstructure:"orphaned"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)

	v.SetDefault("events.user.logged_in", true)
	v.SetDefault("events.user.password_reset", true)
	v.SetDefault("events.user.password_change", true)

	v.SetDefault("events.content.created", true)
	v.SetDefault("events.content.updated", true)
	v.SetDefault("events.content.deleted", true)
	v.SetDefault("events.content.orphaned", true)
	// 播放量事件量大，默认关闭
	v.SetDefault("events.content.interacted", false)
}
