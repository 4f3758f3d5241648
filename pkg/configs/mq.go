package configs

import (
	"time"

	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	MQTypeNATS      MQType = "nats"
	MQTypeRedis     MQType = "redis"
	MQTypeGoChannel MQType = "gochannel" // 进程内，测试与单实例部署
)

// MQConfig 领域事件的传输. enabled 为 false 时使用进程内 gochannel.
type MQConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Type       MQType        `mapstructure:"type"        rule:"oneof=nats redis gochannel"`
	ClientID   string        `mapstructure:"client_id"   rule:"required"`
	BufferSize int           `mapstructure:"buffer_size" rule:"min=1"`
	Metrics    bool          `mapstructure:"metrics"`
	NATS       MQNATSConfig  `mapstructure:"nats"`
	Redis      MQRedisConfig `mapstructure:"redis"`
}

type MQNATSConfig struct {
	URL           string            `mapstructure:"url"`
	ClusterURLs   []string          `mapstructure:"cluster_urls"`
	User          string            `mapstructure:"user"`
	Password      string            `mapstructure:"password"`
	JWT           string            `mapstructure:"jwt"`
	NKey          string            `mapstructure:"nkey"`
	MaxReconnects int               `mapstructure:"max_reconnects" rule:"min=-1"` // -1 无限重连
	ReconnectWait time.Duration     `mapstructure:"reconnect_wait"`
	PingInterval  time.Duration     `mapstructure:"ping_interval"`
	MaxPingsOut   int               `mapstructure:"max_pings_out"  rule:"min=1,max=10"`
	StrictConnect bool              `mapstructure:"strict_connect"`
	QueueGroup    bool              `mapstructure:"queue_group"` // 多实例分摊同一主题
	JetStream     MQJetStreamConfig `mapstructure:"jetstream"`
}

type MQJetStreamConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	AutoProvision bool   `mapstructure:"auto_provision"`
	TrackMsgID    bool   `mapstructure:"track_msg_id"`
	AckAsync      bool   `mapstructure:"ack_async"`
	DurablePrefix string `mapstructure:"durable_prefix"`
}

// MQRedisConfig 使用 Redis Streams，同一 consumer_group 内的实例分摊消息.
type MQRedisConfig struct {
	Addr          string        `mapstructure:"addr"           rule:"hostname_port"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"             rule:"min=0,max=15"`
	ConsumerGroup string        `mapstructure:"consumer_group" rule:"required"`
	MaxLen        int64         `mapstructure:"max_len"        rule:"min=0"` // 0 不裁剪
	Block         time.Duration `mapstructure:"block"`
}

func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.enabled", false)
	v.SetDefault("mq.type", MQTypeGoChannel)
	v.SetDefault("mq.client_id", "hydrogen")
	v.SetDefault("mq.buffer_size", 256)
	v.SetDefault("mq.metrics", true)

	v.SetDefault("mq.nats.url", "nats://localhost:4222")
	v.SetDefault("mq.nats.cluster_urls", []string{})
	v.SetDefault("mq.nats.max_reconnects", 10)
	v.SetDefault("mq.nats.reconnect_wait", 2*time.Second)
	v.SetDefault("mq.nats.ping_interval", 20*time.Second)
	v.SetDefault("mq.nats.max_pings_out", 3)
	v.SetDefault("mq.nats.queue_group", true)
	v.SetDefault("mq.nats.jetstream.enabled", true)
	v.SetDefault("mq.nats.jetstream.auto_provision", true)
	v.SetDefault("mq.nats.jetstream.track_msg_id", true)
	v.SetDefault("mq.nats.jetstream.durable_prefix", "hydrogen")

	v.SetDefault("mq.redis.addr", "localhost:6379")
	v.SetDefault("mq.redis.db", 0)
	v.SetDefault("mq.redis.consumer_group", "hydrogen")
	v.SetDefault("mq.redis.max_len", 100000)
	v.SetDefault("mq.redis.block", 2*time.Second)
}
