package configs

import (
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort            = 5000
	DefaultHost            = "0.0.0.0"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 2 * time.Minute
	DefaultShutdownTimeout = 10 * time.Second
)

// ServerConfig HTTP 监听与超时. 上传接口的写超时需覆盖大文件传输.
type ServerConfig struct {
	Host            string        `mapstructure:"host"             rule:"ip"`
	Port            int           `mapstructure:"port"             rule:"min=1,max=65535"`
	Debug           bool          `mapstructure:"debug"`
	ReloadConfig    bool          `mapstructure:"reload_config"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     rule:"min=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    rule:"min=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"     rule:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" rule:"min=1s"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes" rule:"min=0"`
}

// Addr host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func (s *ServerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.reload_config", true)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.idle_timeout", DefaultIdleTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.max_header_bytes", 1<<20)
}
