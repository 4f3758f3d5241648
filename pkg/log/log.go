// Package log 全局 zerolog logger: stderr 输出（console 或 json），可选 lumberjack 滚动文件.
package log

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yeisme/hydrogen/pkg/configs"
)

const FormatJSON = "json"

var (
	mu         sync.RWMutex
	logger     = zerolog.Nop()
	initOnce   sync.Once
	configured atomic.Bool
)

// Init 按全局配置初始化，Setup 被调用过后不再生效.
func Init() {
	if configured.Load() {
		return
	}

	initOnce.Do(func() {
		cfg := configs.GetConfig()
		Setup(cfg.Log, cfg.Server.Debug)
	})
}

// Setup 重建全局 logger 并同步 gin 的运行模式.
func Setup(cfg configs.LogConfig, debug bool) {
	SetupWriter(cfg, debug, os.Stderr)
}

// SetupWriter 同 Setup，stderr 换成 out.
func SetupWriter(cfg configs.LogConfig, debug bool, out io.Writer) {
	configured.Store(true)

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.DurationFieldUnit = time.Millisecond

	sinks := []io.Writer{stderrSink(cfg, out)}
	if cfg.EnableFile && cfg.FilePath != "" {
		sinks = append(sinks, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	zc := zerolog.New(zerolog.MultiLevelWriter(sinks...)).With().Timestamp()

	if debug {
		zc = zc.Caller()
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	l := zc.Logger()

	mu.Lock()
	logger = l
	log.Logger = l
	mu.Unlock()
}

func stderrSink(cfg configs.LogConfig, out io.Writer) io.Writer {
	if strings.EqualFold(cfg.Format, FormatJSON) {
		return out
	}

	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
}

func parseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.InfoLevel
	}

	return lvl
}

// Logger 返回全局 logger 的副本.
func Logger() *zerolog.Logger {
	Init()

	mu.RLock()
	l := logger
	mu.RUnlock()

	return &l
}

type requestIDKey struct{}

// WithRequestID 写入请求 ID，之后 Ctx 返回的 logger 会带上 request_id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID 取出 WithRequestID 写入的值.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}

func Ctx(ctx context.Context) *zerolog.Logger {
	l := Logger()

	if id := RequestID(ctx); id != "" {
		sub := l.With().Str("request_id", id).Logger()
		return &sub
	}

	return l
}

// GinWriter 把 gin 的调试与错误输出转成 zerolog 事件.
type GinWriter struct {
	logger *zerolog.Logger
	level  zerolog.Level
}

func NewGinWriter(logger *zerolog.Logger, level zerolog.Level) *GinWriter {
	return &GinWriter{logger: logger, level: level}
}

func (w *GinWriter) Write(p []byte) (int, error) {
	if msg := strings.TrimSpace(string(p)); msg != "" {
		lvl := max(w.level, zerolog.DebugLevel)
		lvl = min(lvl, zerolog.ErrorLevel)

		w.logger.WithLevel(lvl).Str("component", "gin").Msg(msg)
	}

	return len(p), nil
}
