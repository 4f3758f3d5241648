// Package storage 聚合数据库、对象存储、KV 与消息队列客户端，统一管理其生命周期.
//
// Example:
//
//	mgr, err := storage.New(ctx, configs.GetConfig())
//	if err != nil {
//		// 处理错误
//	}
//	defer mgr.Close()
//
//	songs := repository.NewSongRepository(mgr.DB.GetDB())
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yeisme/hydrogen/pkg/configs"
	dbc "github.com/yeisme/hydrogen/pkg/internal/storage/db"
	kvc "github.com/yeisme/hydrogen/pkg/internal/storage/kv"
	mqc "github.com/yeisme/hydrogen/pkg/internal/storage/mq"
	s3c "github.com/yeisme/hydrogen/pkg/internal/storage/s3"
	nlog "github.com/yeisme/hydrogen/pkg/log"
)

// 健康检查组件名.
const (
	ComponentDB = "db"
	ComponentS3 = "s3"
	ComponentKV = "kv"
	ComponentMQ = "mq"
)

// ErrUnknownComponent 健康检查组件不存在.
var ErrUnknownComponent = errors.New("unknown storage component")

// Manager 聚合所有存储资源，由 app 启动时创建、关闭时释放.
type Manager struct {
	DB    *dbc.Client
	S3    s3c.ObjectStore
	Media *s3c.Media
	KV    *kvc.Client
	MQ    *mqc.Client

	closeOnce sync.Once
}

// New 按配置初始化全部存储客户端，任一失败时释放已创建的资源.
func New(ctx context.Context, cfg *configs.AppConfig) (*Manager, error) {
	m := &Manager{}

	var err error

	if m.DB, err = dbc.New(ctx, &cfg.DB, cfg.Metrics.Enabled); err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	if m.S3, err = newObjectStore(ctx, cfg); err != nil {
		_ = m.Close()

		return nil, fmt.Errorf("init s3: %w", err)
	}

	m.Media = s3c.NewMedia(m.S3, cfg.S3)

	if m.KV, err = kvc.NewKVClient(ctx, &cfg.KV); err != nil {
		_ = m.Close()

		return nil, fmt.Errorf("init kv: %w", err)
	}

	if m.MQ, err = mqc.New(ctx, &cfg.MQ, cfg.Metrics); err != nil {
		_ = m.Close()

		return nil, fmt.Errorf("init mq: %w", err)
	}

	nlog.Logger().Info().Msg("storage manager initialized")

	return m, nil
}

// newObjectStore 未配置 endpoint 时使用内存对象存储，仅适合本地开发.
func newObjectStore(ctx context.Context, cfg *configs.AppConfig) (s3c.ObjectStore, error) {
	if cfg.S3.Endpoint != "" {
		return s3c.New(ctx, &cfg.S3, cfg.CircuitBreaker)
	}

	if cfg.App.IsProduction() {
		return nil, errors.New("s3.endpoint is required in production")
	}

	nlog.Logger().Warn().Msg("s3.endpoint not set, using in-memory object store")

	mem := s3c.NewMemoryStore()
	for _, bkt := range cfg.S3.AllBuckets() {
		if bkt != "" {
			_ = mem.MakeBucket(ctx, bkt)
		}
	}

	return mem, nil
}

// Health 检查单个组件.
func (m *Manager) Health(ctx context.Context, component string) error {
	switch component {
	case ComponentDB:
		if m.DB == nil {
			return errors.New("db not initialized")
		}

		return m.DB.Ping(ctx)
	case ComponentS3:
		if hc, ok := m.S3.(interface{ HealthCheck(context.Context) error }); ok {
			return hc.HealthCheck(ctx)
		}

		if m.S3 == nil {
			return errors.New("s3 not initialized")
		}

		return nil
	case ComponentKV:
		if m.KV == nil {
			return errors.New("kv not initialized")
		}

		return m.KV.Ping(ctx)
	case ComponentMQ:
		return m.MQ.HealthCheck(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownComponent, component)
	}
}

// HealthAll 并发检查所有组件，返回各组件的错误（nil 表示健康）.
func (m *Manager) HealthAll(ctx context.Context) map[string]error {
	components := []string{ComponentDB, ComponentS3, ComponentKV, ComponentMQ}
	results := make([]error, len(components))

	var g errgroup.Group

	for i, name := range components {
		g.Go(func() error {
			results[i] = m.Health(ctx, name)

			return nil
		})
	}

	_ = g.Wait()

	out := make(map[string]error, len(components))
	for i, name := range components {
		out[name] = results[i]
	}

	return out
}

// Close 按 MQ、KV、S3、DB 的顺序释放资源，可重复调用.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		if m.MQ != nil {
			errs = append(errs, m.MQ.Close())
		}

		if m.KV != nil {
			errs = append(errs, m.KV.Close())
		}

		if c, ok := m.S3.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}

		if m.DB != nil {
			errs = append(errs, m.DB.Close())
		}

		nlog.Logger().Info().Msg("storage manager closed")
	})

	return errors.Join(errs...)
}
