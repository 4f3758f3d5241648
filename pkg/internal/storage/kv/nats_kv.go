package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/yeisme/hydrogen/pkg/configs"
)

// casAttempts Incr 乐观并发重试次数.
const casAttempts = 8

// NATSKV 基于 JetStream KV bucket. bucket 本身不设过期，逐键过期由 sealValue 封装.
type NATSKV struct {
	nc      *nats.Conn
	bucket  jetstream.KeyValue
	timeout time.Duration
}

func newNATSKV(ctx context.Context, config any) (KVStore, error) {
	cfg, ok := config.(*configs.NATSKVConfig)
	if !ok {
		return nil, fmt.Errorf("nats kv: unexpected config %T", config)
	}

	opts := []nats.Option{nats.Name("hydrogen-kv")}
	if cfg.Timeout > 0 {
		opts = append(opts, nats.Timeout(cfg.Timeout))
	}

	if cfg.User != "" {
		opts = append(opts, nats.UserInfo(cfg.User, cfg.Password))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats kv: connect %s: %w", cfg.URL, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("nats kv: jetstream: %w", err)
	}

	replicas := cfg.Replicas
	if replicas <= 0 {
		replicas = 1
	}

	bucket, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:   cfg.Bucket,
		History:  1,
		Replicas: replicas,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("nats kv: bucket %s: %w", cfg.Bucket, err)
	}

	return &NATSKV{nc: nc, bucket: bucket, timeout: cfg.Timeout}, nil
}

// ctx 调用方未设置截止时间时使用配置的超时.
func (n *NATSKV) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok || n.timeout <= 0 {
		return parent, func() {}
	}

	return context.WithTimeout(parent, n.timeout)
}

// entry 读取并解封，过期的键顺手删除.
func (n *NATSKV) entry(ctx context.Context, key string) ([]byte, uint64, error) {
	e, err := n.bucket.Get(ctx, key)

	switch {
	case errors.Is(err, jetstream.ErrKeyNotFound):
		return nil, 0, ErrNotFound
	case err != nil:
		return nil, 0, fmt.Errorf("nats kv: get %q: %w", key, err)
	}

	val, live := openValue(e.Value(), time.Now())
	if !live {
		_ = n.bucket.Delete(ctx, key)
		return nil, 0, ErrNotFound
	}

	return val, e.Revision(), nil
}

func (n *NATSKV) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := n.ctx(ctx)
	defer cancel()

	val, _, err := n.entry(ctx, key)

	return val, err
}

func (n *NATSKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := n.ctx(ctx)
	defer cancel()

	if _, err := n.bucket.Put(ctx, key, sealValue(value, ttl, time.Now())); err != nil {
		return fmt.Errorf("nats kv: put %q: %w", key, err)
	}

	return nil
}

func (n *NATSKV) Delete(ctx context.Context, key string) error {
	ctx, cancel := n.ctx(ctx)
	defer cancel()

	err := n.bucket.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("nats kv: delete %q: %w", key, err)
	}

	return nil
}

func (n *NATSKV) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := n.ctx(ctx)
	defer cancel()

	_, _, err := n.entry(ctx, key)

	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}

	return true, nil
}

// Keys bucket 不支持服务端 glob 过滤，在客户端匹配并跳过已过期的键.
func (n *NATSKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	ctx, cancel := n.ctx(ctx)
	defer cancel()

	lister, err := n.bucket.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("nats kv: list keys: %w", err)
	}
	defer func() { _ = lister.Stop() }()

	var candidates []string

	for key := range lister.Keys() {
		if matchKey(pattern, key) {
			candidates = append(candidates, key)
		}
	}

	keys := make([]string, 0, len(candidates))

	for _, key := range candidates {
		if _, _, err := n.entry(ctx, key); err == nil {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Incr 基于修订号的比较并交换，冲突时重读重试.
func (n *NATSKV) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	ctx, cancel := n.ctx(ctx)
	defer cancel()

	for range casAttempts {
		raw, rev, err := n.entry(ctx, key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return 0, err
		}

		var count int64
		if err == nil {
			count, _ = strconv.ParseInt(string(raw), 10, 64)
		}

		count++
		next := sealValue([]byte(strconv.FormatInt(count, 10)), ttl, time.Now())

		if rev == 0 {
			_, err = n.bucket.Create(ctx, key, next)
		} else {
			_, err = n.bucket.Update(ctx, key, next, rev)
		}

		if err == nil {
			return count, nil
		}

		if !revisionConflict(err) {
			return 0, fmt.Errorf("nats kv: incr %q: %w", key, err)
		}
	}

	return 0, fmt.Errorf("nats kv: incr %q: too much contention", key)
}

func revisionConflict(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}

	var apiErr *jetstream.APIError

	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}

// Ping 检查连接状态.
func (n *NATSKV) Ping(_ context.Context) error {
	if !n.nc.IsConnected() {
		return fmt.Errorf("nats kv: connection %s", n.nc.Status())
	}

	return nil
}

func (n *NATSKV) Close() error {
	return n.nc.Drain()
}

func init() {
	RegisterKVFactory(KVTypeNATS, newNATSKV)
}
