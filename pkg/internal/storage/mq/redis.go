package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/yeisme/hydrogen/pkg/configs"
)

// Redis Streams 条目中的字段.
const (
	fieldUUID     = "uuid"
	fieldPayload  = "payload"
	fieldMetadata = "metadata"
)

const (
	redisReadCount    = 16
	redisRetryBackoff = time.Second
)

func init() {
	RegisterFactory(configs.MQTypeRedis, redisFactory)
}

// redisFactory 发布端与订阅端共用一个连接，由订阅端负责关闭.
func redisFactory(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	pub := &RedisPublisher{rdb: rdb, maxLen: cfg.Redis.MaxLen, logger: logger}
	sub := &RedisSubscriber{
		rdb:      rdb,
		group:    cfg.Redis.ConsumerGroup,
		consumer: cfg.ClientID + "-" + watermill.NewShortUUID(),
		block:    cfg.Redis.Block,
		buffer:   cfg.BufferSize,
		logger:   logger,
		closing:  make(chan struct{}),
	}

	return pub, sub, nil
}

// RedisPublisher 每个主题对应一个 stream，写入时按 maxLen 近似裁剪.
type RedisPublisher struct {
	rdb    *redis.Client
	maxLen int64
	logger watermill.LoggerAdapter
}

func (p *RedisPublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		meta, err := sonic.MarshalString(msg.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}

		args := &redis.XAddArgs{
			Stream: topic,
			Values: map[string]any{
				fieldUUID:     msg.UUID,
				fieldPayload:  []byte(msg.Payload),
				fieldMetadata: meta,
			},
		}

		if p.maxLen > 0 {
			args.MaxLen = p.maxLen
			args.Approx = true
		}

		if err := p.rdb.XAdd(msg.Context(), args).Err(); err != nil {
			p.logger.Error("redis xadd failed", err, watermill.LogFields{"topic": topic, "uuid": msg.UUID})
			return err
		}
	}

	return nil
}

func (p *RedisPublisher) Close() error {
	return nil
}

// RedisSubscriber 通过消费组读取，Ack 后 XACK，Nack 时重新投递同一条消息.
type RedisSubscriber struct {
	rdb      *redis.Client
	group    string
	consumer string
	block    time.Duration
	buffer   int
	logger   watermill.LoggerAdapter

	mu      sync.Mutex
	closed  bool
	closing chan struct{}
	wg      sync.WaitGroup
}

func (s *RedisSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrNotInitialized
	}

	err := s.rdb.XGroupCreateMkStream(ctx, topic, s.group, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("create consumer group %s on %s: %w", s.group, topic, err)
	}

	out := make(chan *message.Message, s.buffer)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer close(out)

		s.consume(ctx, topic, out)
	}()

	return out, nil
}

func (s *RedisSubscriber) consume(ctx context.Context, topic string, out chan<- *message.Message) {
	fields := watermill.LogFields{"topic": topic, "group": s.group, "consumer": s.consumer}

	for {
		if s.done(ctx) {
			return
		}

		streams, err := s.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.group,
			Consumer: s.consumer,
			Streams:  []string{topic, ">"},
			Count:    redisReadCount,
			Block:    s.block,
		}).Result()

		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			if s.done(ctx) {
				return
			}

			s.logger.Error("redis xreadgroup failed", err, fields)

			select {
			case <-time.After(redisRetryBackoff):
			case <-s.closing:
				return
			case <-ctx.Done():
				return
			}

			continue
		}

		for _, stream := range streams {
			for _, xm := range stream.Messages {
				if !s.deliver(ctx, topic, xm, out) {
					return
				}
			}
		}
	}
}

// deliver 阻塞直到消息被 Ack，返回 false 表示订阅已结束.
func (s *RedisSubscriber) deliver(ctx context.Context, topic string, xm redis.XMessage, out chan<- *message.Message) bool {
	base, err := decodeStreamMessage(xm)
	if err != nil {
		s.logger.Error("drop malformed stream entry", err, watermill.LogFields{"topic": topic, "id": xm.ID})
		_ = s.rdb.XAck(ctx, topic, s.group, xm.ID).Err()

		return true
	}

	for {
		msg := base.Copy()
		msgCtx, cancel := context.WithCancel(ctx)
		msg.SetContext(msgCtx)

		select {
		case out <- msg:
		case <-s.closing:
			cancel()
			return false
		case <-ctx.Done():
			cancel()
			return false
		}

		select {
		case <-msg.Acked():
			cancel()

			if err := s.rdb.XAck(ctx, topic, s.group, xm.ID).Err(); err != nil {
				s.logger.Error("redis xack failed", err, watermill.LogFields{"topic": topic, "id": xm.ID})
			}

			return true
		case <-msg.Nacked():
			cancel()
		case <-s.closing:
			cancel()
			return false
		case <-ctx.Done():
			cancel()
			return false
		}
	}
}

func (s *RedisSubscriber) done(ctx context.Context) bool {
	select {
	case <-s.closing:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (s *RedisSubscriber) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	s.closed = true
	close(s.closing)
	s.mu.Unlock()

	err := s.rdb.Close()
	s.wg.Wait()

	return err
}

func decodeStreamMessage(xm redis.XMessage) (*message.Message, error) {
	uuid, _ := xm.Values[fieldUUID].(string)
	if uuid == "" {
		uuid = watermill.NewUUID()
	}

	payload, ok := xm.Values[fieldPayload].(string)
	if !ok {
		return nil, fmt.Errorf("entry %s has no payload", xm.ID)
	}

	msg := message.NewMessage(uuid, []byte(payload))

	if raw, _ := xm.Values[fieldMetadata].(string); raw != "" {
		if err := sonic.UnmarshalString(raw, &msg.Metadata); err != nil {
			return nil, fmt.Errorf("entry %s metadata: %w", xm.ID, err)
		}
	}

	return msg, nil
}
