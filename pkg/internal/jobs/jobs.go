// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/log"
	"github.com/yeisme/hydrogen/pkg/metrics"
	"github.com/yeisme/hydrogen/pkg/queue"
	"github.com/yeisme/hydrogen/pkg/scheduler"
)

// Subscriber 订阅消息主题.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// Runner 执行清理任务.
type Runner struct {
	logins    *repository.LoginRepository
	codes     *repository.CodeRepository
	retention time.Duration
	otpExpiry time.Duration
	now       func() time.Time
	orphans   atomic.Int64
}

// NewRunner 创建任务执行器.
func NewRunner(repos *repository.Repositories, cfg *configs.AppConfig) *Runner {
	return &Runner{
		logins:    repos.Logins,
		codes:     repos.Codes,
		retention: time.Duration(cfg.Jobs.LoginRetentionDays) * 24 * time.Hour,
		otpExpiry: cfg.Auth.OTPExpiry,
		now:       time.Now,
	}
}

// SetClock 替换时钟.
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
}

// LoginRetention 删除超出保留期的登录记录.
func (r *Runner) LoginRetention(ctx context.Context) (int64, error) {
	if r.retention <= 0 {
		return 0, nil
	}

	n, err := r.logins.DeleteBefore(ctx, r.now().Add(-r.retention))
	if err != nil {
		return 0, fmt.Errorf("delete logins: %w", err)
	}

	return n, nil
}

// CodeExpiry 删除过期的验证码.
func (r *Runner) CodeExpiry(ctx context.Context) (int64, error) {
	if r.otpExpiry <= 0 {
		return 0, nil
	}

	n, err := r.codes.DeleteBefore(ctx, r.now().Add(-r.otpExpiry))
	if err != nil {
		return 0, fmt.Errorf("delete codes: %w", err)
	}

	return n, nil
}

// OrphanSweep 取出自上次执行以来收到的孤儿对象数量并清零.
func (r *Runner) OrphanSweep(ctx context.Context) int64 {
	n := r.orphans.Swap(0)
	if n > 0 {
		log.Ctx(ctx).Warn().Int64("orphans", n).Msg("orphaned objects pending cleanup")
	}

	return n
}

// WatchOrphans 消费孤儿对象事件直到 ctx 结束或订阅关闭.
func (r *Runner) WatchOrphans(ctx context.Context, sub Subscriber) error {
	if sub == nil {
		return errors.New("subscriber is nil")
	}

	ch, err := sub.Subscribe(ctx, queue.TopicContentOrphaned)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", queue.TopicContentOrphaned, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				r.recordOrphan(ctx, msg)
			}
		}
	}()

	return nil
}

func (r *Runner) recordOrphan(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	env, err := queue.ParseWatermillMessage[queue.ContentOrphanedPayload](msg)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("message_id", msg.UUID).Msg("malformed orphan event")
		return
	}

	r.orphans.Add(1)
	metrics.OrphanedObjects.Inc()

	p := env.Payload
	log.Ctx(ctx).Info().
		Str("kind", p.Content.Kind).
		Uint("id", p.Content.ID).
		Str("bucket", p.Object.Bucket).
		Str("key", p.Object.Key).
		Str("error", p.Error).
		Msg("orphaned object recorded")
}

// Register 按配置注册全部定时任务.
func Register(ctx context.Context, sched *scheduler.Scheduler, r *Runner, cfg configs.JobsConfig) error {
	if sched == nil {
		return errors.New("scheduler is nil")
	}

	l := log.Logger()

	jobs := []struct {
		name string
		cron string
		run  func(ctx context.Context)
	}{
		{JobLoginRetention, cfg.LoginRetentionCron, func(ctx context.Context) {
			n, err := r.LoginRetention(ctx)
			if err != nil {
				l.Error().Err(err).Str("job", JobLoginRetention).Msg("job failed")
				return
			}

			l.Info().Str("job", JobLoginRetention).Int64("deleted", n).Msg("job done")
		}},
		{JobCodeExpiry, cfg.CodeExpiryCron, func(ctx context.Context) {
			n, err := r.CodeExpiry(ctx)
			if err != nil {
				l.Error().Err(err).Str("job", JobCodeExpiry).Msg("job failed")
				return
			}

			if n > 0 {
				l.Debug().Str("job", JobCodeExpiry).Int64("deleted", n).Msg("job done")
			}
		}},
		{JobOrphanSweep, cfg.OrphanSweepCron, func(ctx context.Context) {
			r.OrphanSweep(ctx)
		}},
	}

	for _, j := range jobs {
		if j.cron == "" {
			continue
		}

		if err := sched.AddCron(ctx, j.name, j.cron, j.run); err != nil {
			return fmt.Errorf("add job %s: %w", j.name, err)
		}
	}

	return nil
}
