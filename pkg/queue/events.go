package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/hydrogen/pkg/configs"
	nlog "github.com/yeisme/hydrogen/pkg/log"
)

// Publisher 按事件开关发布领域事件. 发布失败只记录日志，不影响业务请求.
// 零值与 nil 均可安全使用（不发布任何事件）.
type Publisher struct {
	pub      message.Publisher
	cfg      configs.EventsConfig
	producer string
}

// NewPublisher 创建事件发布器.
func NewPublisher(pub message.Publisher, cfg configs.EventsConfig, producer string) *Publisher {
	return &Publisher{pub: pub, cfg: cfg, producer: producer}
}

func publish[T any](ctx context.Context, p *Publisher, enabled bool, topic string, payload T) {
	if p == nil || p.pub == nil || !p.cfg.Enabled || !enabled {
		return
	}

	msg, err := NewWatermillMessage(topic, payload, WithProducer(p.producer), WithContext(ctx))
	if err != nil {
		nlog.Ctx(ctx).Error().Err(err).Str("topic", topic).Msg("encode event failed")

		return
	}

	msg.SetContext(ctx)

	if err := p.pub.Publish(topic, msg); err != nil {
		nlog.Ctx(ctx).Error().Err(err).Str("topic", topic).Str("id", msg.UUID).Msg("publish event failed")

		return
	}

	nlog.Ctx(ctx).Debug().Str("topic", topic).Str("id", msg.UUID).Msg("event published")
}

// ContentCreated 发布 hydrogen.content.created.
func (p *Publisher) ContentCreated(ctx context.Context, payload ContentPayload) {
	publish(ctx, p, p != nil && p.cfg.Content.Created, TopicContentCreated, payload)
}

// ContentUpdated 发布 hydrogen.content.updated.
func (p *Publisher) ContentUpdated(ctx context.Context, payload ContentPayload) {
	publish(ctx, p, p != nil && p.cfg.Content.Updated, TopicContentUpdated, payload)
}

// ContentDeleted 发布 hydrogen.content.deleted.
func (p *Publisher) ContentDeleted(ctx context.Context, payload ContentPayload) {
	publish(ctx, p, p != nil && p.cfg.Content.Deleted, TopicContentDeleted, payload)
}

// ContentInteracted 发布 hydrogen.content.interacted.
func (p *Publisher) ContentInteracted(ctx context.Context, payload ContentPayload) {
	publish(ctx, p, p != nil && p.cfg.Content.Interacted, TopicContentInteracted, payload)
}

// ContentOrphaned 发布 hydrogen.content.orphaned.
func (p *Publisher) ContentOrphaned(ctx context.Context, payload ContentOrphanedPayload) {
	publish(ctx, p, p != nil && p.cfg.Content.Orphaned, TopicContentOrphaned, payload)
}

// UserLoggedIn 发布 hydrogen.user.logged_in.
func (p *Publisher) UserLoggedIn(ctx context.Context, payload UserLoggedInPayload) {
	publish(ctx, p, p != nil && p.cfg.User.LoggedIn, TopicUserLoggedIn, payload)
}

// PasswordResetRequested 发布 hydrogen.auth.password_reset_requested.
func (p *Publisher) PasswordResetRequested(ctx context.Context, payload PasswordResetRequestedPayload) {
	publish(ctx, p, p != nil && p.cfg.User.PasswordReset, TopicPasswordResetRequested, payload)
}

// PasswordChanged 发布 hydrogen.auth.password_changed.
func (p *Publisher) PasswordChanged(ctx context.Context, payload PasswordChangedPayload) {
	publish(ctx, p, p != nil && p.cfg.User.PasswordChange, TopicPasswordChanged, payload)
}
