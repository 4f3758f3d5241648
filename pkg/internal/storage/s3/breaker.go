package s3

import (
	"errors"

	"github.com/sony/gobreaker"

	"github.com/yeisme/hydrogen/pkg/configs"
)

// ErrBreakerOpen 熔断打开时返回.
var ErrBreakerOpen = errors.New("object storage temporarily unavailable")

// breaker 基于 gobreaker 包装对象存储调用，未启用时直接执行.
type breaker struct {
	cb *gobreaker.CircuitBreaker
}

func newBreaker(cfg configs.CircuitBreakerConfig) *breaker {
	if !cfg.Enabled {
		return &breaker{}
	}

	settings := gobreaker.Settings{
		Name:        "s3",
		MaxRequests: cfg.MaxRequestsInHalf,
		Interval:    cfg.Interval(),
		Timeout:     cfg.Timeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return cfg.ShouldTrip(counts.Requests, counts.TotalFailures)
		},
	}

	return &breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breaker) run(fn func() error) error {
	if b == nil || b.cb == nil {
		return fn()
	}

	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrBreakerOpen
	}

	return err
}

// State 返回熔断器当前状态，未启用时为 closed.
func (b *breaker) State() string {
	if b == nil || b.cb == nil {
		return gobreaker.StateClosed.String()
	}

	return b.cb.State().String()
}
