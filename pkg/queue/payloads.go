package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 内容领域 --------------------------

// ObjectRef 标识对象存储中的一个对象.
type ObjectRef struct {
	Kind   string `json:"kind"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// ContentPayload 内容创建、更新、删除与互动事件.
type ContentPayload struct {
	Kind    string      `json:"kind"` // song | video
	ID      uint        `json:"id"`
	Title   string      `json:"title"`
	Status  string      `json:"status,omitempty"`
	Objects []ObjectRef `json:"objects,omitempty"`
	Counter int64       `json:"counter,omitempty"` // listens / views
}

// ContentOrphanedPayload 元数据已更新但旧对象未能删除.
type ContentOrphanedPayload struct {
	Content ContentPayload `json:"content"`
	Object  ObjectRef      `json:"object"`
	Error   string         `json:"error"`
}

// -------------------------- 用户领域 --------------------------

// UserLoggedInPayload 登录成功.
type UserLoggedInPayload struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// PasswordResetRequestedPayload 请求重置密码，邮件服务据此发送验证码.
type PasswordResetRequestedPayload struct {
	UserID    uint          `json:"user_id"`
	Email     string        `json:"email"`
	FullName  string        `json:"full_name,omitempty"`
	OTPCode   string        `json:"otp_code"`
	ExpiresIn time.Duration `json:"expires_in"`
}

// PasswordChangedPayload 密码已修改.
type PasswordChangedPayload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}
