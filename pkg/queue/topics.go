// Package queue 定义消息主题常量，供发布/订阅使用.
package queue

// 主题命名规范：hydrogen.<域>.<动作>，保持稳定且向后兼容.
const (
	// 内容领域（歌曲、视频）.
	TopicContentCreated    = "hydrogen.content.created"    // 新内容写入数据库
	TopicContentUpdated    = "hydrogen.content.updated"    // 元数据或对象键变更
	TopicContentDeleted    = "hydrogen.content.deleted"    // 内容及其对象被删除
	TopicContentInteracted = "hydrogen.content.interacted" // 播放或观看次数加一
	TopicContentOrphaned   = "hydrogen.content.orphaned"   // 旧对象删除失败，等待清理

	// 用户与认证领域.
	TopicUserLoggedIn           = "hydrogen.user.logged_in"
	TopicPasswordResetRequested = "hydrogen.auth.password_reset_requested" // 邮件发送钩子
	TopicPasswordChanged        = "hydrogen.auth.password_changed"
)

// 主题分组.
var (
	ContentTopics = []string{
		TopicContentCreated, TopicContentUpdated, TopicContentDeleted,
		TopicContentInteracted, TopicContentOrphaned,
	}

	UserTopics = []string{
		TopicUserLoggedIn, TopicPasswordResetRequested, TopicPasswordChanged,
	}
)

// AllTopics 返回全部主题.
func AllTopics() []string {
	return append(append([]string{}, ContentTopics...), UserTopics...)
}
