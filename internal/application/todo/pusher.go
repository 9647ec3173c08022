package todo

// Pusher 变更推送接口（定义在 application 层）
// 这是应用层需要的技术能力，不是领域概念
// 事件只推送给行所有者，推送失败不重试
type Pusher interface {
	PushToUser(userID string, event *ChangeEventDTO) error
}
