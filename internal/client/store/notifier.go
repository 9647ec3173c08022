package store

import "github.com/todonext/backend/internal/domain/todo"

// Notification 状态快照
// 每次状态变更后推给所有通知器，携带完整的当前状态
type Notification struct {
	Status Status
	Todos  []todo.Todo
}

// Notifier 状态变更通知器
// 展示层实现该接口以响应状态变化（重新渲染列表等）
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc 函数式通知器
type NotifierFunc func(n Notification)

// Notify 实现 Notifier
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}
