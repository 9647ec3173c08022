// Package adapter 提供待办数据的持久化适配器
// 本地模式写 JSON 文件，远程模式走托管后端的 HTTP + WebSocket 接口；
// 上层状态容器只依赖统一的 Adapter 接口，对模式无感知
package adapter

import (
	"github.com/todonext/backend/internal/domain/todo"
)

// ChangeHandlers 变更推送回调集合
// 远程模式下由服务端推送触发；本地模式没有推送，回调不会被调用
type ChangeHandlers struct {
	OnInsert func(todo.Todo)
	OnUpdate func(todo.Todo)
	OnDelete func(todo.Todo)
}

// Adapter 待办持久化适配器
// 所有方法都是快速失败：一次调用失败立即返回错误，不做重试
type Adapter interface {
	// FetchAll 获取全部待办，按创建时间倒序（新的在前）
	FetchAll(ownerID string) ([]todo.Todo, error)

	// Insert 新增待办，返回持久化后的完整行
	// 远程模式下调用方应忽略返回值，以推送事件为准
	Insert(text, ownerID string) (*todo.Todo, error)

	// Update 更新指定待办的标记位
	Update(id string, patch todo.Patch) error

	// Remove 删除指定待办，删除不存在的待办视为成功
	Remove(id string) error

	// Subscribe 订阅变更推送，返回取消函数
	// 本地模式返回空操作的取消函数
	Subscribe(h ChangeHandlers) (func(), error)
}
