// Package store 提供客户端的待办状态容器
// 这是展示层唯一的读写入口：读取当前快照、发起变更、订阅通知。
// 本地模式的变更同步生效；远程模式的变更只通过服务端推送回流，
// 不做乐观更新，快照始终反映服务端已确认的状态
package store

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/todonext/backend/internal/client/adapter"
	clientSession "github.com/todonext/backend/internal/client/session"
	domainSession "github.com/todonext/backend/internal/domain/session"
	"github.com/todonext/backend/internal/domain/todo"
	"github.com/todonext/backend/internal/infrastructure/config"
	applog "github.com/todonext/backend/internal/infrastructure/log"
)

// Status 状态容器的生命周期阶段
type Status string

const (
	// StatusUninitialized 尚未加载
	StatusUninitialized Status = "uninitialized"
	// StatusLoading 正在加载
	StatusLoading Status = "loading"
	// StatusReady 已就绪
	StatusReady Status = "ready"
)

// Store 待办状态容器
type Store struct {
	mu     sync.Mutex
	ad     adapter.Adapter
	gate   *clientSession.Gate
	remote bool

	status    Status
	todos     []todo.Todo
	notifiers []Notifier

	cancelPush func()
	cancelGate func()
	logger     *slog.Logger
}

// NewStore 创建状态容器
// 远程模式下会订阅会话变化：登录后自动加载，登出后清空状态
func NewStore(ad adapter.Adapter, gate *clientSession.Gate, cfg *config.Config) *Store {
	s := &Store{
		ad:     ad,
		gate:   gate,
		remote: cfg.Client.Mode == config.ModeRemote,
		status: StatusUninitialized,
		logger: applog.NewModuleLogger("client", "store"),
	}

	if s.remote && gate != nil {
		s.cancelGate = gate.OnChange(s.onSessionChange)
	}

	return s
}

// AddNotifier 注册状态变更通知器
func (s *Store) AddNotifier(n Notifier) {
	s.mu.Lock()
	s.notifiers = append(s.notifiers, n)
	s.mu.Unlock()
}

// Status 返回当前生命周期阶段
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot 返回当前待办列表的副本，按创建时间倒序
func (s *Store) Snapshot() []todo.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]todo.Todo, len(s.todos))
	copy(items, s.todos)
	return items
}

// Load 加载待办列表并（远程模式下）建立变更订阅
// 失败时状态回到未加载，不做重试
func (s *Store) Load() error {
	ownerID := ""
	if s.remote {
		sess := s.gate.Current()
		if sess == nil {
			return domainSession.ErrUnauthenticated
		}
		ownerID = sess.UserID
	}

	s.setStatus(StatusLoading)

	items, err := s.ad.FetchAll(ownerID)
	if err != nil {
		s.setStatus(StatusUninitialized)
		return err
	}

	if s.remote {
		cancel, err := s.ad.Subscribe(adapter.ChangeHandlers{
			OnInsert: s.applyInsert,
			OnUpdate: s.applyUpdate,
			OnDelete: s.applyDelete,
		})
		if err != nil {
			s.setStatus(StatusUninitialized)
			return err
		}

		s.mu.Lock()
		if s.cancelPush != nil {
			s.cancelPush()
		}
		s.cancelPush = cancel
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.todos = items
	s.status = StatusReady
	s.mu.Unlock()
	s.notify()

	return nil
}

// Add 新增待办
// 内容会去除首尾空白，去除后为空则拒绝；
// 本地模式立即可见，远程模式等待 insert 推送
func (s *Store) Add(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return todo.ErrEmptyText
	}

	ownerID := ""
	if s.remote {
		sess := s.gate.Current()
		if sess == nil {
			return domainSession.ErrUnauthenticated
		}
		ownerID = sess.UserID
	}

	row, err := s.ad.Insert(text, ownerID)
	if err != nil {
		return err
	}

	if !s.remote {
		s.mu.Lock()
		s.todos = append([]todo.Todo{*row}, s.todos...)
		s.mu.Unlock()
		s.notify()
	}

	return nil
}

// ToggleCompleted 翻转完成标记
func (s *Store) ToggleCompleted(id string) error {
	return s.toggle(id, func(t *todo.Todo) todo.Patch {
		return t.ToggledCompleted()
	})
}

// ToggleImportant 翻转重要标记
func (s *Store) ToggleImportant(id string) error {
	return s.toggle(id, func(t *todo.Todo) todo.Patch {
		return t.ToggledImportant()
	})
}

// Delete 删除待办
// 本地模式立即移除，远程模式等待 delete 推送
func (s *Store) Delete(id string) error {
	if s.remote && s.gate.Current() == nil {
		return domainSession.ErrUnauthenticated
	}

	if err := s.ad.Remove(id); err != nil {
		return err
	}

	if !s.remote {
		s.mu.Lock()
		removed := s.removeLocked(id)
		s.mu.Unlock()
		if removed {
			s.notify()
		}
	}

	return nil
}

// Close 释放订阅资源
func (s *Store) Close() {
	s.mu.Lock()
	cancelPush := s.cancelPush
	s.cancelPush = nil
	cancelGate := s.cancelGate
	s.cancelGate = nil
	s.mu.Unlock()

	if cancelPush != nil {
		cancelPush()
	}
	if cancelGate != nil {
		cancelGate()
	}
}

// toggle 查找目标行、生成补丁并提交
func (s *Store) toggle(id string, patchOf func(*todo.Todo) todo.Patch) error {
	if s.remote && s.gate.Current() == nil {
		return domainSession.ErrUnauthenticated
	}

	s.mu.Lock()
	var target *todo.Todo
	for i := range s.todos {
		if s.todos[i].ID == id {
			row := s.todos[i]
			target = &row
			break
		}
	}
	s.mu.Unlock()

	// 目标不存在时静默忽略，不产生用户可见错误
	if target == nil {
		return nil
	}

	patch := patchOf(target)
	if err := s.ad.Update(id, patch); err != nil {
		return err
	}

	if !s.remote {
		s.mu.Lock()
		for i := range s.todos {
			if s.todos[i].ID == id {
				s.todos[i].Apply(patch)
				break
			}
		}
		s.mu.Unlock()
		s.notify()
	}

	return nil
}

// applyInsert 处理 insert 推送，按 ID 去重
func (s *Store) applyInsert(item todo.Todo) {
	s.mu.Lock()
	for i := range s.todos {
		if s.todos[i].ID == item.ID {
			s.mu.Unlock()
			return
		}
	}
	s.todos = append([]todo.Todo{item}, s.todos...)
	sort.SliceStable(s.todos, func(i, j int) bool {
		return s.todos[i].CreatedAt.After(s.todos[j].CreatedAt)
	})
	s.mu.Unlock()
	s.notify()
}

// applyUpdate 处理 update 推送，未知 ID 忽略
func (s *Store) applyUpdate(item todo.Todo) {
	s.mu.Lock()
	found := false
	for i := range s.todos {
		if s.todos[i].ID == item.ID {
			s.todos[i] = item
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify()
	}
}

// applyDelete 处理 delete 推送，未知 ID 忽略
func (s *Store) applyDelete(item todo.Todo) {
	s.mu.Lock()
	removed := s.removeLocked(item.ID)
	s.mu.Unlock()

	if removed {
		s.notify()
	}
}

// onSessionChange 响应会话变化
// 登录后重新加载，登出后清空状态并取消订阅
func (s *Store) onSessionChange(sess *domainSession.Session) {
	if sess == nil {
		s.mu.Lock()
		if s.cancelPush != nil {
			s.cancelPush()
			s.cancelPush = nil
		}
		s.todos = nil
		s.status = StatusUninitialized
		s.mu.Unlock()
		s.notify()
		return
	}

	if err := s.Load(); err != nil {
		s.logger.Warn("Failed to load after sign in",
			"error", err,
		)
	}
}

// removeLocked 移除指定 ID 的行，调用方必须持有锁
func (s *Store) removeLocked(id string) bool {
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return true
		}
	}
	return false
}

// setStatus 更新状态并通知
func (s *Store) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	s.notify()
}

// notify 在锁外向所有通知器推送当前快照
func (s *Store) notify() {
	s.mu.Lock()
	status := s.status
	items := make([]todo.Todo, len(s.todos))
	copy(items, s.todos)
	ns := make([]Notifier, len(s.notifiers))
	copy(ns, s.notifiers)
	s.mu.Unlock()

	for _, n := range ns {
		n.Notify(Notification{Status: status, Todos: items})
	}
}
