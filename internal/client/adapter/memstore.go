package adapter

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/todonext/backend/internal/domain/todo"
)

// MemStore 内存适配器
// 用于测试和演示：可注入失败错误，可手动触发变更推送来模拟远程模式
type MemStore struct {
	mu       sync.Mutex
	rows     []todo.Todo
	handlers *ChangeHandlers

	// 注入的失败错误，非 nil 时对应操作直接返回该错误
	FailFetch  error
	FailInsert error
	FailUpdate error
	FailRemove error
}

var _ Adapter = (*MemStore)(nil)

// NewMemStore 创建内存适配器
func NewMemStore() *MemStore {
	return &MemStore{}
}

// FetchAll 返回全部待办，按创建时间倒序
func (s *MemStore) FetchAll(ownerID string) ([]todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailFetch != nil {
		return nil, s.FailFetch
	}

	items := make([]todo.Todo, len(s.rows))
	copy(items, s.rows)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Insert 新增待办
func (s *MemStore) Insert(text, ownerID string) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInsert != nil {
		return nil, s.FailInsert
	}

	item := todo.Todo{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: time.Now(),
		UserID:    ownerID,
	}
	s.rows = append(s.rows, item)
	return &item, nil
}

// Update 更新指定待办的标记位，不存在则什么都不做
func (s *MemStore) Update(id string, patch todo.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpdate != nil {
		return s.FailUpdate
	}

	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Apply(patch)
			break
		}
	}
	return nil
}

// Remove 删除指定待办
func (s *MemStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailRemove != nil {
		return s.FailRemove
	}

	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Subscribe 记录回调，供 Emit* 方法手动触发
func (s *MemStore) Subscribe(h ChangeHandlers) (func(), error) {
	s.mu.Lock()
	s.handlers = &h
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.handlers = nil
		s.mu.Unlock()
	}, nil
}

// Subscribed 是否有活动订阅
func (s *MemStore) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handlers != nil
}

// EmitInsert 模拟服务端的 insert 推送
func (s *MemStore) EmitInsert(item todo.Todo) {
	if h := s.snapshot(); h != nil && h.OnInsert != nil {
		h.OnInsert(item)
	}
}

// EmitUpdate 模拟服务端的 update 推送
func (s *MemStore) EmitUpdate(item todo.Todo) {
	if h := s.snapshot(); h != nil && h.OnUpdate != nil {
		h.OnUpdate(item)
	}
}

// EmitDelete 模拟服务端的 delete 推送
func (s *MemStore) EmitDelete(item todo.Todo) {
	if h := s.snapshot(); h != nil && h.OnDelete != nil {
		h.OnDelete(item)
	}
}

// Rows 返回当前存储的行（测试断言用）
func (s *MemStore) Rows() []todo.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]todo.Todo, len(s.rows))
	copy(items, s.rows)
	return items
}

func (s *MemStore) snapshot() *ChangeHandlers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handlers
}
