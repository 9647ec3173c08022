package adapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/todonext/backend/internal/domain/todo"
	"github.com/todonext/backend/internal/infrastructure/config"
	applog "github.com/todonext/backend/internal/infrastructure/log"
)

// DefaultStoreFileName 本地待办文件名
const DefaultStoreFileName = "todos.json"

// localRecord 本地文件中的待办记录
type localRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Important bool   `json:"important"`
	CreatedAt string `json:"createdAt"` // RFC3339Nano
}

// LocalStore 本地 JSON 文件适配器
// 整个列表作为一个 JSON 数组持久化，每次变更全量重写
type LocalStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

var _ Adapter = (*LocalStore)(nil)

// NewLocalStore 创建本地文件适配器
// 路径优先取配置中的 store_path，默认 <数据目录>/todos.json
func NewLocalStore(cfg *config.Config) *LocalStore {
	path := cfg.Client.StorePath
	if path == "" {
		path = filepath.Join(config.GetDataDir(), DefaultStoreFileName)
	}
	return &LocalStore{
		path:   path,
		logger: applog.NewModuleLogger("client", "localstore"),
	}
}

// FetchAll 读取全部待办，文件不存在视为空列表
func (s *LocalStore) FetchAll(ownerID string) ([]todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Insert 新增待办并全量保存
func (s *LocalStore) Insert(text, ownerID string) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return nil, err
	}

	item := todo.Todo{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: time.Now(),
		UserID:    ownerID,
	}
	items = append([]todo.Todo{item}, items...)

	if err := s.save(items); err != nil {
		return nil, err
	}

	s.logger.Debug("Todo inserted",
		"id", item.ID,
		"path", s.path,
	)

	return &item, nil
}

// Update 更新指定待办的标记位，不存在则什么都不做
func (s *LocalStore) Update(id string, patch todo.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == id {
			items[i].Apply(patch)
			return s.save(items)
		}
	}
	return nil
}

// Remove 删除指定待办，不存在则什么都不做
func (s *LocalStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}

	return s.save(kept)
}

// Subscribe 本地模式没有变更推送，返回空操作的取消函数
func (s *LocalStore) Subscribe(h ChangeHandlers) (func(), error) {
	return func() {}, nil
}

// load 从文件读取并按创建时间倒序排序
func (s *LocalStore) load() ([]todo.Todo, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var records []localRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}

	items := make([]todo.Todo, 0, len(records))
	for _, r := range records {
		createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse createdAt of %s: %w", r.ID, err)
		}
		items = append(items, todo.Todo{
			ID:        r.ID,
			Text:      r.Text,
			Completed: r.Completed,
			Important: r.Important,
			CreatedAt: createdAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return items, nil
}

// save 全量写回文件
func (s *LocalStore) save(items []todo.Todo) error {
	records := make([]localRecord, 0, len(items))
	for _, item := range items {
		records = append(records, localRecord{
			ID:        item.ID,
			Text:      item.Text,
			Completed: item.Completed,
			Important: item.Important,
			CreatedAt: item.CreatedAt.Format(time.RFC3339Nano),
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	return nil
}
