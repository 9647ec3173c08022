package todo

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	domainTodo "github.com/todonext/backend/internal/domain/todo"
	applog "github.com/todonext/backend/internal/infrastructure/log"
)

// Service 待办应用服务（用例编排）
// 每次写操作成功后向行所有者推送对应的变更事件
type Service struct {
	repo   domainTodo.Repository
	pusher Pusher
	logger *slog.Logger
}

// NewService 创建应用服务
func NewService(repo domainTodo.Repository, pusher Pusher) *Service {
	return &Service{
		repo:   repo,
		pusher: pusher,
		logger: applog.NewModuleLogger("application", "todo_service"),
	}
}

// List 获取用户的全部待办，按创建时间倒序
func (s *Service) List(userID string) ([]*TodoDTO, error) {
	items, err := s.repo.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]*TodoDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ToDTO(item))
	}
	return dtos, nil
}

// Create 创建待办并推送 insert 事件
func (s *Service) Create(userID, text string) (*TodoDTO, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domainTodo.ErrEmptyText
	}

	item := &domainTodo.Todo{
		ID:        uuid.New().String(),
		Text:      text,
		Completed: false,
		Important: false,
		CreatedAt: time.Now(),
		UserID:    userID,
	}

	if err := s.repo.Save(item); err != nil {
		return nil, err
	}

	s.push(userID, &ChangeEventDTO{Kind: domainTodo.ChangeInsert, Row: ToDTO(item)})

	return ToDTO(item), nil
}

// Update 按补丁更新待办并推送 update 事件
// 目标不存在时返回 ErrNotFound
func (s *Service) Update(userID, id string, patch domainTodo.Patch) (*TodoDTO, error) {
	item, err := s.repo.FindByID(id, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domainTodo.ErrNotFound
	}

	item.Apply(patch)

	if err := s.repo.Save(item); err != nil {
		return nil, err
	}

	s.push(userID, &ChangeEventDTO{Kind: domainTodo.ChangeUpdate, Row: ToDTO(item)})

	return ToDTO(item), nil
}

// Delete 删除待办并推送 delete 事件
// 目标不存在时静默成功，不推送事件
func (s *Service) Delete(userID, id string) error {
	affected, err := s.repo.Delete(id, userID)
	if err != nil {
		return err
	}

	if affected > 0 {
		s.push(userID, &ChangeEventDTO{
			Kind: domainTodo.ChangeDelete,
			Row:  &TodoDTO{ID: id, UserID: userID},
		})
	}

	return nil
}

// push 推送变更事件，失败只记录日志（不重试，不影响请求结果）
func (s *Service) push(userID string, event *ChangeEventDTO) {
	if s.pusher == nil {
		return
	}
	if err := s.pusher.PushToUser(userID, event); err != nil {
		s.logger.Error("failed to push change event",
			"kind", event.Kind,
			"error", err,
		)
	}
}
