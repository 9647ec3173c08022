package todo

import (
	domainTodo "github.com/todonext/backend/internal/domain/todo"
)

// TodoDTO 待办事项 DTO（HTTP 响应和推送事件共用的线上格式）
type TodoDTO struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Important bool   `json:"important"`
	CreatedAt int64  `json:"createdAt"` // Unix 毫秒时间戳
	UserID    string `json:"userId"`
}

// ChangeEventDTO 变更推送事件
// 通过用户的变更订阅通道投递，kind 取值 insert/update/delete
type ChangeEventDTO struct {
	Kind domainTodo.ChangeKind `json:"kind"`
	Row  *TodoDTO              `json:"row"`
}

// ToDTO 将领域模型转换为 DTO
func ToDTO(item *domainTodo.Todo) *TodoDTO {
	return &TodoDTO{
		ID:        item.ID,
		Text:      item.Text,
		Completed: item.Completed,
		Important: item.Important,
		CreatedAt: item.CreatedAt.UnixMilli(),
		UserID:    item.UserID,
	}
}
