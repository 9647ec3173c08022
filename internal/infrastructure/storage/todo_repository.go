package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/todonext/backend/internal/domain/todo"
	"github.com/google/uuid"
)

// todoRepository 待办事项 SQLite 仓储实现
// 所有语句都带 user_id 条件，行级访问控制在这一层强制执行
type todoRepository struct {
	db *sql.DB
}

// NewTodoRepository 创建待办事项仓储实例
func NewTodoRepository(db *sql.DB) todo.Repository {
	// 确保表存在
	if err := initTodoTable(db); err != nil {
		fmt.Printf("failed to init todos table: %v\n", err)
	}
	return &todoRepository{db: db}
}

// initTodoTable 初始化待办事项表
func initTodoTable(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS todos (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		completed INTEGER DEFAULT 0,
		important INTEGER DEFAULT 0,
		created_at INTEGER NOT NULL,
		user_id TEXT NOT NULL
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create todos table: %w", err)
	}

	// 创建索引
	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_todos_user_created ON todos(user_id, created_at);
	`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create todos indexes: %w", err)
	}

	return nil
}

// Save 保存待办事项
func (r *todoRepository) Save(item *todo.Todo) error {
	// 如果 ID 为空，生成新的 UUID
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	// 使用 INSERT OR REPLACE 实现 upsert
	query := `
		INSERT OR REPLACE INTO todos
		(id, text, completed, important, created_at, user_id)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		item.ID,
		item.Text,
		boolToInt(item.Completed),
		boolToInt(item.Important),
		item.CreatedAt.UnixMilli(),
		item.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to save todo: %w", err)
	}

	return nil
}

// FindByID 根据 ID 查找指定用户的待办事项
func (r *todoRepository) FindByID(id, userID string) (*todo.Todo, error) {
	query := `
		SELECT id, text, completed, important, created_at, user_id
		FROM todos
		WHERE id = ? AND user_id = ?`

	item, err := scanTodo(r.db.QueryRow(query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}

	return item, nil
}

// FindAllByUser 获取指定用户的全部待办，按创建时间倒序
func (r *todoRepository) FindAllByUser(userID string) ([]*todo.Todo, error) {
	query := `
		SELECT id, text, completed, important, created_at, user_id
		FROM todos
		WHERE user_id = ?
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var items []*todo.Todo
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// Delete 删除指定用户的待办事项，返回删除的行数
func (r *todoRepository) Delete(id, userID string) (int64, error) {
	query := `DELETE FROM todos WHERE id = ? AND user_id = ?`
	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todo: %w", err)
	}
	return result.RowsAffected()
}

// rowScanner 兼容 *sql.Row 和 *sql.Rows 的扫描接口
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTodo 从查询结果扫描一条待办
func scanTodo(row rowScanner) (*todo.Todo, error) {
	var item todo.Todo
	var completed, important int
	var createdAt int64

	if err := row.Scan(
		&item.ID,
		&item.Text,
		&completed,
		&important,
		&createdAt,
		&item.UserID,
	); err != nil {
		return nil, err
	}

	item.Completed = completed == 1
	item.Important = important == 1
	item.CreatedAt = time.UnixMilli(createdAt)

	return &item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// 编译时检查接口实现
var _ todo.Repository = (*todoRepository)(nil)
