package todo

// Repository 待办事项仓储接口
// 所有查询和变更都以 userID 为作用域，行级访问控制在仓储层强制执行
type Repository interface {
	// Save 保存待办事项（创建或更新）
	Save(item *Todo) error

	// FindByID 根据 ID 查找指定用户的待办事项
	// 不存在时返回 (nil, nil)
	FindByID(id, userID string) (*Todo, error)

	// FindAllByUser 获取指定用户的全部待办，按创建时间倒序
	FindAllByUser(userID string) ([]*Todo, error)

	// Delete 删除指定用户的待办事项，返回删除的行数
	Delete(id, userID string) (int64, error)
}
