package todo

import "time"

// Todo 待办事项实体
type Todo struct {
	ID        string    // 唯一标识，创建后不可变
	Text      string    // 待办内容，创建后不可变
	Completed bool      // 是否完成
	Important bool      // 是否重要
	CreatedAt time.Time // 创建时间，用于默认排序（新的在前）
	UserID    string    // 所属用户（远程模式），由服务端强制校验
}

// Patch 单次更新的字段集合
// 为 nil 的字段表示不修改
type Patch struct {
	Completed *bool
	Important *bool
}

// Apply 将补丁应用到实体
func (t *Todo) Apply(p Patch) {
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Important != nil {
		t.Important = *p.Important
	}
}

// ToggledCompleted 返回翻转完成状态的补丁
func (t *Todo) ToggledCompleted() Patch {
	v := !t.Completed
	return Patch{Completed: &v}
}

// ToggledImportant 返回翻转重要状态的补丁
func (t *Todo) ToggledImportant() Patch {
	v := !t.Important
	return Patch{Important: &v}
}
