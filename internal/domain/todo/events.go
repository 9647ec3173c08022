package todo

// ChangeKind 变更事件类型
type ChangeKind string

// 变更事件类型常量
// 事件按服务端决定的顺序投递，消费者对未知 ID 的 update/delete 必须静默忽略
const (
	// ChangeInsert 行插入事件
	ChangeInsert ChangeKind = "insert"
	// ChangeUpdate 行更新事件
	ChangeUpdate ChangeKind = "update"
	// ChangeDelete 行删除事件
	ChangeDelete ChangeKind = "delete"
)
