package todo

import "errors"

var (
	// ErrEmptyText 待办内容为空
	ErrEmptyText = errors.New("todo text is empty")

	// ErrNotFound 待办不存在
	ErrNotFound = errors.New("todo not found")
)
