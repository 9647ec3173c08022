// Package session 定义认证会话的领域模型
package session

import (
	"errors"
	"time"
)

// Session 认证会话
// 由外部身份提供方签发，包含用户标识和访问令牌
type Session struct {
	UserID    string    // 认证用户标识
	Token     string    // 访问令牌
	ExpiresAt time.Time // 令牌过期时间
}

// Expired 判断会话是否已过期
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

var (
	// ErrUnauthenticated 未认证（无活动会话时尝试写操作）
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSignInFailed 登录失败（身份提供方返回错误）
	ErrSignInFailed = errors.New("sign in failed")
)
