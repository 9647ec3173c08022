// Package session 维护客户端的认证会话
// 登录状态只在这里变更，所有订阅方通过同一个发布点收到通知
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	domainSession "github.com/todonext/backend/internal/domain/session"
	applog "github.com/todonext/backend/internal/infrastructure/log"
)

// Provider 身份提供方
// 生产部署中对应 OAuth 登录流程，开发环境可用本地签发实现
type Provider interface {
	SignIn(ctx context.Context, userID string) (*domainSession.Session, error)
}

// Gate 会话门面
// 持有当前会话并向订阅方广播变化，登出时广播 nil
type Gate struct {
	mu       sync.Mutex
	provider Provider
	current  *domainSession.Session
	subs     map[int]func(*domainSession.Session)
	nextID   int
	logger   *slog.Logger
}

// NewGate 创建会话门面
func NewGate(provider Provider) *Gate {
	return &Gate{
		provider: provider,
		subs:     make(map[int]func(*domainSession.Session)),
		logger:   applog.NewModuleLogger("client", "session"),
	}
}

// Current 返回当前会话，未登录或会话已过期时返回 nil
func (g *Gate) Current() *domainSession.Session {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil || g.current.Expired() {
		return nil
	}
	s := *g.current
	return &s
}

// Token 返回当前会话的访问令牌，未登录时返回空串
func (g *Gate) Token() string {
	if s := g.Current(); s != nil {
		return s.Token
	}
	return ""
}

// SignIn 通过身份提供方登录并发布新会话
func (g *Gate) SignIn(ctx context.Context, userID string) (*domainSession.Session, error) {
	s, err := g.provider.SignIn(ctx, userID)
	if err != nil {
		g.logger.Warn("Sign in failed",
			"userID", userID,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", domainSession.ErrSignInFailed, err)
	}

	g.publish(s)

	g.logger.Info("Signed in",
		"userID", s.UserID,
	)

	return g.Current(), nil
}

// SignOut 清除当前会话并通知订阅方
func (g *Gate) SignOut() {
	g.publish(nil)
	g.logger.Info("Signed out")
}

// OnChange 订阅会话变化，返回取消订阅的函数
// 回调在发布方的 goroutine 中同步执行
func (g *Gate) OnChange(cb func(*domainSession.Session)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subs[id] = cb
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

// publish 是会话状态的唯一变更点
func (g *Gate) publish(s *domainSession.Session) {
	g.mu.Lock()
	g.current = s
	cbs := make([]func(*domainSession.Session), 0, len(g.subs))
	for _, cb := range g.subs {
		cbs = append(cbs, cb)
	}
	g.mu.Unlock()

	// 回调在锁外执行，允许订阅方回查 Gate
	for _, cb := range cbs {
		cb(s)
	}
}
