package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainSession "github.com/todonext/backend/internal/domain/session"
)

// fakeProvider 测试用身份提供方
type fakeProvider struct {
	err error
}

func (p *fakeProvider) SignIn(ctx context.Context, userID string) (*domainSession.Session, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &domainSession.Session{
		UserID:    userID,
		Token:     "token-" + userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func TestGateSignInAndOut(t *testing.T) {
	gate := NewGate(&fakeProvider{})

	assert.Nil(t, gate.Current(), "初始状态应未登录")
	assert.Empty(t, gate.Token())

	s, err := gate.SignIn(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.UserID)

	current := gate.Current()
	require.NotNil(t, current, "登录后应有活动会话")
	assert.Equal(t, "token-alice", gate.Token())

	gate.SignOut()
	assert.Nil(t, gate.Current(), "登出后应无活动会话")
	assert.Empty(t, gate.Token())
}

func TestGateSignInFailed(t *testing.T) {
	gate := NewGate(&fakeProvider{err: errors.New("provider down")})

	_, err := gate.SignIn(context.Background(), "alice")
	assert.ErrorIs(t, err, domainSession.ErrSignInFailed, "提供方失败应映射为登录失败错误")
	assert.Nil(t, gate.Current(), "登录失败不应产生会话")
}

func TestGateOnChange(t *testing.T) {
	gate := NewGate(&fakeProvider{})

	var events []*domainSession.Session
	cancel := gate.OnChange(func(s *domainSession.Session) {
		events = append(events, s)
	})

	_, err := gate.SignIn(context.Background(), "alice")
	require.NoError(t, err)
	gate.SignOut()

	require.Len(t, events, 2, "登录和登出各应通知一次")
	assert.Equal(t, "alice", events[0].UserID)
	assert.Nil(t, events[1], "登出通知应携带 nil 会话")

	// 取消订阅后不再通知
	cancel()
	_, err = gate.SignIn(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, events, 2, "取消订阅后不应再收到通知")
}

func TestGateExpiredSession(t *testing.T) {
	gate := NewGate(&fakeProvider{})
	gate.publish(&domainSession.Session{
		UserID:    "alice",
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	assert.Nil(t, gate.Current(), "过期会话应视为未登录")
	assert.Empty(t, gate.Token())
}
