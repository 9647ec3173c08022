package session

import (
	"context"
	"fmt"

	domainSession "github.com/todonext/backend/internal/domain/session"
	"github.com/todonext/backend/internal/infrastructure/auth"
	"github.com/todonext/backend/internal/infrastructure/config"
)

// DevProvider 开发环境身份提供方
// 用本地密钥直接签发令牌，跳过外部 OAuth 流程；
// 与服务端使用同一密钥时，签发的令牌可直接访问远程接口
type DevProvider struct {
	tokens *auth.TokenManager
}

var _ Provider = (*DevProvider)(nil)

// NewDevProvider 创建开发环境身份提供方
func NewDevProvider(cfg *config.Config) *DevProvider {
	return &DevProvider{tokens: auth.NewTokenManager(cfg)}
}

// SignIn 为指定用户签发本地令牌
func (p *DevProvider) SignIn(ctx context.Context, userID string) (*domainSession.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is required")
	}

	token, expiresAt, err := p.tokens.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domainSession.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
