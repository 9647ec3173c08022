package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainSession "github.com/todonext/backend/internal/domain/session"
	"github.com/todonext/backend/internal/infrastructure/config"
)

// HTTPProvider 通过服务端令牌接口换发会话
// 对应服务端的 POST /api/v1/auth/token
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider 创建基于服务端换发接口的身份提供方
func NewHTTPProvider(cfg *config.Config) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(cfg.Client.ServerURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SignIn 向服务端换发访问令牌
func (p *HTTPProvider) SignIn(ctx context.Context, userID string) (*domainSession.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is required")
	}

	body, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/v1/auth/token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call token endpoint: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	var env struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			UserID    string `json:"userId"`
			Token     string `json:"token"`
			ExpiresAt int64  `json:"expiresAt"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse token response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned status %d, code %d: %s", resp.StatusCode, env.Code, env.Message)
	}

	return &domainSession.Session{
		UserID:    env.Data.UserID,
		Token:     env.Data.Token,
		ExpiresAt: time.UnixMilli(env.Data.ExpiresAt),
	}, nil
}
