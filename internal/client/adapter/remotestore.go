package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	appTodo "github.com/todonext/backend/internal/application/todo"
	"github.com/todonext/backend/internal/domain/session"
	"github.com/todonext/backend/internal/domain/todo"
	"github.com/todonext/backend/internal/infrastructure/config"
	applog "github.com/todonext/backend/internal/infrastructure/log"
)

// TokenFunc 返回当前会话的访问令牌，无活动会话时返回空串
type TokenFunc func() string

// RemoteStore 托管后端适配器
// 读写走 HTTP 接口，变更推送走 WebSocket 订阅；
// 所有请求快速失败，不做重试
type RemoteStore struct {
	baseURL string
	client  *http.Client
	dialer  *websocket.Dialer
	token   TokenFunc
	logger  *slog.Logger
}

var _ Adapter = (*RemoteStore)(nil)

// NewRemoteStore 创建托管后端适配器
func NewRemoteStore(cfg *config.Config, token TokenFunc) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(cfg.Client.ServerURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   cfg.WebSocket.ReadBufferSize,
			WriteBufferSize:  cfg.WebSocket.WriteBufferSize,
		},
		token:  token,
		logger: applog.NewModuleLogger("client", "remotestore"),
	}
}

// envelope 服务端统一响应结构
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// FetchAll 获取当前用户的全部待办
// ownerID 由服务端从令牌解析，这里忽略入参
func (s *RemoteStore) FetchAll(ownerID string) ([]todo.Todo, error) {
	var rows []appTodo.TodoDTO
	if err := s.do(http.MethodGet, "/api/v1/todos", nil, &rows); err != nil {
		return nil, err
	}

	items := make([]todo.Todo, 0, len(rows))
	for i := range rows {
		items = append(items, fromDTO(&rows[i]))
	}
	return items, nil
}

// Insert 新增待办
// 返回服务端持久化后的行；调用方应以随后的 insert 推送为准
func (s *RemoteStore) Insert(text, ownerID string) (*todo.Todo, error) {
	body := map[string]string{"text": text}

	var row appTodo.TodoDTO
	if err := s.do(http.MethodPost, "/api/v1/todos", body, &row); err != nil {
		return nil, err
	}

	item := fromDTO(&row)
	return &item, nil
}

// Update 更新指定待办的标记位
func (s *RemoteStore) Update(id string, patch todo.Patch) error {
	body := map[string]*bool{
		"completed": patch.Completed,
		"important": patch.Important,
	}
	return s.do(http.MethodPatch, "/api/v1/todos/"+url.PathEscape(id), body, nil)
}

// Remove 删除指定待办
func (s *RemoteStore) Remove(id string) error {
	return s.do(http.MethodDelete, "/api/v1/todos/"+url.PathEscape(id), nil, nil)
}

// Subscribe 建立 WebSocket 订阅并在后台循环读取推送事件
// 连接断开后不自动重连，由调用方决定是否重新订阅
func (s *RemoteStore) Subscribe(h ChangeHandlers) (func(), error) {
	token := s.token()
	if token == "" {
		return nil, session.ErrUnauthenticated
	}

	wsURL := httpToWS(s.baseURL) + "/api/v1/todos/feed?token=" + url.QueryEscape(token)
	conn, _, err := s.dialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe change feed: %w", err)
	}

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				s.logger.Debug("Change feed closed",
					"error", err,
				)
				return
			}

			var event appTodo.ChangeEventDTO
			if err := json.Unmarshal(data, &event); err != nil {
				s.logger.Warn("Failed to parse change event",
					"error", err,
				)
				continue
			}
			if event.Row == nil {
				continue
			}

			item := fromDTO(event.Row)
			switch event.Kind {
			case todo.ChangeInsert:
				if h.OnInsert != nil {
					h.OnInsert(item)
				}
			case todo.ChangeUpdate:
				if h.OnUpdate != nil {
					h.OnUpdate(item)
				}
			case todo.ChangeDelete:
				if h.OnDelete != nil {
					h.OnDelete(item)
				}
			default:
				s.logger.Warn("Unknown change event kind",
					"kind", string(event.Kind),
				)
			}
		}
	}()

	return func() {
		_ = conn.Close()
	}, nil
}

// do 发送请求并解包统一响应结构
func (s *RemoteStore) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := s.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through
	case http.StatusUnauthorized:
		return session.ErrUnauthenticated
	case http.StatusNotFound:
		return todo.ErrNotFound
	default:
		return fmt.Errorf("server error (status %d, code %d): %s", resp.StatusCode, env.Code, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return nil
}

// fromDTO 将线上格式转换为领域模型
func fromDTO(row *appTodo.TodoDTO) todo.Todo {
	return todo.Todo{
		ID:        row.ID,
		Text:      row.Text,
		Completed: row.Completed,
		Important: row.Important,
		CreatedAt: time.UnixMilli(row.CreatedAt),
		UserID:    row.UserID,
	}
}

// httpToWS 将 http(s) 地址转换为 ws(s) 地址
func httpToWS(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
