package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appTodo "github.com/todonext/backend/internal/application/todo"
	"github.com/todonext/backend/internal/infrastructure/auth"
	"github.com/todonext/backend/internal/infrastructure/config"
	"github.com/todonext/backend/internal/infrastructure/feed"
	"github.com/todonext/backend/internal/infrastructure/storage"
	"github.com/todonext/backend/internal/infrastructure/websocket"
	"github.com/todonext/backend/internal/interfaces/http/handler"
)

// setupTestServer 组装完整服务栈并返回测试服务器
func setupTestServer(t *testing.T) (*httptest.Server, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.DBPath = filepath.Join(t.TempDir(), "test.db")
	cfg.Server.Secret = "test-secret"
	cfg.Server.TokenTTL = time.Hour
	cfg.WebSocket.ReadBufferSize = 1024
	cfg.WebSocket.WriteBufferSize = 1024

	db, err := storage.OpenDB(cfg.Server.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := websocket.NewHub()
	hub.Start()

	svc := appTodo.NewService(storage.NewTodoRepository(db), feed.NewWebSocketPusher(hub))
	tokens := auth.NewTokenManager(cfg)

	server := NewServer(cfg, tokens,
		handler.NewTodoHandler(svc),
		handler.NewFeedHandler(hub, cfg),
		handler.NewAuthHandler(tokens),
	)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts, tokens
}

// doRequest 发送请求并解包统一响应结构
func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, body interface{}) (int, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &env), "响应应为统一结构")
	return resp.StatusCode, env
}

// issueToken 为测试用户签发令牌
func issueToken(t *testing.T, tokens *auth.TokenManager, userID string) string {
	t.Helper()
	token, _, err := tokens.Issue(userID)
	require.NoError(t, err)
	return token
}

func TestServerRequiresAuth(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, _ := doRequest(t, ts, http.MethodGet, "/api/v1/todos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status, "无令牌的请求应被拒绝")

	status, _ = doRequest(t, ts, http.MethodPost, "/api/v1/todos", "bad-token", map[string]string{"text": "买牛奶"})
	assert.Equal(t, http.StatusUnauthorized, status, "无效令牌的请求应被拒绝")
}

func TestServerTokenExchange(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, env := doRequest(t, ts, http.MethodPost, "/api/v1/auth/token", "", map[string]string{"userId": "alice"})
	require.Equal(t, http.StatusOK, status)

	var data struct {
		UserID string `json:"userId"`
		Token  string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env["data"], &data))
	assert.Equal(t, "alice", data.UserID)
	require.NotEmpty(t, data.Token, "应签发令牌")

	// 换发的令牌应可用于访问
	status, _ = doRequest(t, ts, http.MethodGet, "/api/v1/todos", data.Token, nil)
	assert.Equal(t, http.StatusOK, status, "换发的令牌应可访问待办接口")
}

func TestServerTodoCRUD(t *testing.T) {
	ts, tokens := setupTestServer(t)
	token := issueToken(t, tokens, "alice")

	// 创建
	status, env := doRequest(t, ts, http.MethodPost, "/api/v1/todos", token, map[string]string{"text": "买牛奶"})
	require.Equal(t, http.StatusOK, status)

	var created appTodo.TodoDTO
	require.NoError(t, json.Unmarshal(env["data"], &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "买牛奶", created.Text)
	assert.Equal(t, "alice", created.UserID)

	// 列表
	status, env = doRequest(t, ts, http.MethodGet, "/api/v1/todos", token, nil)
	require.Equal(t, http.StatusOK, status)

	var items []appTodo.TodoDTO
	require.NoError(t, json.Unmarshal(env["data"], &items))
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)

	// 更新完成标记
	status, env = doRequest(t, ts, http.MethodPatch, "/api/v1/todos/"+created.ID, token, map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, status)

	var updated appTodo.TodoDTO
	require.NoError(t, json.Unmarshal(env["data"], &updated))
	assert.True(t, updated.Completed, "完成标记应已更新")
	assert.False(t, updated.Important, "重要标记不应受影响")

	// 删除
	status, _ = doRequest(t, ts, http.MethodDelete, "/api/v1/todos/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = doRequest(t, ts, http.MethodGet, "/api/v1/todos", token, nil)
	require.Equal(t, http.StatusOK, status)
	items = nil
	require.NoError(t, json.Unmarshal(env["data"], &items))
	assert.Empty(t, items, "删除后列表应为空")
}

func TestServerRejectsEmptyText(t *testing.T) {
	ts, tokens := setupTestServer(t)
	token := issueToken(t, tokens, "alice")

	status, _ := doRequest(t, ts, http.MethodPost, "/api/v1/todos", token, map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, status, "纯空白内容应被拒绝")
}

func TestServerUserIsolation(t *testing.T) {
	ts, tokens := setupTestServer(t)
	aliceToken := issueToken(t, tokens, "alice")
	bobToken := issueToken(t, tokens, "bob")

	status, env := doRequest(t, ts, http.MethodPost, "/api/v1/todos", aliceToken, map[string]string{"text": "alice的待办"})
	require.Equal(t, http.StatusOK, status)

	var created appTodo.TodoDTO
	require.NoError(t, json.Unmarshal(env["data"], &created))

	// bob 看不到 alice 的待办
	status, env = doRequest(t, ts, http.MethodGet, "/api/v1/todos", bobToken, nil)
	require.Equal(t, http.StatusOK, status)
	var items []appTodo.TodoDTO
	require.NoError(t, json.Unmarshal(env["data"], &items))
	assert.Empty(t, items, "其他用户不应看到别人的待办")

	// bob 改不了 alice 的待办
	status, _ = doRequest(t, ts, http.MethodPatch, "/api/v1/todos/"+created.ID, bobToken, map[string]bool{"completed": true})
	assert.Equal(t, http.StatusNotFound, status, "其他用户的更新应返回未找到")
}

func TestServerFeedPush(t *testing.T) {
	ts, tokens := setupTestServer(t)
	token := issueToken(t, tokens, "alice")

	// 建立 WebSocket 订阅（浏览器无法设置请求头，走 token 查询参数）
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/todos/feed?token=" + token
	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "订阅变更推送失败")
	defer conn.Close()

	// 等待连接完成注册
	time.Sleep(50 * time.Millisecond)

	status, _ := doRequest(t, ts, http.MethodPost, "/api/v1/todos", token, map[string]string{"text": "买牛奶"})
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err, "应收到 insert 推送")

	var event appTodo.ChangeEventDTO
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "insert", string(event.Kind))
	require.NotNil(t, event.Row)
	assert.Equal(t, "买牛奶", event.Row.Text)
	assert.Equal(t, "alice", event.Row.UserID)
}
