package feed

import (
	appTodo "github.com/todonext/backend/internal/application/todo"
	"github.com/todonext/backend/internal/infrastructure/websocket"
)

// WebSocketPusher 通过 WebSocket Hub 推送变更事件
type WebSocketPusher struct {
	hub *websocket.Hub
}

// NewWebSocketPusher 创建 WebSocket 推送器
func NewWebSocketPusher(hub *websocket.Hub) *WebSocketPusher {
	return &WebSocketPusher{hub: hub}
}

// PushToUser 推送变更事件给行所有者
func (p *WebSocketPusher) PushToUser(userID string, event *appTodo.ChangeEventDTO) error {
	return p.hub.BroadcastToUser(userID, event)
}

// 编译时检查接口实现
var _ appTodo.Pusher = (*WebSocketPusher)(nil)
