package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/todonext/backend/internal/infrastructure/config"
	applog "github.com/todonext/backend/internal/infrastructure/log"
	"github.com/todonext/backend/internal/infrastructure/websocket"
	"github.com/todonext/backend/internal/interfaces/http/middleware"
)

// FeedHandler 变更订阅处理器
// 把认证用户的 WebSocket 连接注册到 Hub，Hub 只向行所有者投递事件
type FeedHandler struct {
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
	logger   *slog.Logger
}

// NewFeedHandler 创建变更订阅处理器
func NewFeedHandler(hub *websocket.Hub, cfg *config.Config) *FeedHandler {
	return &FeedHandler{
		hub: hub,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: applog.NewModuleLogger("http", "feed_handler"),
	}
}

// Subscribe 订阅变更事件
// @Summary 订阅当前用户待办的变更推送（WebSocket）
// @Tags 待办
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols"
// @Router /todos/feed [get]
func (h *FeedHandler) Subscribe(c *gin.Context) {
	userID := middleware.UserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection",
			"error", err,
		)
		return
	}

	wsConn := &websocket.Connection{
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
	h.hub.Register(wsConn)

	h.logger.Info("feed subscriber connected",
		"user_id", userID,
	)

	// 写循环：Hub 投递的事件写入连接
	go h.writePump(conn, wsConn)
	// 读循环：只用于感知连接关闭
	go h.readPump(conn, wsConn)
}

// writePump 把 Hub 投递的消息写入 WebSocket 连接
func (h *FeedHandler) writePump(conn *gorilla.Conn, wsConn *websocket.Connection) {
	defer conn.Close()

	for data := range wsConn.Send {
		if err := conn.WriteMessage(gorilla.TextMessage, data); err != nil {
			return
		}
	}

	// Send 通道关闭说明 Hub 已注销该连接
	_ = conn.WriteMessage(gorilla.CloseMessage, gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""))
}

// readPump 丢弃入站消息，连接断开时从 Hub 注销
func (h *FeedHandler) readPump(conn *gorilla.Conn, wsConn *websocket.Connection) {
	defer func() {
		h.hub.Unregister(wsConn)
		conn.Close()
		h.logger.Info("feed subscriber disconnected",
			"user_id", wsConn.UserID,
		)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
