package wire

import (
	"context"
	"database/sql"
	"time"

	"log/slog"

	"github.com/todonext/backend/internal/infrastructure/log"
	"github.com/todonext/backend/internal/infrastructure/websocket"
	httpIface "github.com/todonext/backend/internal/interfaces/http"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *httpIface.HTTPServer
	wsHub      *websocket.Hub
	db         *sql.DB
	logger     *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	httpServer *httpIface.HTTPServer,
	wsHub *websocket.Hub,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer: httpServer,
		wsHub:      wsHub,
		db:         db,
		logger:     log.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting TodoNext backend application")

	// 启动 WebSocket Hub
	a.wsHub.Start()

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(); err != nil {
			a.logger.Error("Failed to start HTTP server",
				"error", err,
			)
		}
	}()

	a.logger.Info("TodoNext backend application started successfully")

	return nil
}

// Stop 停止所有服务
func (a *App) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.logger.Error("Failed to shutdown HTTP server",
			"error", err,
		)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return err
		}
	}

	return nil
}
