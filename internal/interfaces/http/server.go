package http

import (
	"context"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/todonext/backend/internal/infrastructure/auth"
	"github.com/todonext/backend/internal/infrastructure/config"
	"github.com/todonext/backend/internal/infrastructure/log"
	"github.com/todonext/backend/internal/interfaces/http/handler"
	"github.com/todonext/backend/internal/interfaces/http/middleware"

	_ "github.com/todonext/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.Config,
	tokens *auth.TokenManager,
	todoHandler *handler.TodoHandler,
	feedHandler *handler.FeedHandler,
	authHandler *handler.AuthHandler,
) *HTTPServer {
	router := gin.Default()

	logger := log.NewModuleLogger("http", "server")

	// 注册路由
	api := router.Group("/api/v1")
	{
		// 认证相关路由
		api.POST("/auth/token", authHandler.Token)

		// 待办相关路由（全部要求认证，未认证写操作在这里被拒绝）
		todos := api.Group("/todos", middleware.Auth(tokens))
		{
			todos.GET("", todoHandler.List)
			todos.POST("", todoHandler.Create)
			todos.PATCH("/:id", todoHandler.Update)
			todos.DELETE("/:id", todoHandler.Delete)

			// 变更订阅（WebSocket）
			todos.GET("/feed", feedHandler.Subscribe)
		}
	}

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &HTTPServer{
		router:   router,
		httpPort: cfg.Server.HTTPPort,
		logger:   logger,
	}
}

// Router 获取路由（测试用）
func (s *HTTPServer) Router() *gin.Engine {
	return s.router
}

// Start 启动服务器
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:    s.httpPort,
		Handler: s.router,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	return s.server.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
