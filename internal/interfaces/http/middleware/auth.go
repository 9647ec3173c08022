// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/todonext/backend/internal/infrastructure/auth"
	"github.com/todonext/backend/internal/interfaces/http/response"
)

// UserIDKey gin 上下文中用户 ID 的键
const UserIDKey = "userID"

// Auth 认证中间件
// 解析 Authorization: Bearer <token>，校验通过后把用户 ID 写入上下文
// 未认证的请求在到达存储层之前被拒绝
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, 200001, "缺少访问令牌")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, 200002, "令牌无效或已过期")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID 从上下文获取已认证的用户 ID
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// bearerToken 提取令牌
// 优先 Authorization 头；WebSocket 场景浏览器无法设置请求头，回退到 token 查询参数
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}
