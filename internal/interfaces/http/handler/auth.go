package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/todonext/backend/internal/infrastructure/auth"
	"github.com/todonext/backend/internal/interfaces/http/response"
)

// AuthHandler 令牌签发处理器
// 生产部署中登录由外部 OAuth 身份提供方完成，回调后换发本服务的访问令牌；
// 这里提供开发环境的直接换发入口
type AuthHandler struct {
	tokens *auth.TokenManager
}

// NewAuthHandler 创建令牌签发处理器
func NewAuthHandler(tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// TokenRequest 令牌换发请求
type TokenRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// TokenResponse 令牌换发响应
type TokenResponse struct {
	UserID    string `json:"userId"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // Unix 毫秒时间戳
}

// Token 换发访问令牌
// @Summary 换发访问令牌（开发环境）
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body TokenRequest true "用户标识"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "参数错误")
		return
	}

	token, expiresAt, err := h.tokens.Issue(req.UserID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 200003, "签发令牌失败")
		return
	}

	response.Success(c, TokenResponse{
		UserID:    req.UserID,
		Token:     token,
		ExpiresAt: expiresAt.UnixMilli(),
	})
}
