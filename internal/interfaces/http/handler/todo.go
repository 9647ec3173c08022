package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appTodo "github.com/todonext/backend/internal/application/todo"
	domainTodo "github.com/todonext/backend/internal/domain/todo"
	"github.com/todonext/backend/internal/interfaces/http/middleware"
	"github.com/todonext/backend/internal/interfaces/http/response"
)

// TodoHandler 待办事项处理器
type TodoHandler struct {
	svc *appTodo.Service
}

// NewTodoHandler 创建待办事项处理器
func NewTodoHandler(svc *appTodo.Service) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// CreateTodoRequest 创建待办请求
type CreateTodoRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateTodoRequest 更新待办请求
// 只允许更新两个布尔标记，内容创建后不可变
type UpdateTodoRequest struct {
	Completed *bool `json:"completed"`
	Important *bool `json:"important"`
}

// List 获取待办列表
// @Summary 获取当前用户的待办列表
// @Tags 待办
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	items, err := h.svc.List(middleware.UserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 800001, "获取待办列表失败")
		return
	}

	response.Success(c, items)
}

// Create 创建待办
// @Summary 创建待办
// @Tags 待办
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTodoRequest true "待办内容"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "参数错误")
		return
	}

	dto, err := h.svc.Create(middleware.UserID(c), req.Text)
	if err != nil {
		if errors.Is(err, domainTodo.ErrEmptyText) {
			response.Error(c, http.StatusBadRequest, 800002, "待办内容不能为空")
			return
		}
		response.Error(c, http.StatusInternalServerError, 800003, "创建待办失败")
		return
	}

	response.Success(c, dto)
}

// Update 更新待办标记
// @Summary 更新待办的完成/重要标记
// @Tags 待办
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "待办ID"
// @Param body body UpdateTodoRequest true "更新内容"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [patch]
func (h *TodoHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, 100001, "缺少待办ID")
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "参数错误")
		return
	}

	dto, err := h.svc.Update(middleware.UserID(c), id, domainTodo.Patch{
		Completed: req.Completed,
		Important: req.Important,
	})
	if err != nil {
		if errors.Is(err, domainTodo.ErrNotFound) {
			response.Error(c, http.StatusNotFound, 800004, "待办不存在")
			return
		}
		response.Error(c, http.StatusInternalServerError, 800005, "更新待办失败")
		return
	}

	response.Success(c, dto)
}

// Delete 删除待办
// @Summary 删除待办
// @Tags 待办
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "待办ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, 100001, "缺少待办ID")
		return
	}

	if err := h.svc.Delete(middleware.UserID(c), id); err != nil {
		response.Error(c, http.StatusInternalServerError, 800006, "删除待办失败")
		return
	}

	response.Success(c, nil)
}
