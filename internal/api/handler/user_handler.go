package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/LeeHanYeong/StudyWatson/internal/dto"
	"github.com/LeeHanYeong/StudyWatson/internal/service"
	"github.com/LeeHanYeong/StudyWatson/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetCurrentUser 获取当前用户信息
// GET /api/v1/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, user)
}

// UpdateCurrentUser 更新当前用户资料
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, user)
}

// RetireCurrentUser 注销当前账号（身份字段匿名化，行保留为墓碑）
// DELETE /api/v1/users/me
func (h *UserHandler) RetireCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Retire(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil)
}

// GetUser 按 ID 查询用户
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, user)
}

// SendEmailValidation 签发邮箱验证码
// POST /api/v1/users/email-validation
func (h *UserHandler) SendEmailValidation(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	if _, err := h.userSvc.IssueEmailValidation(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}

	response.Created(c, nil)
}
