package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LeeHanYeong/StudyWatson/internal/dto"
	"github.com/LeeHanYeong/StudyWatson/internal/service"
	"github.com/LeeHanYeong/StudyWatson/pkg/response"
)

// InviteHandler 邀请令牌模块 HTTP 处理器
type InviteHandler struct {
	inviteSvc service.InviteService
	studySvc  service.StudyService
}

// NewInviteHandler 创建 InviteHandler
func NewInviteHandler(inviteSvc service.InviteService, studySvc service.StudyService) *InviteHandler {
	return &InviteHandler{inviteSvc: inviteSvc, studySvc: studySvc}
}

// CreateInviteToken 签发邀请令牌
// POST /api/v1/invite-tokens
func (h *InviteHandler) CreateInviteToken(c *gin.Context) {
	var req dto.CreateInviteTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	token, err := h.inviteSvc.Issue(c.Request.Context(), req.StudyID, req.DurationHours)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, token)
}

// GetStudyByToken 按邀请令牌预览小组（入组前公开访问）
// GET /api/v1/invite-tokens/:key/study
func (h *InviteHandler) GetStudyByToken(c *gin.Context) {
	study, err := h.studySvc.GetByInviteToken(c.Request.Context(), c.Param("key"), GetViewerID(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, study)
}

// ValidateInviteToken 校验令牌有效性
// GET /api/v1/invite-tokens/:key
func (h *InviteHandler) ValidateInviteToken(c *gin.Context) {
	valid, err := h.inviteSvc.Validate(c.Request.Context(), c.Param("key"), time.Now())
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, gin.H{"valid": valid})
}

// RedeemInviteToken 兑换令牌，以普通成员身份加入小组
// POST /api/v1/invite-tokens/redeem
func (h *InviteHandler) RedeemInviteToken(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RedeemInviteTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	membership, err := h.inviteSvc.Redeem(c.Request.Context(), req.Key, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, membership)
}
