package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/LeeHanYeong/StudyWatson/internal/dto"
	"github.com/LeeHanYeong/StudyWatson/internal/model"
	"github.com/LeeHanYeong/StudyWatson/internal/service"
	"github.com/LeeHanYeong/StudyWatson/pkg/response"
)

// MembershipHandler 成员模块 HTTP 处理器
type MembershipHandler struct {
	membershipSvc service.MembershipService
}

// NewMembershipHandler 创建 MembershipHandler
func NewMembershipHandler(membershipSvc service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipSvc: membershipSvc}
}

// CreateMembership 创建成员关系（已退出行会被复活，角色保持不变）
// POST /api/v1/memberships
func (h *MembershipHandler) CreateMembership(c *gin.Context) {
	var req dto.CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleNormal
	}

	membership, err := h.membershipSvc.CreateOrReactivate(c.Request.Context(), req.UserID, req.StudyID, role)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, membership)
}

// GetMembership 成员详情（含出勤历史）
// GET /api/v1/memberships/:id
func (h *MembershipHandler) GetMembership(c *gin.Context) {
	membership, err := h.membershipSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, membership)
}

// ListMemberships 成员列表（支持 user / study / is_withdraw 过滤）
// GET /api/v1/memberships
func (h *MembershipHandler) ListMemberships(c *gin.Context) {
	var req dto.MembershipListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	memberships, err := h.membershipSvc.List(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, memberships)
}

// UpdateMembership 更新成员角色
// PATCH /api/v1/memberships/:id
func (h *MembershipHandler) UpdateMembership(c *gin.Context) {
	var req dto.UpdateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	membership, err := h.membershipSvc.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, membership)
}

// WithdrawMembership 软退出（历史出勤记录保持归属）
// DELETE /api/v1/memberships/:id
func (h *MembershipHandler) WithdrawMembership(c *gin.Context) {
	if err := h.membershipSvc.Withdraw(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil)
}
