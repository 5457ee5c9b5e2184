package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/LeeHanYeong/StudyWatson/internal/dto"
	"github.com/LeeHanYeong/StudyWatson/internal/service"
	"github.com/LeeHanYeong/StudyWatson/pkg/response"
)

// AttendanceHandler 出勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// CreateAttendance 手工创建出勤记录（回填遗漏补录）
// POST /api/v1/attendances
func (h *AttendanceHandler) CreateAttendance(c *gin.Context) {
	var req dto.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	attendance, err := h.attendanceSvc.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, attendance)
}

// GetAttendance 出勤记录详情
// GET /api/v1/attendances/:id
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	attendance, err := h.attendanceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, attendance)
}

// ListAttendances 出勤记录列表（支持 user / schedule / vote / att 过滤）
// GET /api/v1/attendances
func (h *AttendanceHandler) ListAttendances(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	attendances, err := h.attendanceSvc.List(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, attendances)
}

// UpdateAttendance 更新会前投票或实际出勤结果
// PATCH /api/v1/attendances/:id
func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	var req dto.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	attendance, err := h.attendanceSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, attendance)
}

// DeleteAttendance 删除出勤记录
// DELETE /api/v1/attendances/:id
func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	if err := h.attendanceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil)
}
