package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/LeeHanYeong/StudyWatson/internal/dto"
	"github.com/LeeHanYeong/StudyWatson/internal/service"
	"github.com/LeeHanYeong/StudyWatson/pkg/response"
)

// ScheduleHandler 日程模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// CreateSchedule 创建日程（同一事务内为既有成员回填出勤行）
// POST /api/v1/schedules
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	schedule, err := h.scheduleSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, schedule)
}

// GetSchedule 日程详情（携带观察者自己的出勤投影）
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.scheduleSvc.GetByID(c.Request.Context(), c.Param("id"), GetViewerID(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, schedule)
}

// ListSchedules 日程列表
// GET /api/v1/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	schedules, total, err := h.scheduleSvc.List(c.Request.Context(), &req, GetViewerID(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.OKPage(c, schedules, total, req.GetPage(), req.GetPageSize())
}

// UpdateSchedule 更新日程
// PATCH /api/v1/schedules/:id
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalidRequest", "参数校验失败")
		return
	}

	schedule, err := h.scheduleSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.OK(c, schedule)
}

// DeleteSchedule 删除日程（出勤行级联删除）
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	if err := h.scheduleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil)
}

// SyncAttendances 对既有日程重试出勤回填（幂等）
// POST /api/v1/schedules/:id/sync-attendances
func (h *ScheduleHandler) SyncAttendances(c *gin.Context) {
	if err := h.scheduleSvc.SyncAttendances(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	response.OK(c, nil)
}
