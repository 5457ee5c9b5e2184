package dto

import "time"

// ── 学习日程模块 DTO ──

// CreateScheduleRequest 创建日程请求
type CreateScheduleRequest struct {
	StudyID     string     `json:"study_id"    binding:"required,uuid"`
	Location    string     `json:"location"    binding:"omitempty,max=50"`
	Subject     string     `json:"subject"     binding:"omitempty,max=50"`
	Description string     `json:"description" binding:"omitempty,max=300"`
	VoteEndAt   *time.Time `json:"vote_end_at"`
	StartAt     *time.Time `json:"start_at"`
	// 学习时长（分钟）
	StudyingTime *int64 `json:"studying_time" binding:"omitempty,min=1"`
}

// UpdateScheduleRequest 更新日程请求
type UpdateScheduleRequest struct {
	Location     *string    `json:"location"    binding:"omitempty,max=50"`
	Subject      *string    `json:"subject"     binding:"omitempty,max=50"`
	Description  *string    `json:"description" binding:"omitempty,max=300"`
	VoteEndAt    *time.Time `json:"vote_end_at"`
	StartAt      *time.Time `json:"start_at"`
	StudyingTime *int64     `json:"studying_time" binding:"omitempty,min=1"`
}

// ScheduleListRequest 日程列表查询参数
type ScheduleListRequest struct {
	PaginationRequest
	StudyID string `form:"study" binding:"omitempty,uuid"`
}

// ScheduleResponse 日程响应
type ScheduleResponse struct {
	ScheduleID   string     `json:"schedule_id"`
	StudyID      string     `json:"study_id"`
	Location     string     `json:"location,omitempty"`
	Subject      string     `json:"subject,omitempty"`
	Description  string     `json:"description,omitempty"`
	VoteEndAt    *time.Time `json:"vote_end_at,omitempty"`
	StartAt      *time.Time `json:"start_at,omitempty"`
	StudyingTime *int64     `json:"studying_time,omitempty"`
	CreatedAt    string     `json:"created_at"`

	// SelfAttendance 观察者自己的出勤行（无则为 null）
	SelfAttendance *AttendanceResponse `json:"self_attendance"`
}
