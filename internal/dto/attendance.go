package dto

// ── 出勤模块 DTO ──

// CreateAttendanceRequest 创建出勤记录请求
type CreateAttendanceRequest struct {
	UserID     string `json:"user_id"     binding:"required,uuid"`
	ScheduleID string `json:"schedule_id" binding:"required,uuid"`
	Vote       string `json:"vote"        binding:"omitempty,oneof=attend late absent"`
	Att        string `json:"att"         binding:"omitempty,oneof=attend late absent"`
}

// UpdateAttendanceRequest 更新出勤记录请求（vote 会前意向 / att 实际结果）
type UpdateAttendanceRequest struct {
	Vote *string `json:"vote" binding:"omitempty,oneof=attend late absent"`
	Att  *string `json:"att"  binding:"omitempty,oneof=attend late absent"`
}

// AttendanceListRequest 出勤列表查询参数
type AttendanceListRequest struct {
	UserID     string `form:"user"     binding:"omitempty,uuid"`
	ScheduleID string `form:"schedule" binding:"omitempty,uuid"`
	Vote       string `form:"vote"     binding:"omitempty,oneof=attend late absent"`
	Att        string `form:"att"      binding:"omitempty,oneof=attend late absent"`
}

// AttendanceResponse 出勤记录响应
type AttendanceResponse struct {
	AttendanceID string        `json:"attendance_id"`
	ScheduleID   string        `json:"schedule_id"`
	Vote         string        `json:"vote"`
	Att          string        `json:"att"`
	User         *UserResponse `json:"user,omitempty"`
	CreatedAt    string        `json:"created_at"`
}
