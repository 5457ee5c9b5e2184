package dto

// ── 成员模块 DTO ──

// CreateMembershipRequest 创建成员请求
type CreateMembershipRequest struct {
	UserID  string `json:"user_id"  binding:"required,uuid"`
	StudyID string `json:"study_id" binding:"required,uuid"`
	Role    string `json:"role"     binding:"omitempty,oneof=normal sub_manager manager"`
}

// UpdateMembershipRequest 更新成员角色请求
type UpdateMembershipRequest struct {
	Role string `json:"role" binding:"required,oneof=normal sub_manager manager"`
}

// MembershipListRequest 成员列表查询参数
type MembershipListRequest struct {
	UserID     string `form:"user"        binding:"omitempty,uuid"`
	StudyID    string `form:"study"       binding:"omitempty,uuid"`
	IsWithdraw *bool  `form:"is_withdraw"`
}

// MembershipResponse 成员响应
type MembershipResponse struct {
	MembershipID string        `json:"membership_id"`
	StudyID      string        `json:"study_id"`
	Role         string        `json:"role"`
	IsWithdraw   bool          `json:"is_withdraw"`
	User         *UserResponse `json:"user,omitempty"`
	CreatedAt    string        `json:"created_at"`
}

// MembershipDetailResponse 成员详情响应（含出勤历史）
type MembershipDetailResponse struct {
	MembershipResponse
	Attendances []AttendanceResponse `json:"attendances"`
}
