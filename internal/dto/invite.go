package dto

// ── 邀请令牌模块 DTO ──

// CreateInviteTokenRequest 签发邀请令牌请求
type CreateInviteTokenRequest struct {
	StudyID string `json:"study_id" binding:"required,uuid"`
	// 有效时长（小时），缺省 24
	DurationHours int `json:"duration_hours" binding:"omitempty,min=1,max=720"`
}

// InviteTokenResponse 邀请令牌响应
type InviteTokenResponse struct {
	Key string `json:"key"`
}

// RedeemInviteTokenRequest 兑换邀请令牌请求
type RedeemInviteTokenRequest struct {
	Key string `json:"key" binding:"required"`
}
