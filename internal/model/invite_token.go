package model

import "time"

// DefaultInviteDurationHours 邀请令牌默认有效时长（小时）
const DefaultInviteDurationHours = 24

// StudyInviteToken 学习小组邀请令牌表 — 对应 study_invite_tokens
//
// 令牌多次可用、不可撤销；有效性由 created_at + duration 计算得出，不落库
type StudyInviteToken struct {
	TokenID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"token_id"`
	StudyID  string `gorm:"type:uuid;not null;index"                       json:"study_id"`
	Key      string `gorm:"type:varchar(30);not null;uniqueIndex"          json:"key"`
	Duration int    `gorm:"not null;default:24"                            json:"duration"` // 有效时长（小时）
	BaseModel

	// 关联
	Study *Study `gorm:"foreignKey:StudyID;references:StudyID" json:"study,omitempty"`
}

// TableName 指定表名
func (StudyInviteToken) TableName() string { return "study_invite_tokens" }

// IsValid 令牌在 now 时刻是否仍然有效：now - created < duration 小时（严格小于）
func (t *StudyInviteToken) IsValid(now time.Time) bool {
	return now.Sub(t.CreatedAt) < time.Duration(t.Duration)*time.Hour
}
