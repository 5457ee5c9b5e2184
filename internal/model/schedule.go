package model

import "time"

// Schedule 学习日程表 — 对应 schedules
//
// CreatedAt 是出勤回填的资格锚点：仅 membership.created_at <= schedule.created_at
// 的成员会被回填出勤行（见 ScheduleService.backfillAttendances）
type Schedule struct {
	ScheduleID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	StudyID     string     `gorm:"type:uuid;not null;index"                       json:"study_id"`
	Location    string     `gorm:"type:varchar(50)"                               json:"location,omitempty"`
	Subject     string     `gorm:"type:varchar(50)"                               json:"subject,omitempty"`
	Description string     `gorm:"type:varchar(300)"                              json:"description,omitempty"`
	VoteEndAt   *time.Time `json:"vote_end_at,omitempty"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	// 学习时长（分钟）
	StudyingTime *int64 `gorm:"type:bigint" json:"studying_time,omitempty"`
	BaseModel

	// 关联
	Study *Study `gorm:"foreignKey:StudyID;references:StudyID" json:"study,omitempty"`
}

// TableName 指定表名
func (Schedule) TableName() string { return "schedules" }
