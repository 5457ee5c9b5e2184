package model

// 出勤状态（vote 为会前意向，att 为实际结果；空串表示未填）
const (
	VoteAttend = "attend"
	VoteLate   = "late"
	VoteAbsent = "absent"
	VoteBlank  = ""
)

// VoteChoices 全部合法出勤状态
var VoteChoices = []string{VoteAttend, VoteLate, VoteAbsent}

// ValidVote 检查出勤状态是否合法（空串视为未填，同样合法）
func ValidVote(v string) bool {
	if v == VoteBlank {
		return true
	}
	for _, c := range VoteChoices {
		if c == v {
			return true
		}
	}
	return false
}

// Attendance 出勤记录表 — 对应 attendances
//
// 唯一性约束：(user_id, schedule_id) 全表唯一，回填重试依赖该约束去重
type Attendance struct {
	AttendanceID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"attendance_id"`
	UserID       string `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_user_schedule" json:"user_id"`
	ScheduleID   string `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_user_schedule" json:"schedule_id"`
	Vote         string `gorm:"type:varchar(10);not null;default:''" json:"vote"` // attend | late | absent | ''
	Att          string `gorm:"type:varchar(10);not null;default:''" json:"att"`  // attend | late | absent | ''
	BaseModel

	// 关联
	User     *User     `gorm:"foreignKey:UserID;references:UserID"          json:"user,omitempty"`
	Schedule *Schedule `gorm:"foreignKey:ScheduleID;references:ScheduleID"  json:"schedule,omitempty"`
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }
