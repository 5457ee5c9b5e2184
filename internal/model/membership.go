package model

// 成员角色
const (
	RoleNormal      = "normal"
	RoleSubManager  = "sub_manager"
	RoleMainManager = "manager"
)

// MembershipRoles 全部合法角色
var MembershipRoles = []string{RoleNormal, RoleSubManager, RoleMainManager}

// ValidRole 检查角色是否合法
func ValidRole(r string) bool {
	for _, v := range MembershipRoles {
		if v == r {
			return true
		}
	}
	return false
}

// StudyMembership 学习小组成员表 — 对应 study_memberships
//
// 唯一性约束：(user_id, study_id) 全表唯一，含已退出行；
// 重新加入时复用既有行（清除 is_withdraw），不新建
type StudyMembership struct {
	MembershipID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"membership_id"`
	UserID       string `gorm:"type:uuid;not null;uniqueIndex:uq_membership_user_study" json:"user_id"`
	StudyID      string `gorm:"type:uuid;not null;uniqueIndex:uq_membership_user_study" json:"study_id"`
	Role         string `gorm:"type:varchar(12);not null;default:'normal'"      json:"role"` // normal | sub_manager | manager
	IsWithdraw   bool   `gorm:"not null;default:false"                          json:"is_withdraw"`
	BaseModel

	// 关联
	User  *User  `gorm:"foreignKey:UserID;references:UserID"    json:"user,omitempty"`
	Study *Study `gorm:"foreignKey:StudyID;references:StudyID"  json:"study,omitempty"`
}

// TableName 指定表名
func (StudyMembership) TableName() string { return "study_memberships" }
