package model

// 账号类型
const (
	UserTypeKakao    = "kakao"
	UserTypeFacebook = "facebook"
	UserTypeGoogle   = "google"
	UserTypeEmail    = "email"
)

// UserTypes 全部合法账号类型
var UserTypes = []string{UserTypeKakao, UserTypeFacebook, UserTypeGoogle, UserTypeEmail}

// ValidUserType 检查账号类型是否合法
func ValidUserType(t string) bool {
	for _, v := range UserTypes {
		if v == t {
			return true
		}
	}
	return false
}

// User 用户表 — 对应 users
//
// 唯一性约束：
//   - login_id 全表唯一（注销后改写为 deleted_%05d 占位符，占位符同样唯一）
//   - email 仅在未注销用户中唯一（部分唯一索引，见 migration）
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	LoginID      string  `gorm:"type:varchar(150);not null;uniqueIndex"         json:"login_id"`
	Name         string  `gorm:"type:varchar(20)"                               json:"name"`
	Nickname     *string `gorm:"type:varchar(20)"                               json:"nickname,omitempty"`
	Type         string  `gorm:"type:varchar(10);not null;default:'email'"      json:"type"` // kakao | facebook | google | email
	Email        *string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	PhoneNumber  string  `gorm:"type:varchar(20)"                               json:"phone_number,omitempty"`
	ImgProfile   string  `gorm:"type:varchar(255)"                              json:"img_profile,omitempty"`
	PasswordHash string  `gorm:"type:varchar(255)"                              json:"-"`

	// 注销墓碑字段：行永不物理删除，保证历史外键有效
	Retired        bool   `gorm:"not null;default:false" json:"retired"`
	RetiredLoginID string `gorm:"type:varchar(150)"      json:"retired_login_id,omitempty"`
	RetiredEmail   string `gorm:"type:varchar(255)"      json:"retired_email,omitempty"`

	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// EmailValidation 邮箱验证码表 — 对应 email_validations
type EmailValidation struct {
	EmailValidationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"email_validation_id"`
	UserID            *string `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Email             string  `gorm:"type:varchar(255);not null"                     json:"email"`
	Code              string  `gorm:"type:varchar(50);not null"                      json:"code"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (EmailValidation) TableName() string { return "email_validations" }
