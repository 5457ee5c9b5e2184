package model

// StudyCategory 学习小组分类表 — 对应 study_categories
type StudyCategory struct {
	CategoryID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"category_id"`
	Name       string `gorm:"type:varchar(20);not null"                      json:"name"`
}

// TableName 指定表名
func (StudyCategory) TableName() string { return "study_categories" }

// StudyIcon 学习小组图标表 — 对应 study_icons（部署时由 bootstrap 种子数据写入）
type StudyIcon struct {
	IconID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"icon_id"`
	Name   string `gorm:"type:varchar(50);not null"                      json:"name"`
	Image  string `gorm:"type:varchar(255)"                              json:"image,omitempty"`
}

// TableName 指定表名
func (StudyIcon) TableName() string { return "study_icons" }

// Study 学习小组表 — 对应 studies
//
// 所有权：Study 拥有其 Memberships 与 Schedules（级联删除）；
// 本核心内 Study 不做硬删除，删除策略属于外部服务层
type Study struct {
	StudyID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"study_id"`
	CategoryID  string  `gorm:"type:uuid;not null"                             json:"category_id"`
	AuthorID    *string `gorm:"type:uuid"                                      json:"author_id,omitempty"`
	IconID      *string `gorm:"type:uuid"                                      json:"icon_id,omitempty"`
	Name        string  `gorm:"type:varchar(20);not null"                      json:"name"`
	Description string  `gorm:"type:varchar(100)"                              json:"description,omitempty"`
	BaseModel

	// 关联
	Category *StudyCategory `gorm:"foreignKey:CategoryID;references:CategoryID" json:"category,omitempty"`
	Author   *User          `gorm:"foreignKey:AuthorID;references:UserID"       json:"author,omitempty"`
	Icon     *StudyIcon     `gorm:"foreignKey:IconID;references:IconID"         json:"icon,omitempty"`
}

// TableName 指定表名
func (Study) TableName() string { return "studies" }
