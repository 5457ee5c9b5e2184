package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
//
// 设计说明：
//   - 软状态（用户注销、成员退出）不使用 gorm.DeletedAt，而是各模型的显式布尔字段；
//     查询时由 Repository 的 ListActive / ListAll 方法区分，避免隐式过滤遗漏历史数据
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
