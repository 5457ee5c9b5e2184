package dto

// ── 学习小组模块 DTO ──

// CreateStudyRequest 创建学习小组请求
type CreateStudyRequest struct {
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	IconID      string `json:"icon_id"     binding:"omitempty,uuid"`
	Name        string `json:"name"        binding:"required,max=20"`
	Description string `json:"description" binding:"omitempty,max=100"`
}

// UpdateStudyRequest 更新学习小组请求
type UpdateStudyRequest struct {
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	IconID      *string `json:"icon_id"     binding:"omitempty,uuid"`
	Name        *string `json:"name"        binding:"omitempty,max=20"`
	Description *string `json:"description" binding:"omitempty,max=100"`
}

// CategoryResponse 分类响应
type CategoryResponse struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

// IconResponse 图标响应
type IconResponse struct {
	IconID string `json:"icon_id"`
	Name   string `json:"name"`
	Image  string `json:"image,omitempty"`
}

// StudyResponse 学习小组响应
//
// Schedules 中每项携带观察者自己的出勤投影（未认证或无出勤行时为 null）
type StudyResponse struct {
	StudyID     string             `json:"study_id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Category    *CategoryResponse  `json:"category,omitempty"`
	Icon        *IconResponse      `json:"icon,omitempty"`
	Author      *UserResponse      `json:"author,omitempty"`
	CreatedAt   string             `json:"created_at"`
	Schedules   []ScheduleResponse `json:"schedules,omitempty"`
}
