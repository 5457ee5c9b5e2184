package dto

// ── 用户模块 DTO ──

// CreateUserRequest 注册请求
//
// email 类型账号的 login_id 由 email 派生，社交类型必须显式提供 login_id
type CreateUserRequest struct {
	LoginID     string `json:"login_id"     binding:"omitempty,max=150"`
	Name        string `json:"name"         binding:"omitempty,max=20"`
	Nickname    string `json:"nickname"     binding:"omitempty,max=20"`
	Type        string `json:"type"         binding:"omitempty,oneof=kakao facebook google email"`
	Email       string `json:"email"        binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=20"`
	ImgProfile  string `json:"img_profile"  binding:"omitempty,max=255"`
	Password1   string `json:"password1"    binding:"omitempty,min=8,max=64"`
	Password2   string `json:"password2"    binding:"omitempty,min=8,max=64"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	Name        *string `json:"name"         binding:"omitempty,max=20"`
	Nickname    *string `json:"nickname"     binding:"omitempty,max=20"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=20"`
	ImgProfile  *string `json:"img_profile"  binding:"omitempty,max=255"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	UserID      string `json:"user_id"`
	LoginID     string `json:"login_id"`
	Name        string `json:"name"`
	Nickname    string `json:"nickname,omitempty"`
	Type        string `json:"type"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	ImgProfile  string `json:"img_profile,omitempty"`
	Retired     bool   `json:"retired"`
}

// CreateUserResponse 注册成功响应（含登录令牌）
type CreateUserResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
