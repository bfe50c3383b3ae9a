package dto

import appuser "github.com/xiebiao/library/internal/application/user"

// RegisterRequest HTTP层注册请求
// 密码强度(字母+数字)由领域层校验
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=50" example:"张三"`
	Email    string `json:"email" binding:"required,email,max=100" example:"zhangsan@example.com"`
	Password string `json:"password" binding:"required,min=8,max=64" example:"secret123"`
}

// CreateUserRequest 管理员创建用户，role为空时默认member
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Role     string `json:"role" binding:"omitempty,oneof=member admin" example:"member"`
}

// UpdateUserRequest 部分更新
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=50"`
	Email    *string `json:"email" binding:"omitempty,email,max=100"`
	Password *string `json:"password" binding:"omitempty,min=8,max=64"`
	Role     *string `json:"role" binding:"omitempty,oneof=member admin"`
}

// ListUsersRequest 用户列表请求
type ListUsersRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	Role     string `form:"role" binding:"omitempty,oneof=member admin"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"zhangsan@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshTokenRequest 刷新Access Token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserResponse 用户响应（不包含密码）
type UserResponse struct {
	ID        int64  `json:"id" example:"1"`
	Name      string `json:"name" example:"张三"`
	Email     string `json:"email" example:"zhangsan@example.com"`
	Role      string `json:"role" example:"member"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in" example:"7200"` // 秒
}

// TokenResponse 刷新Token响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in" example:"7200"`
}

// ToUserResponse 应用层DTO → HTTP响应
func ToUserResponse(u *appuser.UserInfo) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserResponses 列表转换
func ToUserResponses(list []*appuser.UserInfo) []*UserResponse {
	out := make([]*UserResponse, len(list))
	for i, u := range list {
		out[i] = ToUserResponse(u)
	}
	return out
}
