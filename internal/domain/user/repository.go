package user

import (
	"context"
)

// Repository 用户仓储接口
// 查询只返回在册(deletion_status=active)的用户
type Repository interface {
	// Create 创建用户,邮箱与在册用户重复时返回ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindActiveByID 不存在或已删除时返回ErrUserNotFound
	FindActiveByID(ctx context.Context, id int64) (*User, error)

	// FindActiveByEmail 不存在或已删除时返回ErrUserNotFound
	FindActiveByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新姓名、邮箱、密码、角色
	Update(ctx context.Context, user *User) error

	// SoftDelete 软删除,有未归还借阅时返回ErrUserHasOpenBorrow
	SoftDelete(ctx context.Context, id int64) error

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*User, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int
	PageSize int
	Keyword  string // 搜索姓名、邮箱
	Role     Role   // 为空表示不过滤
}
