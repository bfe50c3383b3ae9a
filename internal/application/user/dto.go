package user

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/user"
)

const timeLayout = "2006-01-02 15:04:05"

// Cache 用户详情缓存
type Cache interface {
	Get(ctx context.Context, id int64, dest interface{}) (bool, error)
	Set(ctx context.Context, id int64, value interface{}) error
	Delete(ctx context.Context, id int64) error
}

// SessionStore 会话和Token黑名单，redis.SessionStore满足此接口
type SessionStore interface {
	SaveSession(ctx context.Context, userID int64, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID int64) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// OpenBorrowCounter 删除用户前检查未归还借阅，borrow.Repository满足此接口
type OpenBorrowCounter interface {
	CountOpenByUser(ctx context.Context, userID int64) (int64, error)
}

// UserInfo 用户信息DTO，不含密码哈希
type UserInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toUserInfo(u *user.User) *UserInfo {
	return &UserInfo{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(timeLayout),
		UpdatedAt: u.UpdatedAt.Format(timeLayout),
	}
}
