package user

import (
	"regexp"
	"strings"
	"time"
)

// Role 用户角色
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ParseRole 把外部输入转换为Role,空串视为member
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleMember:
		return RoleMember, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// DeletionStatus 软删除状态
type DeletionStatus string

const (
	DeletionActive  DeletionStatus = "active"
	DeletionDeleted DeletionStatus = "deleted"
)

// User 用户实体(聚合根)
// PasswordHash是bcrypt哈希值,明文密码不会进入实体
type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	DeletionStatus DeletionStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser 创建新用户(工厂方法)
func NewUser(name, email, passwordHash string, role Role) (*User, error) {
	u := &User{
		Name:           strings.TrimSpace(name),
		Email:          normalizeEmail(email),
		PasswordHash:   passwordHash,
		Role:           role,
		DeletionStatus: DeletionActive,
	}
	if u.Role == "" {
		u.Role = RoleMember
	}
	if err := u.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	return u, nil
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsDeleted 是否已软删除
func (u *User) IsDeleted() bool {
	return u.DeletionStatus == DeletionDeleted
}

func (u *User) validate() error {
	if u.Name == "" {
		return ErrEmptyName
	}
	if len([]rune(u.Name)) > 50 {
		return ErrNameTooLong
	}
	if !isValidEmail(u.Email) {
		return ErrInvalidEmail
	}
	if u.Role != RoleMember && u.Role != RoleAdmin {
		return ErrInvalidRole
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// 邮箱统一小写,唯一索引才能按大小写不敏感生效
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
