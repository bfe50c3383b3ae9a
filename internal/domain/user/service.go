package user

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// DefaultBcryptCost 密码哈希成本
const DefaultBcryptCost = 12

// Service 用户领域服务
// 邮箱唯一性由数据库部分唯一索引保证,不做预查询
type Service interface {
	// Register 公开注册,角色固定为member
	Register(ctx context.Context, name, email, password string) (*User, error)

	// CreateUser 管理员创建用户,可指定角色
	CreateUser(ctx context.Context, name, email, password string, role Role) (*User, error)

	// Login 校验邮箱和密码,失败统一返回ErrInvalidPassword
	Login(ctx context.Context, email, password string) (*User, error)

	// GetUser 获取在册用户
	GetUser(ctx context.Context, id int64) (*User, error)

	// UpdateUser 部分更新用户
	UpdateUser(ctx context.Context, id int64, params UpdateParams) (*User, error)

	// DeleteUser 软删除用户,未归还检查由调用方负责
	DeleteUser(ctx context.Context, id int64) error

	// ListUsers 分页查询
	ListUsers(ctx context.Context, params ListParams) ([]*User, int64, error)
}

// UpdateParams 部分更新参数,nil表示不修改
type UpdateParams struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return NewServiceWithCost(repo, DefaultBcryptCost)
}

// NewServiceWithCost 指定bcrypt成本,测试中使用bcrypt.MinCost
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

func (s *service) Register(ctx context.Context, name, email, password string) (*User, error) {
	return s.CreateUser(ctx, name, email, password, RoleMember)
}

func (s *service) CreateUser(ctx context.Context, name, email, password string, role Role) (*User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, err
	}

	u, err := NewUser(name, email, hash, role)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindActiveByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}
	if err := ComparePassword(u.PasswordHash, password); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, apperrors.ErrInvalidID
	}
	return s.repo.FindActiveByID(ctx, id)
}

func (s *service) UpdateUser(ctx context.Context, id int64, p UpdateParams) (*User, error) {
	if id <= 0 {
		return nil, apperrors.ErrInvalidID
	}

	u, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *u
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		next.Email = normalizeEmail(*p.Email)
	}
	if p.Role != nil {
		next.Role = *p.Role
	}
	if p.Password != nil {
		if err := ValidatePassword(*p.Password); err != nil {
			return nil, err
		}
		hash, err := HashPassword(*p.Password, s.cost)
		if err != nil {
			return nil, err
		}
		next.PasswordHash = hash
	}
	if err := next.validate(); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *service) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.ErrInvalidID
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, params ListParams) ([]*User, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.repo.List(ctx, params)
}

// ValidatePassword 密码强度:8-64位,同时包含字母和数字
func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 64 {
		return ErrWeakPassword
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword bcrypt加密,bcrypt自动加盐
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hash), nil
}

// ComparePassword 比较明文密码与哈希值
func ComparePassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}
