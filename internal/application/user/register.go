package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/logger"
)

// RegisterUseCase 公开注册，角色固定为member
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{userService: userService}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	log.Info().Int64("user_id", u.ID).Str("email", u.Email).Msg("新用户注册")
	return toUserInfo(u), nil
}

// CreateUserUseCase 管理员创建用户，可指定角色
type CreateUserUseCase struct {
	userService user.Service
}

// NewCreateUserUseCase 创建用例
func NewCreateUserUseCase(userService user.Service) *CreateUserUseCase {
	return &CreateUserUseCase{userService: userService}
}

// CreateUserRequest 创建用户请求，Role为空时为member
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Execute 执行创建
func (uc *CreateUserUseCase) Execute(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	role, err := user.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	u, err := uc.userService.CreateUser(ctx, req.Name, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	log.Info().Int64("user_id", u.ID).Str("role", string(u.Role)).Msg("管理员创建用户")
	return toUserInfo(u), nil
}
