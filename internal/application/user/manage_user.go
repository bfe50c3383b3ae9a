package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

// GetUserUseCase 用户详情（Cache-Aside）
type GetUserUseCase struct {
	userService user.Service
	cache       Cache
}

// NewGetUserUseCase 创建详情用例
func NewGetUserUseCase(userService user.Service, cache Cache) *GetUserUseCase {
	return &GetUserUseCase{userService: userService, cache: cache}
}

// Execute 查询用户详情
func (uc *GetUserUseCase) Execute(ctx context.Context, id int64) (*UserInfo, error) {
	if id <= 0 {
		return nil, apperrors.ErrInvalidID
	}

	log := logger.Get()

	var cached UserInfo
	hit, err := uc.cache.Get(ctx, id, &cached)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("读取用户缓存失败")
	}
	if hit {
		return &cached, nil
	}

	u, err := uc.userService.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	info := toUserInfo(u)
	if err := uc.cache.Set(ctx, id, info); err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("写入用户缓存失败")
	}
	return info, nil
}

// UpdateUserUseCase 管理员修改用户
type UpdateUserUseCase struct {
	userService user.Service
	cache       Cache
}

// NewUpdateUserUseCase 创建修改用例
func NewUpdateUserUseCase(userService user.Service, cache Cache) *UpdateUserUseCase {
	return &UpdateUserUseCase{userService: userService, cache: cache}
}

// UpdateUserRequest 部分更新请求，nil表示不修改
type UpdateUserRequest struct {
	ID       int64
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// Execute 执行修改
func (uc *UpdateUserUseCase) Execute(ctx context.Context, req UpdateUserRequest) (*UserInfo, error) {
	params := user.UpdateParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role, err := user.ParseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		params.Role = &role
	}

	u, err := uc.userService.UpdateUser(ctx, req.ID, params)
	if err != nil {
		return nil, err
	}

	evictUser(ctx, uc.cache, u.ID)
	return toUserInfo(u), nil
}

// DeleteUserUseCase 软删除用户
// 有未归还借阅的用户不能删除；删除后清理会话
type DeleteUserUseCase struct {
	userService user.Service
	borrows     OpenBorrowCounter
	sessions    SessionStore
	cache       Cache
}

// NewDeleteUserUseCase 创建删除用例
func NewDeleteUserUseCase(userService user.Service, borrows OpenBorrowCounter, sessions SessionStore, cache Cache) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userService: userService,
		borrows:     borrows,
		sessions:    sessions,
		cache:       cache,
	}
}

// Execute 执行删除
func (uc *DeleteUserUseCase) Execute(ctx context.Context, id int64) error {
	if _, err := uc.userService.GetUser(ctx, id); err != nil {
		return err
	}

	open, err := uc.borrows.CountOpenByUser(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return user.ErrUserHasOpenBorrow
	}

	if err := uc.userService.DeleteUser(ctx, id); err != nil {
		return err
	}

	log := logger.Get()
	if err := uc.sessions.DeleteSession(ctx, id); err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("删除会话失败")
	}
	evictUser(ctx, uc.cache, id)

	log.Info().Int64("user_id", id).Msg("用户已删除")
	return nil
}

// ListUsersUseCase 用户列表
type ListUsersUseCase struct {
	userService user.Service
}

// NewListUsersUseCase 创建列表用例
func NewListUsersUseCase(userService user.Service) *ListUsersUseCase {
	return &ListUsersUseCase{userService: userService}
}

// ListUsersRequest 列表查询请求
type ListUsersRequest struct {
	Page     int
	PageSize int
	Keyword  string // 搜索姓名、邮箱
	Role     string // member | admin，空表示全部
}

// ListUsersResponse 列表查询响应
type ListUsersResponse struct {
	List     []*UserInfo
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询
func (uc *ListUsersUseCase) Execute(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	params := user.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
	}
	if req.Role != "" {
		role, err := user.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		params.Role = role
	}

	users, total, err := uc.userService.ListUsers(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]*UserInfo, len(users))
	for i, u := range users {
		list[i] = toUserInfo(u)
	}
	return &ListUsersResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func evictUser(ctx context.Context, cache Cache, id int64) {
	if err := cache.Delete(ctx, id); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Int64("user_id", id).Msg("删除用户缓存失败")
	}
}
