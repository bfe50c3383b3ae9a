package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/user"
)

// userRepository 用户仓储实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrEmailDuplicate
		}
		return dbError(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindActiveByID(ctx context.Context, id int64) (*user.User, error) {
	return r.findActive(ctx, "id = ?", id)
}

func (r *userRepository) FindActiveByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findActive(ctx, "email = ?", email)
}

func (r *userRepository) findActive(ctx context.Context, cond string, arg interface{}) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).
		Where(cond, arg).
		Where("deletion_status = ?", user.DeletionActive).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, dbError(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	result := getDB(ctx, r.db).Model(&UserModel{}).
		Where("id = ? AND deletion_status = ?", u.ID, user.DeletionActive).
		Updates(map[string]interface{}{
			"name":       u.Name,
			"email":      u.Email,
			"password":   u.PasswordHash,
			"role":       u.Role,
			"updated_at": u.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return user.ErrEmailDuplicate
		}
		return dbError(result.Error, "更新用户失败")
	}
	if result.RowsAffected == 0 {
		_, err := r.FindActiveByID(ctx, u.ID)
		return err
	}
	return nil
}

// SoftDelete 仅当用户没有未归还借阅时才删除,检查和删除在同一条UPDATE中完成
func (r *userRepository) SoftDelete(ctx context.Context, id int64) error {
	db := getDB(ctx, r.db)
	openBorrows := db.Model(&BorrowModel{}).
		Select("1").
		Where("user_id = ? AND return_date IS NULL", id)

	result := db.Model(&UserModel{}).
		Where("id = ? AND deletion_status = ?", id, user.DeletionActive).
		Where("NOT EXISTS (?)", openBorrows).
		Updates(map[string]interface{}{
			"deletion_status": user.DeletionDeleted,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return dbError(result.Error, "删除用户失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// 区分不存在和仍有借阅
	if _, err := r.FindActiveByID(ctx, id); err != nil {
		return err
	}
	return user.ErrUserHasOpenBorrow
}

func (r *userRepository) List(ctx context.Context, params user.ListParams) ([]*user.User, int64, error) {
	query := getDB(ctx, r.db).Model(&UserModel{}).
		Where("deletion_status = ?", user.DeletionActive)

	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", keyword, keyword)
	}
	if params.Role != "" {
		query = query.Where("role = ?", params.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "查询用户总数失败")
	}

	var models []UserModel
	err := query.Order("id ASC").
		Limit(params.PageSize).
		Offset(pageOffset(params.Page, params.PageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, dbError(err, "查询用户列表失败")
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, total, nil
}
