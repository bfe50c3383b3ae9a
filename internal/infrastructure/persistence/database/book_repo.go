package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
)

// bookRepository 图书仓储实现
// 借阅状态的修改都是条件UPDATE,影响行数为0时再查一次确定原因
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return dbError(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindActiveByID(ctx context.Context, id int64) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Where("id = ? AND deletion_status = ?", id, book.DeletionActive).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, dbError(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ? AND deletion_status = ?", b.ID, book.DeletionActive).
		Updates(map[string]interface{}{
			"title":          b.Title,
			"author":         b.Author,
			"isbn":           b.ISBN,
			"published_date": b.PublishedDate,
			"updated_at":     b.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return book.ErrISBNDuplicate
		}
		return dbError(result.Error, "更新图书失败")
	}

	// MySQL只统计实际变化的行,值未变化时也是0
	if result.RowsAffected == 0 {
		_, err := r.FindActiveByID(ctx, b.ID)
		return err
	}
	return nil
}

func (r *bookRepository) SoftDelete(ctx context.Context, id int64) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ? AND deletion_status = ? AND status = ?", id, book.DeletionActive, book.StatusAvailable).
		Updates(map[string]interface{}{
			"deletion_status": book.DeletionDeleted,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return dbError(result.Error, "删除图书失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	current, err := r.FindActiveByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.IsAvailable() {
		return book.ErrBookInUse
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	query := getDB(ctx, r.db).Model(&BookModel{}).
		Where("deletion_status = ?", book.DeletionActive)

	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", keyword, keyword, keyword)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "查询图书总数失败")
	}

	var models []BookModel
	err := query.Order("id DESC").
		Limit(params.PageSize).
		Offset(pageOffset(params.Page, params.PageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, dbError(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// MarkBorrowed UPDATE books SET status='borrowed' WHERE id=? AND status='available' AND deletion_status='active'
// 并发借同一本书时只有一个UPDATE能命中
func (r *bookRepository) MarkBorrowed(ctx context.Context, id int64) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ? AND status = ? AND deletion_status = ?", id, book.StatusAvailable, book.DeletionActive).
		Updates(map[string]interface{}{
			"status":     book.StatusBorrowed,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return dbError(result.Error, "更新图书状态失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if _, err := r.FindActiveByID(ctx, id); err != nil {
		return err
	}
	return book.ErrBookBorrowed
}

func (r *bookRepository) MarkAvailable(ctx context.Context, id int64) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ? AND status = ?", id, book.StatusBorrowed).
		Updates(map[string]interface{}{
			"status":     book.StatusAvailable,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return dbError(result.Error, "更新图书状态失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := getDB(ctx, r.db).Model(&BookModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return dbError(err, "查询图书失败")
	}
	if count == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) ListBorrowedIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Where("status = ?", book.StatusBorrowed).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, dbError(err, "查询借出图书失败")
	}
	return ids, nil
}
