package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
)

// borrowRepository 借阅记录仓储实现
// 借书流程在事务中调用Create和MarkReturned,必须通过getDB参与事务
type borrowRepository struct {
	db *gorm.DB
}

// NewBorrowRepository 创建借阅记录仓储
func NewBorrowRepository(db *gorm.DB) borrow.Repository {
	return &borrowRepository{db: db}
}

// Create 插入借阅记录
// borrows上唯一的唯一索引是"每本书一条未归还记录",冲突即图书已被借出
func (r *borrowRepository) Create(ctx context.Context, b *borrow.Borrow) error {
	model := &BorrowModel{
		UserID:     b.UserID,
		BookID:     b.BookID,
		BorrowDate: b.BorrowDate.UTC(),
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrBookBorrowed
		}
		return dbError(err, "创建借阅记录失败")
	}
	b.ID = model.ID
	return nil
}

func (r *borrowRepository) FindByID(ctx context.Context, id int64) (*borrow.Borrow, error) {
	var model BorrowModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, borrow.ErrBorrowNotFound
		}
		return nil, dbError(err, "查询借阅记录失败")
	}
	return toBorrowEntity(&model), nil
}

// MarkReturned UPDATE borrows SET return_date=? WHERE id=? AND return_date IS NULL
func (r *borrowRepository) MarkReturned(ctx context.Context, id int64, at time.Time) error {
	result := getDB(ctx, r.db).Model(&BorrowModel{}).
		Where("id = ? AND return_date IS NULL", id).
		Update("return_date", at.UTC())
	if result.Error != nil {
		return dbError(result.Error, "更新借阅记录失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return borrow.ErrAlreadyReturned
}

func (r *borrowRepository) ListOpen(ctx context.Context) ([]*borrow.Borrow, error) {
	var models []BorrowModel
	err := getDB(ctx, r.db).
		Where("return_date IS NULL").
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, dbError(err, "查询未归还记录失败")
	}

	out := make([]*borrow.Borrow, len(models))
	for i := range models {
		out[i] = toBorrowEntity(&models[i])
	}
	return out, nil
}

func (r *borrowRepository) CountOpenByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&BorrowModel{}).
		Where("user_id = ? AND return_date IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, dbError(err, "统计未归还记录失败")
	}
	return count, nil
}

// History 借阅历史,SQL由goqu按当前方言生成
func (r *borrowRepository) History(ctx context.Context, params borrow.HistoryParams) ([]*borrow.HistoryItem, int64, error) {
	db := getDB(ctx, r.db)

	countSQL, listSQL, err := historyQuery(db.Dialector.Name(), params)
	if err != nil {
		return nil, 0, dbError(err, "查询借阅历史失败")
	}

	var total int64
	if err := db.Raw(countSQL).Scan(&total).Error; err != nil {
		return nil, 0, dbError(err, "统计借阅历史失败")
	}

	var rows []historyRow
	if err := db.Raw(listSQL).Scan(&rows).Error; err != nil {
		return nil, 0, dbError(err, "查询借阅历史失败")
	}

	items := make([]*borrow.HistoryItem, len(rows))
	for i := range rows {
		items[i] = rows[i].toEntity()
	}
	return items, total, nil
}
