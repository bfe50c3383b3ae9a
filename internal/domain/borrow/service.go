package borrow

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Workflow 借书/还书流程
//
// 借书:校验ID -> 查用户 -> 查图书 -> 已借出则冲突 ->
// 事务内{条件更新图书为borrowed, 插入借阅记录}
//
// 条件更新 WHERE status='available' 保证同一本书并发借阅只有一个成功,
// 前面的状态检查只是为了在常见情况下尽早返回。
//
// 还书:事务内{查借阅记录 -> 已归还则冲突 -> 写归还时间 -> 图书改回available},
// 两步更新在同一事务中,不会出现记录已归还而图书仍是borrowed的情况。
type Workflow interface {
	Borrow(ctx context.Context, userID, bookID int64) (*Borrow, error)
	Return(ctx context.Context, borrowID int64) (*Borrow, error)
}

type workflow struct {
	borrows Repository
	books   BookGateway
	users   UserGateway
	tx      Transactor
	now     func() time.Time
}

// NewWorkflow 创建借阅流程
func NewWorkflow(borrows Repository, books BookGateway, users UserGateway, tx Transactor) Workflow {
	return &workflow{
		borrows: borrows,
		books:   books,
		users:   users,
		tx:      tx,
		now:     time.Now,
	}
}

func (w *workflow) Borrow(ctx context.Context, userID, bookID int64) (*Borrow, error) {
	if userID <= 0 || bookID <= 0 {
		return nil, apperrors.ErrInvalidID
	}

	if _, err := w.users.FindActiveByID(ctx, userID); err != nil {
		return nil, err
	}
	b, err := w.books.FindActiveByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !b.IsAvailable() {
		return nil, book.ErrBookBorrowed
	}

	record := NewBorrow(userID, bookID, w.now())
	err = w.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := w.books.MarkBorrowed(ctx, bookID); err != nil {
			return err
		}
		return w.borrows.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (w *workflow) Return(ctx context.Context, borrowID int64) (*Borrow, error) {
	if borrowID <= 0 {
		return nil, apperrors.ErrInvalidID
	}

	var record *Borrow
	err := w.tx.Transaction(ctx, func(ctx context.Context) error {
		r, err := w.borrows.FindByID(ctx, borrowID)
		if err != nil {
			return err
		}
		now := w.now()
		if err := r.MarkReturned(now); err != nil {
			return err
		}
		if err := w.borrows.MarkReturned(ctx, r.ID, now); err != nil {
			return err
		}
		if err := w.books.MarkAvailable(ctx, r.BookID); err != nil {
			return err
		}
		record = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
