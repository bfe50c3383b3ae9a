package borrow

import (
	"context"
	"time"
)

// Repository 借阅记录仓储接口
type Repository interface {
	// Create 创建借阅记录
	// 同一本书已有未归还记录时(唯一索引冲突)返回book.ErrBookBorrowed
	Create(ctx context.Context, b *Borrow) error

	// FindByID 不存在时返回ErrBorrowNotFound
	FindByID(ctx context.Context, id int64) (*Borrow, error)

	// MarkReturned 仅当return_date为空时写入归还时间
	// 已归还返回ErrAlreadyReturned,不存在返回ErrBorrowNotFound
	MarkReturned(ctx context.Context, id int64, at time.Time) error

	// ListOpen 所有未归还的借阅记录
	ListOpen(ctx context.Context) ([]*Borrow, error)

	// CountOpenByUser 用户未归还的借阅数
	CountOpenByUser(ctx context.Context, userID int64) (int64, error)

	// History 分页查询借阅历史,按借阅时间倒序
	History(ctx context.Context, params HistoryParams) ([]*HistoryItem, int64, error)
}

// HistoryParams 借阅历史查询参数
type HistoryParams struct {
	Page     int
	PageSize int
	UserID   int64 // 0表示全部用户
	OpenOnly bool  // 只看未归还
}
