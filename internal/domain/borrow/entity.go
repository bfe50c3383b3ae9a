package borrow

import (
	"time"
)

// Borrow 借阅记录(聚合根)
// 只持有用户和图书的ID,不拥有它们的生命周期
// ReturnDate为nil表示尚未归还
type Borrow struct {
	ID         int64
	UserID     int64
	BookID     int64
	BorrowDate time.Time
	ReturnDate *time.Time
}

// NewBorrow 创建借阅记录
func NewBorrow(userID, bookID int64, now time.Time) *Borrow {
	return &Borrow{
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: now,
	}
}

// IsOpen 是否未归还
func (b *Borrow) IsOpen() bool {
	return b.ReturnDate == nil
}

// MarkReturned 归还,只允许一次
func (b *Borrow) MarkReturned(now time.Time) error {
	if !b.IsOpen() {
		return ErrAlreadyReturned
	}
	b.ReturnDate = &now
	return nil
}

// HistoryItem 借阅历史条目(关联用户名和书名)
type HistoryItem struct {
	ID         int64
	UserID     int64
	UserName   string
	BookID     int64
	BookTitle  string
	BorrowDate time.Time
	ReturnDate *time.Time
}
