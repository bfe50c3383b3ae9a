package borrow

import (
	"context"

	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/pkg/logger"
)

// BorrowedBookLister 列出status=borrowed的图书ID，book.Repository满足此接口
type BorrowedBookLister interface {
	ListBorrowedIDs(ctx context.Context) ([]int64, error)
}

// VerifyUseCase 检查图书状态与未归还记录是否一致
// 正常情况下结果为空；非空说明数据被绕过借阅流程修改过
type VerifyUseCase struct {
	borrows borrow.Repository
	books   BorrowedBookLister
}

// NewVerifyUseCase 创建一致性检查用例
func NewVerifyUseCase(borrows borrow.Repository, books BorrowedBookLister) *VerifyUseCase {
	return &VerifyUseCase{borrows: borrows, books: books}
}

// Execute 执行检查
func (uc *VerifyUseCase) Execute(ctx context.Context) ([]borrow.Mismatch, error) {
	open, err := uc.borrows.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	borrowed, err := uc.books.ListBorrowedIDs(ctx)
	if err != nil {
		return nil, err
	}

	mismatches := borrow.CheckConsistency(open, borrowed)

	log := logger.Get()
	for _, m := range mismatches {
		log.Warn().
			Int64("book_id", m.BookID).
			Bool("borrowed", m.Borrowed).
			Ints64("open_borrows", m.OpenBorrows).
			Msg("图书状态与借阅记录不一致")
	}
	log.Info().Int("open_borrows", len(open)).Int("borrowed_books", len(borrowed)).
		Int("mismatches", len(mismatches)).Msg("一致性检查完成")
	return mismatches, nil
}
