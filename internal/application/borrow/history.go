package borrow

import (
	"context"

	"github.com/xiebiao/library/internal/domain/borrow"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/tracing"
)

// HistoryUseCase 借阅历史
// member只能看自己的记录，admin可按user_id过滤或查看全部
type HistoryUseCase struct {
	borrows borrow.Repository
}

// NewHistoryUseCase 创建历史查询用例
func NewHistoryUseCase(borrows borrow.Repository) *HistoryUseCase {
	return &HistoryUseCase{borrows: borrows}
}

// HistoryRequest 历史查询请求
type HistoryRequest struct {
	Actor    Actor
	UserID   int64 // 0表示不过滤
	OpenOnly bool  // 只看未归还
	Page     int
	PageSize int
}

// HistoryItem 历史记录DTO，日期为YYYY-MM-DD，未归还时return_date为null
type HistoryItem struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	UserName   string  `json:"user_name"`
	BookID     int64   `json:"book_id"`
	BookTitle  string  `json:"book_title"`
	BorrowDate string  `json:"borrow_date"`
	ReturnDate *string `json:"return_date"`
}

// HistoryResponse 历史查询响应
type HistoryResponse struct {
	List     []*HistoryItem
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行查询
func (uc *HistoryUseCase) Execute(ctx context.Context, req HistoryRequest) (*HistoryResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BorrowHistory")
	defer span.End()

	if req.UserID < 0 {
		return nil, apperrors.ErrInvalidID
	}
	if !req.Actor.IsAdmin() {
		if req.UserID != 0 && req.UserID != req.Actor.UserID {
			return nil, apperrors.ErrForbidden
		}
		req.UserID = req.Actor.UserID
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	items, total, err := uc.borrows.History(ctx, borrow.HistoryParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		UserID:   req.UserID,
		OpenOnly: req.OpenOnly,
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	list := make([]*HistoryItem, len(items))
	for i, it := range items {
		list[i] = &HistoryItem{
			ID:         it.ID,
			UserID:     it.UserID,
			UserName:   it.UserName,
			BookID:     it.BookID,
			BookTitle:  it.BookTitle,
			BorrowDate: it.BorrowDate.Format(dateLayout),
		}
		if it.ReturnDate != nil {
			s := it.ReturnDate.Format(dateLayout)
			list[i].ReturnDate = &s
		}
	}

	return &HistoryResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
