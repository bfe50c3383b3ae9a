package borrow

import (
	"context"
	"net/http"

	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
)

const (
	tracerName = "library/borrow"
	dateLayout = "2006-01-02"
)

// BookCache 图书详情缓存，借还书后图书状态变化，需要删除
type BookCache interface {
	Delete(ctx context.Context, id int64) error
}

// Actor 当前登录用户，从JWT中提取
type Actor struct {
	UserID int64
	Role   user.Role
}

// IsAdmin 是否管理员
func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// CanActFor member只能操作自己的借阅，admin不受限
func (a Actor) CanActFor(userID int64) bool {
	return a.IsAdmin() || a.UserID == userID
}

// BorrowInfo 借阅记录DTO
type BorrowInfo struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	BookID     int64   `json:"book_id"`
	BorrowDate string  `json:"borrow_date"`
	ReturnDate *string `json:"return_date"`
}

func toBorrowInfo(b *borrow.Borrow) *BorrowInfo {
	info := &BorrowInfo{
		ID:         b.ID,
		UserID:     b.UserID,
		BookID:     b.BookID,
		BorrowDate: b.BorrowDate.Format(dateLayout),
	}
	if b.ReturnDate != nil {
		s := b.ReturnDate.Format(dateLayout)
		info.ReturnDate = &s
	}
	return info
}

// resultLabel 错误 → 指标result标签
func resultLabel(err error) string {
	if err == nil {
		return metrics.ResultSuccess
	}
	switch apperrors.GetAppError(err).HTTPStatus() {
	case http.StatusNotFound:
		return metrics.ResultNotFound
	case http.StatusConflict:
		return metrics.ResultConflict
	case http.StatusBadRequest, http.StatusForbidden:
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
