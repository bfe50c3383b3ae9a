package messaging

import (
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/library/internal/domain/borrow"
)

// 借阅事件routing_key
const (
	RoutingKeyBorrowCreated  = "borrow.created"
	RoutingKeyBorrowReturned = "borrow.returned"
	// RoutingKeyBorrowAll 订阅全部借阅事件
	RoutingKeyBorrowAll = "borrow.*"
)

// BorrowEvent 借阅事件消息体，Type与routing_key相同
type BorrowEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	BorrowID   int64     `json:"borrow_id"`
	UserID     int64     `json:"user_id"`
	BookID     int64     `json:"book_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewBorrowCreated 借书成功事件
func NewBorrowCreated(b *borrow.Borrow) BorrowEvent {
	return newBorrowEvent(RoutingKeyBorrowCreated, b, b.BorrowDate)
}

// NewBorrowReturned 还书成功事件，b.ReturnDate必须已设置
func NewBorrowReturned(b *borrow.Borrow) BorrowEvent {
	at := time.Now()
	if b.ReturnDate != nil {
		at = *b.ReturnDate
	}
	return newBorrowEvent(RoutingKeyBorrowReturned, b, at)
}

func newBorrowEvent(eventType string, b *borrow.Borrow, at time.Time) BorrowEvent {
	return BorrowEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BorrowID:   b.ID,
		UserID:     b.UserID,
		BookID:     b.BookID,
		OccurredAt: at.UTC(),
	}
}
