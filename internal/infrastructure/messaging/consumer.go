package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/mq"
)

// LogBorrowEvent 把收到的借阅事件写入日志，events命令使用
// 无法解析的消息返回mq.ErrDiscard，直接丢弃
func LogBorrowEvent(_ context.Context, d mq.Delivery) error {
	var event BorrowEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		return fmt.Errorf("%w: %v", mq.ErrDiscard, err)
	}
	if event.EventID == "" || event.BorrowID <= 0 {
		return fmt.Errorf("%w: 缺少event_id或borrow_id", mq.ErrDiscard)
	}

	log := logger.Get()
	log.Info().
		Str("event_id", event.EventID).
		Str("type", event.Type).
		Int64("borrow_id", event.BorrowID).
		Int64("user_id", event.UserID).
		Int64("book_id", event.BookID).
		Time("occurred_at", event.OccurredAt).
		Msg("收到借阅事件")
	return nil
}
