package borrow

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// ReturnBookUseCase 还书用例
// member只能归还自己的借阅；重复归还返回冲突
type ReturnBookUseCase struct {
	workflow  borrow.Workflow
	borrows   borrow.Repository
	publisher messaging.EventPublisher
	evictor   bookEvictor
}

// NewReturnBookUseCase 创建还书用例
func NewReturnBookUseCase(
	workflow borrow.Workflow,
	borrows borrow.Repository,
	publisher messaging.EventPublisher,
	cache BookCache,
) *ReturnBookUseCase {
	return &ReturnBookUseCase{
		workflow:  workflow,
		borrows:   borrows,
		publisher: publisher,
		evictor:   newBookEvictor(cache),
	}
}

// ReturnBookRequest 还书请求
type ReturnBookRequest struct {
	Actor    Actor
	BorrowID int64
}

// Execute 执行还书
func (uc *ReturnBookUseCase) Execute(ctx context.Context, req ReturnBookRequest) (*BorrowInfo, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReturnBook")
	defer span.End()
	span.SetAttributes(attribute.Int64("borrow.id", req.BorrowID))

	start := time.Now()
	record, err := uc.returnBook(ctx, req)
	metrics.RecordReturn(resultLabel(err), time.Since(start).Seconds())
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	uc.evictor.evict(ctx, record.BookID)
	uc.publisher.Publish(ctx, messaging.NewBorrowReturned(record))

	log := logger.Get()
	log.Info().
		Int64("borrow_id", record.ID).
		Int64("book_id", record.BookID).
		Str("trace_id", tracing.ExtractTraceID(ctx)).
		Msg("还书成功")
	return toBorrowInfo(record), nil
}

func (uc *ReturnBookUseCase) returnBook(ctx context.Context, req ReturnBookRequest) (*borrow.Borrow, error) {
	if req.BorrowID <= 0 {
		return nil, apperrors.ErrInvalidID
	}
	if !req.Actor.IsAdmin() {
		// member需要先确认借阅记录属于自己
		existing, err := uc.borrows.FindByID(ctx, req.BorrowID)
		if err != nil {
			return nil, err
		}
		if !req.Actor.CanActFor(existing.UserID) {
			return nil, apperrors.ErrForbidden
		}
	}
	return uc.workflow.Return(ctx, req.BorrowID)
}
