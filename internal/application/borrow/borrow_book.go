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

// BorrowBookUseCase 借书用例
// 1. 权限：member只能为自己借书
// 2. 借书流程（事务 + 条件更新）由领域Workflow完成
// 3. 提交后删除图书缓存并发布borrow.created事件
type BorrowBookUseCase struct {
	workflow  borrow.Workflow
	publisher messaging.EventPublisher
	evictor   bookEvictor
}

// NewBorrowBookUseCase 创建借书用例
func NewBorrowBookUseCase(workflow borrow.Workflow, publisher messaging.EventPublisher, cache BookCache) *BorrowBookUseCase {
	return &BorrowBookUseCase{
		workflow:  workflow,
		publisher: publisher,
		evictor:   newBookEvictor(cache),
	}
}

// BorrowBookRequest 借书请求
type BorrowBookRequest struct {
	Actor  Actor
	UserID int64
	BookID int64
}

// Execute 执行借书
func (uc *BorrowBookUseCase) Execute(ctx context.Context, req BorrowBookRequest) (*BorrowInfo, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BorrowBook")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user.id", req.UserID),
		attribute.Int64("book.id", req.BookID),
	)

	start := time.Now()
	record, err := uc.borrow(ctx, req)
	metrics.RecordBorrow(resultLabel(err), time.Since(start).Seconds())
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("borrow.id", record.ID))

	uc.evictor.evict(ctx, record.BookID)
	uc.publisher.Publish(ctx, messaging.NewBorrowCreated(record))

	log := logger.Get()
	log.Info().
		Int64("borrow_id", record.ID).
		Int64("user_id", record.UserID).
		Int64("book_id", record.BookID).
		Str("trace_id", tracing.ExtractTraceID(ctx)).
		Msg("借书成功")
	return toBorrowInfo(record), nil
}

func (uc *BorrowBookUseCase) borrow(ctx context.Context, req BorrowBookRequest) (*borrow.Borrow, error) {
	if req.UserID > 0 && !req.Actor.CanActFor(req.UserID) {
		return nil, apperrors.ErrForbidden
	}
	return uc.workflow.Borrow(ctx, req.UserID, req.BookID)
}
