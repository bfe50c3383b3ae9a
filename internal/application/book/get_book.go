package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/logger"
)

// GetBookUseCase 图书详情（Cache-Aside）
// Redis故障时直接查库，不影响读取
type GetBookUseCase struct {
	bookService book.Service
	cache       Cache
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service, cache Cache) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, cache: cache}
}

// Execute 查询图书详情
func (uc *GetBookUseCase) Execute(ctx context.Context, id int64) (*BookInfo, error) {
	if err := book.ValidateID(id); err != nil {
		return nil, err
	}

	log := logger.Get()

	var cached BookInfo
	hit, err := uc.cache.Get(ctx, id, &cached)
	if err != nil {
		log.Warn().Err(err).Int64("book_id", id).Msg("读取图书缓存失败")
	}
	if hit {
		return &cached, nil
	}

	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	info := toBookInfo(b)
	if err := uc.cache.Set(ctx, id, info); err != nil {
		log.Warn().Err(err).Int64("book_id", id).Msg("写入图书缓存失败")
	}
	return info, nil
}
