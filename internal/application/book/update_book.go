package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/logger"
)

// UpdateBookUseCase 修改图书信息，成功后删除详情缓存
type UpdateBookUseCase struct {
	bookService book.Service
	cache       Cache
}

// NewUpdateBookUseCase 创建修改用例
func NewUpdateBookUseCase(bookService book.Service, cache Cache) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, cache: cache}
}

// UpdateBookRequest 部分更新请求，nil表示不修改
type UpdateBookRequest struct {
	ID            int64
	Title         *string
	Author        *string
	ISBN          *string
	PublishedDate *string
}

// Execute 执行修改
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookInfo, error) {
	params := book.UpdateParams{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	}
	if req.PublishedDate != nil {
		date, err := book.ParsePublishedDate(*req.PublishedDate)
		if err != nil {
			return nil, err
		}
		params.PublishedDate = &date
	}

	b, err := uc.bookService.UpdateBook(ctx, req.ID, params)
	if err != nil {
		return nil, err
	}

	evictBook(ctx, uc.cache, b.ID)
	return toBookInfo(b), nil
}

// DeleteBookUseCase 下架（软删除）图书，借出中的图书不能删除
type DeleteBookUseCase struct {
	bookService book.Service
	cache       Cache
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, cache Cache) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService, cache: cache}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id int64) error {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}

	evictBook(ctx, uc.cache, id)

	log := logger.Get()
	log.Info().Int64("book_id", id).Msg("图书已下架")
	return nil
}

// evictBook 删除缓存失败只记录日志，缓存会在TTL后过期
func evictBook(ctx context.Context, cache Cache, id int64) {
	if err := cache.Delete(ctx, id); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Int64("book_id", id).Msg("删除图书缓存失败")
	}
}
