package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/logger"
)

// CreateBookUseCase 图书上架用例
// 业务规则（书名、作者、ISBN格式）由领域实体校验，ISBN重复由数据库唯一索引发现
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建上架用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService}
}

// CreateBookRequest 上架请求
type CreateBookRequest struct {
	Title         string
	Author        string
	ISBN          string
	PublishedDate string // YYYY-MM-DD
}

// Execute 执行上架
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookInfo, error) {
	publishedDate, err := book.ParsePublishedDate(req.PublishedDate)
	if err != nil {
		return nil, err
	}

	b, err := uc.bookService.CreateBook(ctx, req.Title, req.Author, req.ISBN, publishedDate)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	log.Info().Int64("book_id", b.ID).Str("isbn", b.ISBN).Msg("图书已上架")
	return toBookInfo(b), nil
}
