package book

import (
	"context"
	"strings"

	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 只返回在库（未删除）图书，支持关键词和借阅状态过滤
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索书名、作者、ISBN
	Status   string // available | borrowed，空表示全部
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	List     []*BookInfo
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询
// page默认1，pageSize默认20，最大100
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	params := book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  strings.TrimSpace(req.Keyword),
	}
	if req.Status != "" {
		status, err := book.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		params.Status = status
	}

	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]*BookInfo, len(books))
	for i, b := range books {
		list[i] = toBookInfo(b)
	}

	return &ListBooksResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
