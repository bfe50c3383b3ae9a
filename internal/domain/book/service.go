package book

import (
	"context"
	"time"
)

// Service 图书领域服务接口
// ISBN唯一性只在持久化时由数据库索引保证,这里不做预查询
type Service interface {
	// CreateBook 上架新书
	CreateBook(ctx context.Context, title, author, isbn string, publishedDate time.Time) (*Book, error)

	// GetBook 获取在库图书
	GetBook(ctx context.Context, id int64) (*Book, error)

	// UpdateBook 部分更新图书信息
	UpdateBook(ctx context.Context, id int64, params UpdateParams) (*Book, error)

	// DeleteBook 软删除图书
	DeleteBook(ctx context.Context, id int64) error

	// ListBooks 分页查询在库图书
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateBook(ctx context.Context, title, author, isbn string, publishedDate time.Time) (*Book, error) {
	book, err := NewBook(title, author, isbn, publishedDate)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) GetBook(ctx context.Context, id int64) (*Book, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return s.repo.FindActiveByID(ctx, id)
}

func (s *service) UpdateBook(ctx context.Context, id int64, params UpdateParams) (*Book, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	book, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := book.Apply(params); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) DeleteBook(ctx context.Context, id int64) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.repo.List(ctx, params)
}
