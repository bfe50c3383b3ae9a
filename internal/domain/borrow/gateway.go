package borrow

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
)

// BookGateway 借阅流程对图书的依赖,book.Repository满足此接口
type BookGateway interface {
	FindActiveByID(ctx context.Context, id int64) (*book.Book, error)
	MarkBorrowed(ctx context.Context, id int64) error
	MarkAvailable(ctx context.Context, id int64) error
}

// UserGateway 借阅流程对用户的依赖,user.Repository满足此接口
type UserGateway interface {
	FindActiveByID(ctx context.Context, id int64) (*user.User, error)
}

// Transactor 事务执行器
// fn内通过ctx使用的仓储操作处于同一事务,fn返回错误时回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
