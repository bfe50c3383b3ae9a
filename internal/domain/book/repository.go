package book

import (
	"context"
)

// Repository 图书仓储接口
// 所有查询只返回在库(deletion_status=active)的图书
type Repository interface {
	// Create 创建图书,ISBN与在库图书重复时返回ErrISBNDuplicate
	Create(ctx context.Context, book *Book) error

	// FindActiveByID 不存在或已删除时返回ErrBookNotFound
	FindActiveByID(ctx context.Context, id int64) (*Book, error)

	// Update 更新书名、作者、ISBN、出版日期,不修改Status
	Update(ctx context.Context, book *Book) error

	// SoftDelete 软删除,借出中的图书返回ErrBookInUse
	SoftDelete(ctx context.Context, id int64) error

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// MarkBorrowed 原子地把available改为borrowed
	// 已借出返回ErrBookBorrowed,不存在返回ErrBookNotFound
	MarkBorrowed(ctx context.Context, id int64) error

	// MarkAvailable 把borrowed改回available,图书已是available时不报错
	// 图书行不存在返回ErrBookNotFound;已软删除的图书同样会被更新
	MarkAvailable(ctx context.Context, id int64) error

	// ListBorrowedIDs 所有status=borrowed的图书ID(含已删除),用于一致性检查
	ListBorrowedIDs(ctx context.Context) ([]int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索书名、作者、ISBN
	Status   Status // 为空表示不过滤
}
