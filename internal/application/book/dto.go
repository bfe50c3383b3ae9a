package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

const timeLayout = "2006-01-02 15:04:05"

// Cache 图书详情缓存，redis.CacheStore和redis.NopCache满足此接口
type Cache interface {
	Get(ctx context.Context, id int64, dest interface{}) (bool, error)
	Set(ctx context.Context, id int64, value interface{}) error
	Delete(ctx context.Context, id int64) error
}

// BookInfo 图书信息DTO，同时是缓存的存储格式
type BookInfo struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	PublishedDate string `json:"published_date"` // YYYY-MM-DD
	Status        string `json:"status"`         // available | borrowed
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toBookInfo(b *book.Book) *BookInfo {
	return &BookInfo{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate.Format(book.DateLayout),
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt.Format(timeLayout),
		UpdatedAt:     b.UpdatedAt.Format(timeLayout),
	}
}
