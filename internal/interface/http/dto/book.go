package dto

import appbook "github.com/xiebiao/library/internal/application/book"

// CreateBookRequest HTTP新增图书请求
// validator tag说明:
// - isbn: 10位或13位数字(在pkg/validator中注册)
// - date: YYYY-MM-DD
type CreateBookRequest struct {
	Title         string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author        string `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	ISBN          string `json:"isbn" binding:"required,isbn" example:"9787115428028"`
	PublishedDate string `json:"published_date" binding:"required,date" example:"2017-01-01"`
}

// UpdateBookRequest 部分更新，未传的字段保持不变
type UpdateBookRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1,max=200" example:"Go语言实战(第2版)"`
	Author        *string `json:"author" binding:"omitempty,min=1,max=100"`
	ISBN          *string `json:"isbn" binding:"omitempty,isbn"`
	PublishedDate *string `json:"published_date" binding:"omitempty,date"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	Status   string `form:"status" binding:"omitempty,max=20" example:"available"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID            int64  `json:"id" example:"1"`
	Title         string `json:"title" example:"Go语言实战"`
	Author        string `json:"author" example:"威廉·肯尼迪"`
	ISBN          string `json:"isbn" example:"9787115428028"`
	PublishedDate string `json:"published_date" example:"2017-01-01"`
	Status        string `json:"status" example:"available"`
	CreatedAt     string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt     string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// ToBookResponse 应用层DTO → HTTP响应
func ToBookResponse(b *appbook.BookInfo) *BookResponse {
	return &BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// ToBookResponses 列表转换
func ToBookResponses(list []*appbook.BookInfo) []*BookResponse {
	out := make([]*BookResponse, len(list))
	for i, b := range list {
		out[i] = ToBookResponse(b)
	}
	return out
}
