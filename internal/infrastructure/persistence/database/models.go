package database

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/user"
)

// 数据模型(带GORM tag),与domain实体分离,由Repository负责转换
// 唯一性约束是部分唯一索引,在Migrate中创建,不写在tag里

// UserModel 用户表
type UserModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Name           string    `gorm:"size:50;not null"`
	Email          string    `gorm:"size:100;not null;index"`
	PasswordHash   string    `gorm:"column:password;size:255;not null"`
	Role           string    `gorm:"size:16;not null;default:member"`
	DeletionStatus string    `gorm:"size:16;not null;default:active;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// BookModel 图书表
type BookModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Title          string    `gorm:"size:200;not null;index:idx_books_search"`
	Author         string    `gorm:"size:100;not null;index:idx_books_search"`
	ISBN           string    `gorm:"column:isbn;size:13;not null;index"`
	PublishedDate  time.Time `gorm:"type:date;not null"`
	Status         string    `gorm:"size:16;not null;default:available;index"`
	DeletionStatus string    `gorm:"size:16;not null;default:active;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (BookModel) TableName() string {
	return "books"
}

// BorrowModel 借阅记录表,return_date为NULL表示未归还
type BorrowModel struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	UserID     int64      `gorm:"not null;index"`
	BookID     int64      `gorm:"not null;index"`
	BorrowDate time.Time  `gorm:"not null;index"`
	ReturnDate *time.Time `gorm:"index"`
}

func (BorrowModel) TableName() string {
	return "borrows"
}

// =========================================
// 模型转换
// =========================================

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		DeletionStatus: string(u.DeletionStatus),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Role:           user.Role(m.Role),
		DeletionStatus: user.DeletionStatus(m.DeletionStatus),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:             b.ID,
		Title:          b.Title,
		Author:         b.Author,
		ISBN:           b.ISBN,
		PublishedDate:  b.PublishedDate,
		Status:         string(b.Status),
		DeletionStatus: string(b.DeletionStatus),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:             m.ID,
		Title:          m.Title,
		Author:         m.Author,
		ISBN:           m.ISBN,
		PublishedDate:  m.PublishedDate,
		Status:         book.Status(m.Status),
		DeletionStatus: book.DeletionStatus(m.DeletionStatus),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toBorrowEntity(m *BorrowModel) *borrow.Borrow {
	return &borrow.Borrow{
		ID:         m.ID,
		UserID:     m.UserID,
		BookID:     m.BookID,
		BorrowDate: m.BorrowDate,
		ReturnDate: m.ReturnDate,
	}
}
