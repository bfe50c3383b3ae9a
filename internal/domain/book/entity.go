package book

import (
	"strings"
	"time"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// DateLayout 出版日期格式(只有日期,没有时间)
const DateLayout = "2006-01-02"

// Status 图书可借状态
type Status string

const (
	StatusAvailable Status = "available"
	StatusBorrowed  Status = "borrowed"
)

// ParseStatus 把外部输入转换为Status,未知取值返回参数错误
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusAvailable:
		return StatusAvailable, nil
	case StatusBorrowed:
		return StatusBorrowed, nil
	default:
		return "", ErrInvalidStatus
	}
}

// DeletionStatus 软删除状态
// 与Status相互独立:已删除的图书不会再出现在查询中,但借阅状态保持不变
type DeletionStatus string

const (
	DeletionActive  DeletionStatus = "active"
	DeletionDeleted DeletionStatus = "deleted"
)

// Book 图书实体(聚合根)
// Status只由借阅流程修改,普通的信息更新不会写这个字段
type Book struct {
	ID             int64
	Title          string
	Author         string
	ISBN           string
	PublishedDate  time.Time
	Status         Status
	DeletionStatus DeletionStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBook 创建新图书(工厂方法),新书默认可借
func NewBook(title, author, isbn string, publishedDate time.Time) (*Book, error) {
	b := &Book{
		Title:          strings.TrimSpace(title),
		Author:         strings.TrimSpace(author),
		ISBN:           strings.TrimSpace(isbn),
		PublishedDate:  truncateDate(publishedDate),
		Status:         StatusAvailable,
		DeletionStatus: DeletionActive,
	}
	if err := b.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	return b, nil
}

// UpdateParams 部分更新参数,nil表示不修改
type UpdateParams struct {
	Title         *string
	Author        *string
	ISBN          *string
	PublishedDate *time.Time
}

// Apply 应用部分更新,校验失败时图书保持原样
func (b *Book) Apply(p UpdateParams) error {
	next := *b
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		next.Author = strings.TrimSpace(*p.Author)
	}
	if p.ISBN != nil {
		next.ISBN = strings.TrimSpace(*p.ISBN)
	}
	if p.PublishedDate != nil {
		next.PublishedDate = truncateDate(*p.PublishedDate)
	}
	if err := next.validate(); err != nil {
		return err
	}

	next.UpdatedAt = time.Now()
	*b = next
	return nil
}

// IsAvailable 是否可借
func (b *Book) IsAvailable() bool {
	return b.Status == StatusAvailable
}

// IsDeleted 是否已软删除
func (b *Book) IsDeleted() bool {
	return b.DeletionStatus == DeletionDeleted
}

func (b *Book) validate() error {
	if b.Title == "" {
		return ErrEmptyTitle
	}
	if b.Author == "" {
		return ErrEmptyAuthor
	}
	if !IsValidISBN(b.ISBN) {
		return ErrInvalidISBN
	}
	if b.PublishedDate.IsZero() {
		return ErrInvalidPublishedDate
	}
	return nil
}

// IsValidISBN ISBN必须是10位或13位数字
func IsValidISBN(isbn string) bool {
	if len(isbn) != 10 && len(isbn) != 13 {
		return false
	}
	for _, r := range isbn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParsePublishedDate 解析YYYY-MM-DD格式的出版日期
func ParsePublishedDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidPublishedDate
	}
	return t, nil
}

func truncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateID 校验ID为正整数
func ValidateID(id int64) error {
	if id <= 0 {
		return apperrors.ErrInvalidID
	}
	return nil
}
