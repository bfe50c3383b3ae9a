package dto

// BorrowRequest 借书请求，字段名沿用客户端约定的userid/bookid
type BorrowRequest struct {
	UserID int64 `json:"userid" binding:"required,gt=0" example:"1"`
	BookID int64 `json:"bookid" binding:"required,gt=0" example:"1"`
}

// HistoryRequest 借阅历史查询
type HistoryRequest struct {
	Page     int   `form:"page" binding:"omitempty,min=1"`
	PageSize int   `form:"page_size" binding:"omitempty,min=1,max=100"`
	UserID   int64 `form:"user_id" binding:"omitempty,gt=0"`
	Open     bool  `form:"open"` // true只看未归还
}

// BorrowResponse 借书成功
type BorrowResponse struct {
	ID         int64  `json:"id" example:"1"`
	UserID     int64  `json:"user_id" example:"1"`
	BookID     int64  `json:"book_id" example:"1"`
	BorrowDate string `json:"borrow_date" example:"2024-01-15"`
}

// ReturnResponse 还书成功
type ReturnResponse struct {
	ID         int64  `json:"id" example:"1"`
	ReturnDate string `json:"return_date" example:"2024-01-20"`
}

// HistoryItemResponse 借阅历史条目，未归还时return_date为null
type HistoryItemResponse struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	UserName   string  `json:"user_name"`
	BookID     int64   `json:"book_id"`
	BookTitle  string  `json:"book_title"`
	BorrowDate string  `json:"borrow_date" example:"2024-01-15"`
	ReturnDate *string `json:"return_date" example:"2024-01-20"`
}
