package database

import (
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect import
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/xiebiao/library/internal/domain/borrow"
)

var errBuildingQuery = errors.New("构建借阅历史查询失败")

// historyRow 借阅历史查询结果
type historyRow struct {
	ID         int64
	UserID     int64
	UserName   string
	BookID     int64
	BookTitle  string
	BorrowDate time.Time
	ReturnDate *time.Time
}

func (r *historyRow) toEntity() *borrow.HistoryItem {
	return &borrow.HistoryItem{
		ID:         r.ID,
		UserID:     r.UserID,
		UserName:   r.UserName,
		BookID:     r.BookID,
		BookTitle:  r.BookTitle,
		BorrowDate: r.BorrowDate,
		ReturnDate: r.ReturnDate,
	}
}

// goquDialect gorm方言名 → goqu方言名
func goquDialect(gormDialect string) string {
	if gormDialect == "sqlite" {
		return "sqlite3"
	}
	return gormDialect
}

// historyQuery 构建借阅历史的计数和分页查询
//
//	SELECT br.id, br.user_id, u.name AS user_name, br.book_id, b.title AS book_title, br.borrow_date, br.return_date
//	FROM borrows AS br
//	INNER JOIN users AS u ON (u.id = br.user_id)
//	INNER JOIN books AS b ON (b.id = br.book_id)
//	WHERE br.user_id = ? AND br.return_date IS NULL
//	ORDER BY br.borrow_date DESC, br.id DESC LIMIT ? OFFSET ?
//
// 已删除的用户和图书也会出现在历史中
func historyQuery(gormDialect string, params borrow.HistoryParams) (countSQL, listSQL string, err error) {
	base := goqu.Dialect(goquDialect(gormDialect)).
		From(goqu.T("borrows").As("br")).
		InnerJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("br.user_id")))).
		InnerJoin(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("br.book_id"))))

	var conds []exp.Expression
	if params.UserID > 0 {
		conds = append(conds, goqu.I("br.user_id").Eq(params.UserID))
	}
	if params.OpenOnly {
		conds = append(conds, goqu.I("br.return_date").IsNull())
	}
	if len(conds) > 0 {
		base = base.Where(conds...)
	}

	countSQL, _, err = base.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return "", "", errors.Join(errBuildingQuery, err)
	}

	listSQL, _, err = base.
		Select(
			goqu.I("br.id"),
			goqu.I("br.user_id"),
			goqu.I("u.name").As("user_name"),
			goqu.I("br.book_id"),
			goqu.I("b.title").As("book_title"),
			goqu.I("br.borrow_date"),
			goqu.I("br.return_date"),
		).
		Order(goqu.I("br.borrow_date").Desc(), goqu.I("br.id").Desc()).
		Limit(uint(params.PageSize)).
		Offset(uint(pageOffset(params.Page, params.PageSize))).
		ToSQL()
	if err != nil {
		return "", "", errors.Join(errBuildingQuery, err)
	}
	return countSQL, listSQL, nil
}
