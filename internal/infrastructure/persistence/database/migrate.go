package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/xiebiao/library/pkg/logger"
)

// uniqueIndex 只对部分行生效的唯一索引
//   - 同一本书最多一条未归还的借阅记录
//   - 在库图书的ISBN唯一
//   - 在册用户的邮箱唯一
//
// postgres/sqlite使用部分索引(WHERE子句);
// MySQL 8没有部分索引,用函数索引代替:CASE不满足条件时为NULL,唯一索引允许多个NULL
type uniqueIndex struct {
	name      string
	table     string
	column    string
	condition string
}

var uniqueIndexes = []uniqueIndex{
	{"uniq_borrows_open_book", "borrows", "book_id", "return_date IS NULL"},
	{"uniq_books_active_isbn", "books", "isbn", "deletion_status = 'active'"},
	{"uniq_users_active_email", "users", "email", "deletion_status = 'active'"},
}

// Migrate 建表并创建索引,可重复执行
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserModel{}, &BookModel{}, &BorrowModel{}); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	for _, idx := range uniqueIndexes {
		if err := createUniqueIndex(db, idx); err != nil {
			return fmt.Errorf("创建索引%s失败: %w", idx.name, err)
		}
	}

	log := logger.Get()
	log.Info().Str("dialect", db.Dialector.Name()).Msg("数据库迁移完成")
	return nil
}

func createUniqueIndex(db *gorm.DB, idx uniqueIndex) error {
	switch db.Dialector.Name() {
	case "mysql":
		if db.Migrator().HasIndex(idx.table, idx.name) {
			return nil
		}
		return db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX %s ON %s ((CASE WHEN %s THEN %s END))",
			idx.name, idx.table, idx.condition, idx.column,
		)).Error
	default:
		return db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s) WHERE %s",
			idx.name, idx.table, idx.column, idx.condition,
		)).Error
	}
}
