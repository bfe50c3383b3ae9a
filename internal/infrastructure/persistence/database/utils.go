package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// txKey 事务DB在context中的键
type txKey struct{}

// getDB 从context获取事务DB,没有事务时使用默认DB
// 事务内的所有查询都必须走这里,sqlite单连接时否则会死锁
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// isDuplicateError 判断是否为唯一索引冲突
// TranslateError开启后驱动错误会转换为gorm.ErrDuplicatedKey,字符串匹配作为兜底:
//   - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
//   - sqlite: UNIQUE constraint failed
//   - postgres 23505: duplicate key value violates unique constraint
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// dbError 包装数据库错误
func dbError(err error, message string) error {
	return apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, message)
}

func pageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
