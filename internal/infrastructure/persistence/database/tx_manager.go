package database

import (
	"context"

	"gorm.io/gorm"
)

// TxManager 事务管理器
// 通过context传递事务DB,Repository的getDB从context取出
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn内的所有Repository操作都在同一事务中,fn返回error时回滚,返回nil时提交
// ctx中已有事务时复用外层事务(GORM使用Savepoint)
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := bookRepo.MarkBorrowed(ctx, bookID); err != nil {
//	        return err
//	    }
//	    return borrowRepo.Create(ctx, record)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return getDB(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
