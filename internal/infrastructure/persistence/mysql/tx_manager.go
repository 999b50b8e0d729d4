package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey context中事务DB的键
type txKey struct{}

// TxManager 事务管理器
// 设计说明:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 支持嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn内的所有Repository操作都会在同一事务中执行；
// fn返回error时自动ROLLBACK，返回nil时自动COMMIT
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    // 1. 账本释放（FOR UPDATE锁内完成）
//	    ok, err := invRepo.Release(ctx, productID, locationID, qty)
//	    if err != nil || !ok {
//	        return ... // 自动回滚
//	    }
//	    // 2. 迁移预留状态
//	    return resRepo.MarkReleased(ctx, reservationID) // nil则提交
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 将事务DB注入到Context中，Repository的getDB会提取它
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// getDB 提取当前DB句柄
// context中带有事务DB时返回事务，否则返回普通连接
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
