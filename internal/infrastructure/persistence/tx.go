package persistence

import (
	"context"

	"github.com/procureflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txKey struct{}

// conn resolves the connection for a repository call. Inside a unit of work
// started by GormTransactionManager the ambient transaction is used, so every
// repository touched under the same context commits or rolls back together.
func conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// GormTransactionManager implements shared.TransactionManager on a GORM
// connection. Nested calls join the ambient transaction instead of opening
// a new one.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a transaction manager over the connection
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// WithinTransaction runs fn inside a database transaction. The transaction is
// carried on the context fn receives; repositories pick it up through conn.
func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

var _ shared.TransactionManager = (*GormTransactionManager)(nil)
