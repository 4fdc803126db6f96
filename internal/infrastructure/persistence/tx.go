package persistence

import (
	"context"

	"github.com/joyeria/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txContextKey struct{}

// GormTxManager implements shared.TxManager on GORM. The transaction
// handle travels in the context so repositories join it transparently.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// WithinTx runs fn inside a single database transaction. Nested calls
// join the transaction already carried by the context.
func (m *GormTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

var _ shared.TxManager = (*GormTxManager)(nil)

// txFromContext returns the transaction carried by the context, if any
func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbFrom resolves the database handle for a repository call: the
// context's transaction when inside WithinTx, the base handle otherwise.
func dbFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}
