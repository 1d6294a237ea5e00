package gorm

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

type txContextKey struct{}

// TransactionManager runs units of work inside a database transaction.
// The open transaction rides in the context so repositories called
// within fn share it.
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *gorm.DB) outbound.TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction executes fn in one transaction, committing on nil
// and rolling back on error
func (m *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext returns the transaction bound to ctx, or the base
// handle when none is open
func dbFromContext(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return base.WithContext(ctx)
}

// translateError maps driver failures onto the application error codes
func translateError(err error, operation, resource string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.NewNotFoundError(resource)
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.NewIntegrityConflictError(resource, err)
	default:
		return errors.NewDatabaseError(operation, err)
	}
}
