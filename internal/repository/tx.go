package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs a function inside one database transaction. Services depend
// on this instead of *gorm.DB directly so issuance logic stays testable.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	// WithinSavepoint runs fn under a savepoint on an already open
	// transaction. Postgres aborts the whole transaction after any failed
	// statement; rolling back to the savepoint keeps tx usable so the caller
	// can retry.
	WithinSavepoint(ctx context.Context, tx *gorm.DB, fn func(tx *gorm.DB) error) error
}

type GormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

func (m *GormTxManager) WithinSavepoint(ctx context.Context, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	// A nested gorm transaction issues SAVEPOINT / ROLLBACK TO SAVEPOINT.
	return tx.WithContext(ctx).Transaction(fn)
}
