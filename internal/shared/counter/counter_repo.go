package counter

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, counterKey string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

// GetNextValue atomically increments the named counter, creating it at 1.
func (r *repository) GetNextValue(ctx context.Context, counterKey string) (int64, error) {
	var nextValue int64

	err := r.conn(ctx).Raw(`
		INSERT INTO counters (counter_key, last_value, updated_at)
		VALUES (?, 1, now())
		ON CONFLICT (counter_key) DO UPDATE
		SET last_value = counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, counterKey).Scan(&nextValue).Error
	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
