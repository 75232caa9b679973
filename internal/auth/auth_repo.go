package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, user *User) error
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.conn(ctx).Create(user).Error
}

// GetByIdentifier matches the login id exactly or the email case-insensitively.
func (r *repository) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	var user User
	identifier = strings.TrimSpace(identifier)
	err := r.conn(ctx).
		Where("login_id = ? OR LOWER(email) = ?", strings.ToUpper(identifier), strings.ToLower(identifier)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := r.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.conn(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password":                 hash,
			"password_change_required": false,
			"updated_at":               time.Now().UTC(),
		}).Error
}

func (r *repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.conn(ctx).
		Model(&User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&User{}, "id = ?", id).Error
}
