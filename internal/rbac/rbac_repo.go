package rbac

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RolePermissionRow struct {
	Role     string `gorm:"primaryKey;type:varchar(20)"`
	Resource string `gorm:"primaryKey;type:varchar(50)"`
	Action   string `gorm:"primaryKey;type:varchar(50)"`
}

func (RolePermissionRow) TableName() string {
	return "role_permissions"
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	ListRolePermissions(ctx context.Context) ([]RolePermissionRow, error)
	SeedRolePermissions(ctx context.Context, rows []RolePermissionRow) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListRolePermissions(ctx context.Context) ([]RolePermissionRow, error) {
	var rows []RolePermissionRow
	err := r.db.WithContext(ctx).
		Order("role, resource, action").
		Find(&rows).Error
	return rows, err
}

func (r *repository) SeedRolePermissions(ctx context.Context, rows []RolePermissionRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}
