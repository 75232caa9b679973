package salary

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *SalaryStructure) error
	FindAll(ctx context.Context) ([]SalaryStructure, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (*SalaryStructure, error)
	Update(ctx context.Context, s *SalaryStructure) error
	DeleteByEmployeeID(ctx context.Context, employeeID string) (int64, error)
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

func (r *repository) Create(ctx context.Context, s *SalaryStructure) error {
	return r.conn(ctx).Omit("Employee").Create(s).Error
}

func (r *repository) FindAll(ctx context.Context) ([]SalaryStructure, error) {
	var rows []SalaryStructure
	err := r.conn(ctx).
		Joins("Employee").
		Order(`"Employee".first_name ASC, "Employee".last_name ASC`).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployeeID(ctx context.Context, employeeID string) (*SalaryStructure, error) {
	var s SalaryStructure
	q := r.conn(ctx)
	if r.tx != nil {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}})
	}
	err := q.Joins("Employee").
		Where("salary_structures.employee_id = ?", employeeID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *SalaryStructure) error {
	return r.conn(ctx).Omit("Employee").Save(s).Error
}

func (r *repository) DeleteByEmployeeID(ctx context.Context, employeeID string) (int64, error) {
	res := r.conn(ctx).Where("employee_id = ?", employeeID).Delete(&SalaryStructure{})
	return res.RowsAffected, res.Error
}
