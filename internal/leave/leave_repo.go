package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter is the resolved query the service hands to the repository.
// EmployeeID is always set for non-privileged callers.
type ListFilter struct {
	EmployeeID string
	Status     string
	LeaveType  string
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Leave, int64, error)
	FindPending(ctx context.Context) ([]Leave, error)
	// Decide performs the pending -> terminal transition and returns the
	// number of rows it changed; zero means the request was no longer pending.
	Decide(ctx context.Context, id string, d Decision) (int64, error)
	Delete(ctx context.Context, id string, onlyPending bool) (int64, error)

	FindEmployeeByUserID(ctx context.Context, userID string) (*EmployeeRef, error)
	FindEmployeeByID(ctx context.Context, id string) (*EmployeeRef, error)
	LockEmployee(ctx context.Context, id string) (*EmployeeRef, error)
	UpdateBalance(ctx context.Context, employeeID string, b Balance) error
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

// conn routes statements through the bound transaction when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Leave, int64, error) {
	q := r.conn(ctx).Model(&Leave{})
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.LeaveType != "" {
		q = q.Where("leave_type = ?", filter.LeaveType)
	}
	if filter.From != nil {
		q = q.Where("start_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_date <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []Leave
	err := q.Order("applied_date DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&leaves).Error
	return leaves, total, err
}

func (r *repository) FindPending(ctx context.Context) ([]Leave, error) {
	var leaves []Leave
	err := r.conn(ctx).
		Where("status = ?", StatusPending).
		Order("applied_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) Decide(ctx context.Context, id string, d Decision) (int64, error) {
	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":        d.Status,
			"approved_by":   d.ApprovedBy,
			"approved_date": d.ApprovedDate,
			"comments":      d.Comments,
			"updated_at":    time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id string, onlyPending bool) (int64, error) {
	q := r.conn(ctx).Where("id = ?", id)
	if onlyPending {
		q = q.Where("status = ?", StatusPending)
	}
	res := q.Delete(&Leave{})
	return res.RowsAffected, res.Error
}

func (r *repository) FindEmployeeByUserID(ctx context.Context, userID string) (*EmployeeRef, error) {
	var e EmployeeRef
	err := r.conn(ctx).First(&e, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindEmployeeByID(ctx context.Context, id string) (*EmployeeRef, error) {
	var e EmployeeRef
	err := r.conn(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LockEmployee reads the employee with a row lock held until the
// surrounding transaction ends.
func (r *repository) LockEmployee(ctx context.Context, id string) (*EmployeeRef, error) {
	var e EmployeeRef
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) UpdateBalance(ctx context.Context, employeeID string, b Balance) error {
	return r.conn(ctx).
		Model(&EmployeeRef{}).
		Where("id = ?", employeeID).
		Updates(map[string]any{
			"paid_leave":   b.PaidLeave,
			"sick_leave":   b.SickLeave,
			"unpaid_leave": b.UnpaidLeave,
			"updated_at":   time.Now().UTC(),
		}).Error
}
