package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
	Status     string
	Offset     int
	Limit      int
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	// FindByEmployeeAndDate locks the row when called inside a transaction.
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Attendance, int64, error)
	CountByStatus(ctx context.Context, filter ListFilter) (map[string]int64, error)
	Update(ctx context.Context, a *Attendance) error
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	q := r.conn(ctx)
	if r.tx != nil {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) filtered(ctx context.Context, filter ListFilter) *gorm.DB {
	q := r.conn(ctx).Model(&Attendance{})
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.From != nil {
		q = q.Where("attendance_date >= ?", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		q = q.Where("attendance_date <= ?", filter.To.Format("2006-01-02"))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	return q
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Attendance, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Attendance
	err := r.filtered(ctx, filter).
		Preload("Employee").
		Order("attendance_date DESC, check_in DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) CountByStatus(ctx context.Context, filter ListFilter) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	// the status filter is dropped so the summary always covers every bucket
	filter.Status = ""
	err := r.filtered(ctx, filter).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Omit("Employee").Save(a).Error
}
