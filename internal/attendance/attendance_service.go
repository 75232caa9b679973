package attendance

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	attendanceerrors "dayflow/internal/attendance/errors"
	"dayflow/internal/identity"
	"dayflow/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, p identity.Principal, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, p identity.Principal, req CheckOutRequest) (AttendanceResponse, error)
	// Mark upserts a day for any employee and reports whether a new row was created.
	Mark(ctx context.Context, p identity.Principal, req MarkAttendanceRequest) (AttendanceResponse, bool, error)
	GetAll(ctx context.Context, p identity.Principal, q ListQuery) (ListResult, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) CheckIn(ctx context.Context, p identity.Principal, req CheckInRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	employeeID, err := uuid.Parse(p.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrNoEmployeeProfile
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID.String(), today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	switch {
	case row != nil && row.CheckIn != nil:
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	case row != nil:
		// a day pre-marked by hr becomes a regular check-in
		row.CheckIn = &now
		row.Status = StatusPresent
		if req.Remarks != nil {
			row.Remarks = req.Remarks
		}
		if err := qtx.Update(ctx, row); err != nil {
			return AttendanceResponse{}, mapRepositoryError(err)
		}
	default:
		row = &Attendance{
			ID:             uuid.New(),
			EmployeeID:     employeeID,
			AttendanceDate: today,
			Status:         StatusPresent,
			CheckIn:        &now,
			Remarks:        req.Remarks,
		}
		if err := qtx.Create(ctx, row); err != nil {
			return AttendanceResponse{}, mapRepositoryError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("check in commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	log.Info("checked in", zap.String("employee_id", employeeID.String()), zap.String("attendance_id", row.ID.String()))
	return mapToResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, p identity.Principal, req CheckOutRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(p.EmployeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrNoEmployeeProfile
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()

	row, err := qtx.FindByEmployeeAndDate(ctx, p.EmployeeID, now.Truncate(24*time.Hour))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNotCheckedIn
		}
		return AttendanceResponse{}, err
	}
	if row.CheckIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNotCheckedIn
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	row.CompleteCheckOut(now)
	if req.Remarks != nil {
		row.Remarks = req.Remarks
	}

	if err := qtx.Update(ctx, row); err != nil {
		log.Error("check out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("check out commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	log.Info("checked out",
		zap.String("employee_id", p.EmployeeID),
		zap.Float64("work_hours", *row.WorkHours),
		zap.String("status", row.Status),
	)
	return mapToResponse(*row), nil
}

func (s *service) Mark(ctx context.Context, p identity.Principal, req MarkAttendanceRequest) (AttendanceResponse, bool, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if !p.IsPrivileged() {
		return AttendanceResponse{}, false, attendanceerrors.ErrForbidden
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, false, attendanceerrors.ErrInvalidEmployeeID
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, false, err
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !ValidStatus(status) {
		return AttendanceResponse{}, false, attendanceerrors.ErrInvalidStatus
	}
	markedBy, err := uuid.Parse(p.UserID)
	if err != nil {
		return AttendanceResponse{}, false, attendanceerrors.ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID.String(), date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, false, err
	}

	created := row == nil
	if created {
		row = &Attendance{
			ID:             uuid.New(),
			EmployeeID:     employeeID,
			AttendanceDate: date,
		}
	}
	row.Status = status
	row.Remarks = req.Remarks
	row.MarkedBy = &markedBy

	if created {
		err = qtx.Create(ctx, row)
	} else {
		err = qtx.Update(ctx, row)
	}
	if err != nil {
		log.Warn("mark attendance persist failed", zap.Error(err))
		return AttendanceResponse{}, false, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, false, err
	}

	log.Info("attendance marked",
		zap.String("employee_id", employeeID.String()),
		zap.String("date", req.Date),
		zap.String("status", status),
		zap.Bool("created", created),
	)
	return mapToResponse(*row), created, nil
}

func (s *service) GetAll(ctx context.Context, p identity.Principal, q ListQuery) (ListResult, error) {
	filter, page, limit, err := s.buildFilter(p, q)
	if err != nil {
		return ListResult{}, err
	}

	rows, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	counts, err := s.repo.CountByStatus(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}

	items := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		items[i] = mapToResponse(r)
	}

	return ListResult{
		Items: items,
		Summary: Summary{
			Present: counts[StatusPresent],
			Absent:  counts[StatusAbsent],
			HalfDay: counts[StatusHalfDay],
			Leave:   counts[StatusLeave],
		},
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *service) buildFilter(p identity.Principal, q ListQuery) (ListFilter, int, int, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ListFilter{
		EmployeeID: q.EmployeeID,
		Status:     q.Status,
		Offset:     (page - 1) * limit,
		Limit:      limit,
	}
	if !p.IsPrivileged() {
		if p.EmployeeID == "" {
			return ListFilter{}, 0, 0, attendanceerrors.ErrNoEmployeeProfile
		}
		filter.EmployeeID = p.EmployeeID
	}

	if q.From != "" {
		from, err := parseDate(q.From)
		if err != nil {
			return ListFilter{}, 0, 0, err
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := parseDate(q.To)
		if err != nil {
			return ListFilter{}, 0, 0, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return ListFilter{}, 0, 0, attendanceerrors.ErrInvalidDateRange
	}

	return filter, page, limit, nil
}

func parseDate(v string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDate
	}
	return d, nil
}

func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return attendanceerrors.ErrAlreadyCheckedIn
		case "23503":
			return attendanceerrors.ErrEmployeeNotFound
		}
	}
	return err
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		Status:         a.Status,
		WorkHours:      a.WorkHours,
		Remarks:        a.Remarks,
	}
	if a.Employee != nil {
		resp.EmployeeName = strings.TrimSpace(a.Employee.FirstName + " " + a.Employee.LastName)
	}
	if a.CheckIn != nil {
		v := a.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &v
	}
	if a.CheckOut != nil {
		v := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	if a.MarkedBy != nil {
		v := a.MarkedBy.String()
		resp.MarkedBy = &v
	}
	return resp
}
