package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	attendanceerrors "dayflow/internal/attendance/errors"
	"dayflow/internal/identity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	rows     map[string]*Attendance
	created  []Attendance
	updated  []Attendance
	createFn func(a *Attendance) error
	lastList ListFilter
	listRows []Attendance
	counts   map[string]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]*Attendance{}}
}

func rowKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error {
	if f.createFn != nil {
		if err := f.createFn(a); err != nil {
			return err
		}
	}
	f.created = append(f.created, *a)
	cp := *a
	f.rows[rowKey(a.EmployeeID.String(), a.AttendanceDate)] = &cp
	return nil
}

func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	row, ok := f.rows[rowKey(employeeID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeRepo) FindAll(ctx context.Context, filter ListFilter) ([]Attendance, int64, error) {
	f.lastList = filter
	return f.listRows, int64(len(f.listRows)), nil
}

func (f *fakeRepo) CountByStatus(ctx context.Context, filter ListFilter) (map[string]int64, error) {
	return f.counts, nil
}

func (f *fakeRepo) Update(ctx context.Context, a *Attendance) error {
	f.updated = append(f.updated, *a)
	cp := *a
	f.rows[rowKey(a.EmployeeID.String(), a.AttendanceDate)] = &cp
	return nil
}

func newTestService(t *testing.T, repo Repository, clock *time.Time) (*service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(db, repo).(*service)
	svc.now = func() time.Time { return *clock }
	return svc, mock
}

func TestService_CheckInAndCheckOut(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	p := identity.Principal{UserID: uuid.NewString(), EmployeeID: employeeID.String(), Role: identity.RoleEmployee}

	t.Run("full day stays present", func(t *testing.T) {
		repo := newFakeRepo()
		clock := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		svc, mock := newTestService(t, repo, &clock)

		mock.ExpectBegin()
		mock.ExpectCommit()
		in, err := svc.CheckIn(ctx, p, CheckInRequest{})
		require.NoError(t, err)
		assert.Equal(t, StatusPresent, in.Status)
		assert.Equal(t, "2026-03-02", in.AttendanceDate)
		require.NotNil(t, in.CheckIn)
		assert.Equal(t, "2026-03-02T09:00:00Z", *in.CheckIn)

		clock = time.Date(2026, 3, 2, 17, 20, 0, 0, time.UTC)
		mock.ExpectBegin()
		mock.ExpectCommit()
		out, err := svc.CheckOut(ctx, p, CheckOutRequest{})
		require.NoError(t, err)
		assert.Equal(t, StatusPresent, out.Status)
		require.NotNil(t, out.WorkHours)
		assert.Equal(t, 8.33, *out.WorkHours)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("short day becomes half-day", func(t *testing.T) {
		repo := newFakeRepo()
		clock := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
		svc, mock := newTestService(t, repo, &clock)

		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err := svc.CheckIn(ctx, p, CheckInRequest{})
		require.NoError(t, err)

		clock = clock.Add(3*time.Hour + 30*time.Minute)
		mock.ExpectBegin()
		mock.ExpectCommit()
		out, err := svc.CheckOut(ctx, p, CheckOutRequest{})
		require.NoError(t, err)
		assert.Equal(t, StatusHalfDay, out.Status)
		assert.Equal(t, 3.5, *out.WorkHours)
	})

	t.Run("second check-in is rejected", func(t *testing.T) {
		repo := newFakeRepo()
		clock := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
		svc, mock := newTestService(t, repo, &clock)

		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err := svc.CheckIn(ctx, p, CheckInRequest{})
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.CheckIn(ctx, p, CheckInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
		assert.Len(t, repo.created, 1)
	})

	t.Run("pre-marked day is converted", func(t *testing.T) {
		repo := newFakeRepo()
		clock := time.Date(2026, 3, 5, 8, 45, 0, 0, time.UTC)
		svc, mock := newTestService(t, repo, &clock)
		day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
		repo.rows[rowKey(employeeID.String(), day)] = &Attendance{
			ID:             uuid.New(),
			EmployeeID:     employeeID,
			AttendanceDate: day,
			Status:         StatusAbsent,
		}

		mock.ExpectBegin()
		mock.ExpectCommit()
		in, err := svc.CheckIn(ctx, p, CheckInRequest{})
		require.NoError(t, err)
		assert.Equal(t, StatusPresent, in.Status)
		assert.Empty(t, repo.created)
		assert.Len(t, repo.updated, 1)
	})

	t.Run("concurrent insert maps to already checked in", func(t *testing.T) {
		repo := newFakeRepo()
		repo.createFn = func(a *Attendance) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_employee_date"}
		}
		clock := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
		svc, mock := newTestService(t, repo, &clock)

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.CheckIn(ctx, p, CheckInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	})

	t.Run("check-out without check-in", func(t *testing.T) {
		repo := newFakeRepo()
		clock := time.Date(2026, 3, 7, 17, 0, 0, 0, time.UTC)
		svc, mock := newTestService(t, repo, &clock)

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.CheckOut(ctx, p, CheckOutRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrNotCheckedIn)
	})

	t.Run("double check-out", func(t *testing.T) {
		repo := newFakeRepo()
		clock := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
		svc, mock := newTestService(t, repo, &clock)

		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err := svc.CheckIn(ctx, p, CheckInRequest{})
		require.NoError(t, err)

		clock = clock.Add(8 * time.Hour)
		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err = svc.CheckOut(ctx, p, CheckOutRequest{})
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.CheckOut(ctx, p, CheckOutRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedOut)
	})

	t.Run("no employee profile", func(t *testing.T) {
		clock := time.Now()
		svc, _ := newTestService(t, newFakeRepo(), &clock)
		_, err := svc.CheckIn(ctx, identity.Principal{UserID: "u-1", Role: identity.RoleAdmin}, CheckInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrNoEmployeeProfile)
	})
}

func TestService_Mark(t *testing.T) {
	ctx := context.Background()
	hr := identity.Principal{UserID: uuid.NewString(), EmployeeID: uuid.NewString(), Role: identity.RoleHR}
	employeeID := uuid.NewString()
	clock := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("creates then updates", func(t *testing.T) {
		repo := newFakeRepo()
		svc, mock := newTestService(t, repo, &clock)
		req := MarkAttendanceRequest{EmployeeID: employeeID, Date: "2026-03-09", Status: "absent"}

		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, created, err := svc.Mark(ctx, hr, req)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, StatusAbsent, resp.Status)
		require.NotNil(t, resp.MarkedBy)
		assert.Equal(t, hr.UserID, *resp.MarkedBy)

		req.Status = "leave"
		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, created, err = svc.Mark(ctx, hr, req)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, StatusLeave, resp.Status)
		assert.Len(t, repo.created, 1)
		assert.Len(t, repo.updated, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("employee is forbidden", func(t *testing.T) {
		svc, _ := newTestService(t, newFakeRepo(), &clock)
		p := identity.Principal{UserID: uuid.NewString(), EmployeeID: employeeID, Role: identity.RoleEmployee}
		_, _, err := svc.Mark(ctx, p, MarkAttendanceRequest{EmployeeID: employeeID, Date: "2026-03-09", Status: "present"})
		assert.ErrorIs(t, err, attendanceerrors.ErrForbidden)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc, _ := newTestService(t, newFakeRepo(), &clock)

		_, _, err := svc.Mark(ctx, hr, MarkAttendanceRequest{EmployeeID: "nope", Date: "2026-03-09", Status: "present"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidEmployeeID)

		_, _, err = svc.Mark(ctx, hr, MarkAttendanceRequest{EmployeeID: employeeID, Date: "09/03/2026", Status: "present"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDate)

		_, _, err = svc.Mark(ctx, hr, MarkAttendanceRequest{EmployeeID: employeeID, Date: "2026-03-09", Status: "late"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidStatus)
	})
}

func TestService_GetAll(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	own := uuid.NewString()

	t.Run("employee is scoped to own rows", func(t *testing.T) {
		repo := newFakeRepo()
		repo.counts = map[string]int64{StatusPresent: 3, StatusHalfDay: 1}
		repo.listRows = []Attendance{{
			ID:             uuid.New(),
			EmployeeID:     uuid.MustParse(own),
			AttendanceDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Status:         StatusPresent,
			Employee:       &EmployeeRef{FirstName: "Aisha", LastName: "Khan"},
		}}
		svc, _ := newTestService(t, repo, &clock)

		p := identity.Principal{UserID: uuid.NewString(), EmployeeID: own, Role: identity.RoleEmployee}
		res, err := svc.GetAll(ctx, p, ListQuery{EmployeeID: uuid.NewString(), Limit: 500})
		require.NoError(t, err)

		assert.Equal(t, own, repo.lastList.EmployeeID)
		assert.Equal(t, maxPageLimit, res.Limit)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, Summary{Present: 3, HalfDay: 1}, res.Summary)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Aisha Khan", res.Items[0].EmployeeName)
	})

	t.Run("hr filters by range", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _ := newTestService(t, repo, &clock)
		hr := identity.Principal{UserID: uuid.NewString(), Role: identity.RoleHR}

		_, err := svc.GetAll(ctx, hr, ListQuery{From: "2026-03-01", To: "2026-03-31", Page: 2})
		require.NoError(t, err)
		assert.Empty(t, repo.lastList.EmployeeID)
		assert.Equal(t, defaultPageLimit, repo.lastList.Offset)
		require.NotNil(t, repo.lastList.From)
		require.NotNil(t, repo.lastList.To)
	})

	t.Run("reversed range", func(t *testing.T) {
		svc, _ := newTestService(t, newFakeRepo(), &clock)
		hr := identity.Principal{UserID: uuid.NewString(), Role: identity.RoleHR}
		_, err := svc.GetAll(ctx, hr, ListQuery{From: "2026-03-31", To: "2026-03-01"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDateRange)
	})

	t.Run("employee without profile", func(t *testing.T) {
		svc, _ := newTestService(t, newFakeRepo(), &clock)
		_, err := svc.GetAll(ctx, identity.Principal{UserID: "u-1", Role: identity.RoleEmployee}, ListQuery{})
		assert.True(t, errors.Is(err, attendanceerrors.ErrNoEmployeeProfile))
	})
}

func TestWorkHours(t *testing.T) {
	in := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 1.0, WorkHours(in, in.Add(time.Hour)))
	assert.Equal(t, 0.33, WorkHours(in, in.Add(20*time.Minute)))
	assert.Equal(t, 7.67, WorkHours(in, in.Add(7*time.Hour+40*time.Minute)))
}
