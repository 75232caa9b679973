package leave_test

import (
	"testing"
	"time"

	"dayflow/internal/leave"
	leaveerrors "dayflow/internal/leave/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewLeave(t *testing.T) {
	employeeID := uuid.New()
	applied := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("builds pending request", func(t *testing.T) {
		l, err := leave.NewLeave(employeeID, "Aisha Khan", leave.TypePaid, date(2026, 3, 10), date(2026, 3, 12), "  Family wedding out of town ", nil, applied)

		require.NoError(t, err)
		assert.Equal(t, leave.StatusPending, l.Status)
		assert.Equal(t, 3, l.NumberOfDays)
		assert.Equal(t, "Family wedding out of town", l.Reason)
		assert.Equal(t, applied, l.AppliedDate)
		assert.Nil(t, l.ApprovedBy)
		assert.NotEqual(t, uuid.Nil, l.ID)
	})

	t.Run("reversed range wins over other problems", func(t *testing.T) {
		_, err := leave.NewLeave(uuid.Nil, "", "holiday", date(2026, 3, 12), date(2026, 3, 10), "", nil, applied)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	cases := []struct {
		name      string
		leaveType string
		reason    string
		want      error
	}{
		{"unknown type", "holiday", "Family wedding out of town", leaveerrors.ErrInvalidLeaveType},
		{"short reason", leave.TypeSick, "flu", leaveerrors.ErrReasonTooShort},
		{"blank reason", leave.TypeSick, "   ", leaveerrors.ErrMissingFields},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := leave.NewLeave(employeeID, "Aisha Khan", tc.leaveType, date(2026, 3, 10), date(2026, 3, 10), tc.reason, nil, applied)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("recompute after date change", func(t *testing.T) {
		l, err := leave.NewLeave(employeeID, "Aisha Khan", leave.TypeCasual, date(2026, 3, 10), date(2026, 3, 10), "Parent teacher meeting", nil, applied)
		require.NoError(t, err)

		l.EndDate = date(2026, 3, 16)
		l.RecomputeDays()

		assert.Equal(t, 7, l.NumberOfDays)
	})
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 1, leave.InclusiveDays(date(2026, 3, 10), date(2026, 3, 10)))
	assert.Equal(t, 3, leave.InclusiveDays(date(2026, 3, 10), date(2026, 3, 12)))
	// weekends are not skipped
	assert.Equal(t, 8, leave.InclusiveDays(date(2026, 3, 6), date(2026, 3, 13)))
	// a partial day rounds up
	assert.Equal(t, 3, leave.InclusiveDays(date(2026, 3, 10), date(2026, 3, 11).Add(6*time.Hour)))
	// spans longer than time.Duration can hold
	start, end := date(1700, 1, 1), date(2026, 1, 1)
	want := int(end.Sub(date(1900, 1, 1)).Hours()/24) + int(date(1900, 1, 1).Sub(start).Hours()/24) + 1
	assert.Equal(t, want, leave.InclusiveDays(start, end))
	assert.Equal(t, want, leave.InclusiveDays(end, start))
}

func TestParseDate(t *testing.T) {
	got, err := leave.ParseDate("2026-03-10T18:45:00Z")
	require.NoError(t, err)
	assert.Equal(t, date(2026, 3, 10), got)

	_, err = leave.ParseDate("March 10")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
}

func TestBalance(t *testing.T) {
	t.Run("sufficiency only needs a positive counter", func(t *testing.T) {
		b := leave.Balance{PaidLeave: 1, SickLeave: 0}

		assert.True(t, leave.CheckSufficient(b, leave.TypePaid, 5))
		assert.False(t, leave.CheckSufficient(b, leave.TypeSick, 1))
		assert.True(t, leave.CheckSufficient(b, leave.TypeUnpaid, 30))
		assert.True(t, leave.CheckSufficient(b, leave.TypeCasual, 30))
	})

	t.Run("debit per type", func(t *testing.T) {
		b := leave.Balance{PaidLeave: 12, SickLeave: 6}

		assert.True(t, b.Debit(leave.TypePaid, 3))
		assert.True(t, b.Debit(leave.TypeSick, 7))
		assert.True(t, b.Debit(leave.TypeUnpaid, 2))
		assert.False(t, b.Debit(leave.TypeCasual, 4))

		assert.Equal(t, leave.Balance{PaidLeave: 9, SickLeave: -1, UnpaidLeave: -2}, b)
	})
}
