package leave

import (
	"math"
	"strings"
	"time"

	leaveerrors "dayflow/internal/leave/errors"
)

const dateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// InclusiveDays counts every calendar day in [start, end], weekends included.
// Unix seconds are used because time.Duration saturates past ~292 years.
func InclusiveDays(start, end time.Time) int {
	diff := math.Abs(float64(end.Unix()-start.Unix()) / secondsPerDay)
	return int(math.Ceil(diff)) + 1
}

// ParseDate accepts a plain date or an RFC3339 timestamp and drops the time of day.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return truncateDate(t), nil
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
