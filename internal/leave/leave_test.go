package leave

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsync/staffsync-backend/internal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	days, err := DaysBetween(date(2024, 1, 1), date(2024, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	days, err = DaysBetween(date(2024, 1, 1), date(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	days, err = DaysBetween(date(2024, 2, 27), date(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 4, days)

	_, err = DaysBetween(date(2024, 1, 3), date(2024, 1, 1))
	assert.True(t, errors.Is(err, internal.ErrInvalidDateRange))
}

func TestReviewNotice(t *testing.T) {
	r := &Request{StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 5), Status: StatusApproved}
	n := ReviewNotice(r)
	assert.Equal(t, "Leave Request Approved", n.Title)
	assert.Equal(t, "success", n.Type)
	assert.Equal(t, "Your leave request from 2024-01-01 to 2024-01-05 has been approved.", n.Message)

	r.Status = StatusRejected
	n = ReviewNotice(r)
	assert.Equal(t, "Leave Request Rejected", n.Title)
	assert.Equal(t, "warning", n.Type)
}

func TestSummaryAdd(t *testing.T) {
	var s Summary
	s.Add(StatusPending, 2)
	s.Add(StatusApproved, 3)
	s.Add(StatusRejected, 1)
	assert.Equal(t, Summary{Total: 6, Pending: 2, Approved: 3, Rejected: 1}, s)
}

func TestReviewDTOValidate(t *testing.T) {
	for _, status := range []string{"approved", " Rejected "} {
		dto := ReviewDTO{Status: status}
		dto.Normalize()
		assert.NoError(t, dto.Validate(), status)
	}

	dto := ReviewDTO{Status: "pending"}
	dto.Normalize()
	assert.True(t, errors.Is(dto.Validate(), ErrInvalidLeaveStatus))
}
