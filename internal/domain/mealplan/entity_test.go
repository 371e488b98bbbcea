package mealplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlanSpansWholeWeeks(t *testing.T) {
	start := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	plan, err := New("user-1", start, 2)
	require.NoError(t, err)

	assert.Equal(t, 14, plan.DayCount())
	assert.Equal(t, start.AddDate(0, 0, 14), plan.EndDate())
}

func TestDayCountIgnoresClockAndZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// mid-afternoon start spanning a spring-forward transition, so the
	// elapsed time is an hour short of weeks*7*24h
	start := time.Date(2026, time.March, 4, 15, 30, 0, 0, ny)
	plan, err := New("user-1", start, 1)
	require.NoError(t, err)

	assert.Equal(t, 7, plan.DayCount())
}

func TestNewRejectsOutOfRangeDuration(t *testing.T) {
	start := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	for _, weeks := range []int{0, -1, 5} {
		_, err := New("user-1", start, weeks)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}
}
