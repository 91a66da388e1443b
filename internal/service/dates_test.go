package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMonthsClampsDayOfMonth(t *testing.T) {
	start := time.Date(2020, time.January, 31, 0, 0, 0, 0, time.UTC)
	end := addMonths(start, 1)
	assert.Equal(t, time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC), end)

	start = time.Date(2019, time.January, 31, 0, 0, 0, 0, time.UTC)
	end = addMonths(start, 1)
	assert.Equal(t, time.Date(2019, time.February, 28, 0, 0, 0, 0, time.UTC), end)
}

func TestAddMonthsRegularDates(t *testing.T) {
	start := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2020, time.April, 15, 0, 0, 0, 0, time.UTC), addMonths(start, 3))

	start = time.Date(2020, time.November, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2021, time.May, 10, 0, 0, 0, 0, time.UTC), addMonths(start, 6))
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2020, time.March, 5, 17, 42, 9, 123, time.UTC)
	assert.Equal(t, time.Date(2020, time.March, 5, 0, 0, 0, 0, time.UTC), startOfDay(ts))
}

func TestParseDate(t *testing.T) {
	parsed, err := parseDate("2020-04-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.April, 10, 0, 0, 0, 0, time.UTC), parsed)

	parsed, err = parseDate("2020-04-10T13:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 13, parsed.Hour())

	_, err = parseDate("not-a-date")
	require.Error(t, err)
}
