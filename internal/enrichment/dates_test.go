package enrichment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"July 12, 2026", "2026-07-12", true},
		{" 2026-07-15 ", "2026-07-15", true},
		{"12/07/2026", "", false},
		{"sometime in July", "", false},
		{"February 30, 2026", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBucket(t *testing.T) {
	assert.Equal(t, "early", Bucket(1))
	assert.Equal(t, "early", Bucket(3))
	assert.Equal(t, "early", Bucket(10))
	assert.Equal(t, "mid", Bucket(11))
	assert.Equal(t, "mid", Bucket(20))
	assert.Equal(t, "late", Bucket(21))
	assert.Equal(t, "late", Bucket(25))
	assert.Equal(t, "late", Bucket(31))
}

func TestApproximateDate(t *testing.T) {
	assert.Equal(t, "mid July", ApproximateDate(day(2026, 7, 12), day(2026, 7, 15)))
	assert.Equal(t, "early May", ApproximateDate(day(2026, 5, 3), time.Time{}))
	assert.Equal(t, "late August", ApproximateDate(day(2026, 8, 25), day(2026, 8, 28)))
	assert.Equal(t, "late July–early August", ApproximateDate(day(2026, 7, 28), day(2026, 8, 2)))
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end time.Time
	}{
		{"12–15 July 2026", day(2026, 7, 12), day(2026, 7, 15)},
		{"12-15 July 2026", day(2026, 7, 12), day(2026, 7, 15)},
		{"July 12-15, 2026", day(2026, 7, 12), day(2026, 7, 15)},
		{"Sept 3 – 6 2026", day(2026, 9, 3), day(2026, 9, 6)},
		{"28 July – 2 August 2026", day(2026, 7, 28), day(2026, 8, 2)},
		{"30 December - 2 January 2027", day(2026, 12, 30), day(2027, 1, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, ok := ParseDateRange(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestParseDateRange_Rejects(t *testing.T) {
	for _, in := range []string{"", "mid July", "15-12 July 2026", "31-33 July 2026", "12-15 Jul", "12-15 Foo 2026"} {
		_, _, ok := ParseDateRange(in)
		assert.False(t, ok, in)
	}
}

func TestRangeBucketing(t *testing.T) {
	start, end, ok := ParseDateRange("12–15 July 2026")
	require.True(t, ok)
	assert.Equal(t, "mid July", ApproximateDate(start, end))
}
