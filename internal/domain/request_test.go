package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freezeClock(t *testing.T, at time.Time) *clockwork.FakeClock {
	t.Helper()
	c := clockwork.NewFakeClockAt(at)
	SetClock(c)
	t.Cleanup(func() { SetClock(nil) })
	return c
}

func TestNewRequest_Defaults(t *testing.T) {
	req := NewRequest("jalisco", "14066")

	assert.Equal(t, 1980, req.MinYear)
	assert.Equal(t, 9, req.MinMonths)
	assert.Equal(t, 40, req.MinYears)
	assert.Equal(t, FilterCriteria{MinYear: 1980, MinMonthsWithData: 9}, req.Criteria())
}

func TestRequest_Validate(t *testing.T) {
	freezeClock(t, time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC))

	region, code, err := NewRequest("Jalisco", "2001").Validate()
	require.NoError(t, err)
	assert.Equal(t, Region{Name: "jalisco", Code: "jal"}, region)
	assert.Equal(t, "02001", code)
}

func TestRequest_ValidateErrors(t *testing.T) {
	freezeClock(t, time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name   string
		mutate func(*Request)
		target error
	}{
		{"missing region", func(r *Request) { r.Region = "" }, ErrInvalidRequest},
		{"missing code", func(r *Request) { r.StationCode = "" }, ErrInvalidRequest},
		{"min year too early", func(r *Request) { r.MinYear = 1900 }, ErrInvalidRequest},
		{"min year in the future", func(r *Request) { r.MinYear = 2027 }, ErrInvalidRequest},
		{"min months zero", func(r *Request) { r.MinMonths = 0 }, ErrInvalidRequest},
		{"min months thirteen", func(r *Request) { r.MinMonths = 13 }, ErrInvalidRequest},
		{"min years too low", func(r *Request) { r.MinYears = 5 }, ErrInvalidRequest},
		{"min years too high", func(r *Request) { r.MinYears = 101 }, ErrInvalidRequest},
		{"unknown region", func(r *Request) { r.Region = "texas" }, ErrUnknownRegion},
		{"non-numeric code", func(r *Request) { r.StationCode = "ABC" }, ErrInvalidStationCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest("jalisco", "14066")
			tt.mutate(&req)
			_, _, err := req.Validate()
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestRequest_ValidateCurrentYearBound(t *testing.T) {
	freezeClock(t, time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC))

	req := NewRequest("jalisco", "14066")
	req.MinYear = 2030
	_, _, err := req.Validate()
	assert.NoError(t, err)
}
