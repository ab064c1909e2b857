package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Default thresholds of the reporting form.
const (
	DefaultMinYear   = 1980
	DefaultMinMonths = 9
	DefaultMinYears  = 40
)

var validate = validator.New()

// Request is one station lookup with its user-adjustable thresholds.
type Request struct {
	Region      string `json:"region" validate:"required"`
	StationCode string `json:"station_code" validate:"required"`
	MinYear     int    `json:"min_year" validate:"min=1950"`
	MinMonths   int    `json:"min_months" validate:"min=1,max=12"`
	MinYears    int    `json:"min_years" validate:"min=10,max=100"`
}

// NewRequest returns a request for the station with the default thresholds.
func NewRequest(region, stationCode string) Request {
	return Request{
		Region:      region,
		StationCode: stationCode,
		MinYear:     DefaultMinYear,
		MinMonths:   DefaultMinMonths,
		MinYears:    DefaultMinYears,
	}
}

// Validate checks the thresholds and resolves the region and station code.
// MinYear may not be later than the current year.
func (r Request) Validate() (Region, string, error) {
	if err := validate.Struct(r); err != nil {
		return Region{}, "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if now := clock.Now().Year(); r.MinYear > now {
		return Region{}, "", fmt.Errorf("%w: min_year %d is after %d", ErrInvalidRequest, r.MinYear, now)
	}
	region, err := LookupRegion(r.Region)
	if err != nil {
		return Region{}, "", err
	}
	code, err := NormalizeStationCode(r.StationCode)
	if err != nil {
		return Region{}, "", err
	}
	return region, code, nil
}

// Criteria returns the filter thresholds of the request.
func (r Request) Criteria() FilterCriteria {
	return FilterCriteria{MinYear: r.MinYear, MinMonthsWithData: r.MinMonths}
}
