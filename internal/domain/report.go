package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrReportNotFound means the upstream report is missing or implausibly short.
	ErrReportNotFound = errors.New("report not found")
	// ErrUnknownRegion means the region name is not in the catalog.
	ErrUnknownRegion = errors.New("unknown region")
	// ErrInvalidStationCode means the station code is empty, non-numeric or too long.
	ErrInvalidStationCode = errors.New("invalid station code")
	// ErrInvalidRequest wraps threshold validation failures.
	ErrInvalidRequest = errors.New("invalid request")
)

// RawReport is the downloaded report text plus its provenance.
type RawReport struct {
	Region      string    `json:"region"`
	RegionCode  string    `json:"region_code"`
	StationCode string    `json:"station_code"`
	URL         string    `json:"url"`
	Text        string    `json:"-"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// ReportFetcher retrieves the raw report for a station.
type ReportFetcher interface {
	// Fetch returns ErrReportNotFound (possibly wrapped) when the station has
	// no monthly report.
	Fetch(ctx context.Context, region, stationCode string) (RawReport, error)
}

// RainfallRecord is one annual row of the maximum 24 h rainfall table.
type RainfallRecord struct {
	Year           int     `json:"year"`
	MaxRainfall24h float64 `json:"max_rainfall_24h_mm"`
	MonthsWithData int     `json:"months_with_data"`
}

// RankedRecord is a RainfallRecord with its position in the ranking.
type RankedRecord struct {
	RainfallRecord
	Rank int `json:"rank"`
}

// FilterCriteria are the data-quality thresholds applied before ranking.
type FilterCriteria struct {
	MinYear           int `json:"min_year"`
	MinMonthsWithData int `json:"min_months_with_data"`
}

// CoverageResult summarizes how many distinct years survived filtering.
type CoverageResult struct {
	DistinctYearCount int  `json:"distinct_year_count"`
	IsValid           bool `json:"is_valid"`
	Threshold         int  `json:"threshold"`
}
