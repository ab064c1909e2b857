package domain

import (
	"fmt"
	"time"
)

// Outcome is the terminal state of one pipeline run.
type Outcome string

const (
	OutcomeReady                Outcome = "READY_FOR_DISPLAY"
	OutcomeNotFound             Outcome = "NOT_FOUND"
	OutcomeStationInactive      Outcome = "STATION_INACTIVE"
	OutcomeNoQualifyingRecords  Outcome = "NO_QUALIFYING_RECORDS"
	OutcomeInsufficientCoverage Outcome = "INSUFFICIENT_COVERAGE"
)

// OK reports whether the outcome carries a displayable ranking.
func (o Outcome) OK() bool { return o == OutcomeReady }

// Result is what the pipeline hands to the presentation layer.
type Result struct {
	Request     Request         `json:"request"`
	Outcome     Outcome         `json:"outcome"`
	Reason      string          `json:"reason"`
	Report      RawReport       `json:"report"`
	Extraction  *Extraction     `json:"extraction,omitempty"`
	Ranked      []RankedRecord  `json:"ranked,omitempty"`
	Coverage    *CoverageResult `json:"coverage,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// NotFoundResult is the terminal result for a report that could not be fetched.
func NotFoundResult(req Request, region Region, stationCode string) Result {
	return Result{
		Request:     req,
		Outcome:     OutcomeNotFound,
		Reason:      reasonNotFound(region.Name, stationCode),
		Report:      RawReport{Region: region.Name, RegionCode: region.Code, StationCode: stationCode},
		GeneratedAt: clock.Now(),
	}
}

// Evaluate runs the gated checks over a fetched report: operating status,
// table extraction, filtering and ranking, then year coverage. The first
// failing gate decides the outcome and no later stage runs.
func Evaluate(req Request, report RawReport) Result {
	res := Result{Request: req, Report: report, GeneratedAt: clock.Now()}

	if !IsOperating(report.Text) {
		res.Outcome = OutcomeStationInactive
		res.Reason = reasonInactive()
		return res
	}

	ext := ExtractRows(report.Text)
	res.Extraction = &ext
	if len(ext.Records) == 0 {
		res.Outcome = OutcomeNoQualifyingRecords
		res.Reason = reasonNoQualifying()
		return res
	}

	ranked := FilterAndRank(ext.Records, req.Criteria())
	if len(ranked) == 0 {
		res.Outcome = OutcomeNoQualifyingRecords
		res.Reason = reasonNoQualifying()
		return res
	}
	res.Ranked = ranked

	coverage := ValidateCoverage(ranked, req.MinYears)
	res.Coverage = &coverage
	if !coverage.IsValid {
		res.Outcome = OutcomeInsufficientCoverage
		res.Reason = reasonInsufficient(coverage)
		return res
	}

	res.Outcome = OutcomeReady
	res.Reason = reasonReady(coverage)
	return res
}

// Reason messages shown to users, one per outcome.

func reasonNotFound(region, code string) string {
	return fmt.Sprintf("La estación %s no existe o no tiene datos mensuales en %s", code, region)
}

func reasonInactive() string { return "La estación NO está operando" }

func reasonNoQualifying() string { return "No hay años con cobertura suficiente" }

func reasonInsufficient(c CoverageResult) string {
	return fmt.Sprintf("La estación sólo tiene %d años válidos (< %d)", c.DistinctYearCount, c.Threshold)
}

func reasonReady(c CoverageResult) string {
	return fmt.Sprintf("Estación válida con %d años", c.DistinctYearCount)
}
