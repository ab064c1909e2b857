package domain

// ValidateCoverage counts the distinct years in the ranking and checks the
// count against minYears.
func ValidateCoverage(ranked []RankedRecord, minYears int) CoverageResult {
	years := make(map[int]struct{}, len(ranked))
	for _, r := range ranked {
		years[r.Year] = struct{}{}
	}
	return CoverageResult{
		DistinctYearCount: len(years),
		IsValid:           len(years) >= minYears,
		Threshold:         minYears,
	}
}
