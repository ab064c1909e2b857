package domain

import "sort"

// FilterAndRank keeps the records that meet the criteria, sorts them by
// maximum rainfall descending (stable on ties) and numbers them from 1.
// Tied amounts keep their source order and still get distinct ranks.
func FilterAndRank(records []RainfallRecord, criteria FilterCriteria) []RankedRecord {
	ranked := make([]RankedRecord, 0, len(records))
	for _, r := range records {
		if r.Year < criteria.MinYear || r.MonthsWithData < criteria.MinMonthsWithData {
			continue
		}
		ranked = append(ranked, RankedRecord{RainfallRecord: r})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MaxRainfall24h > ranked[j].MaxRainfall24h
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
