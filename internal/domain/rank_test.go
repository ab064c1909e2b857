package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterAndRank_Scenario(t *testing.T) {
	records := ExtractRows(scenarioReport).Records

	t.Run("min months 9", func(t *testing.T) {
		ranked := FilterAndRank(records, FilterCriteria{MinYear: 1980, MinMonthsWithData: 9})
		require.Len(t, ranked, 2)
		assert.Equal(t, 1990, ranked[0].Year)
		assert.Equal(t, 1, ranked[0].Rank)
		assert.Equal(t, 1985, ranked[1].Year)
		assert.Equal(t, 2, ranked[1].Rank)
	})

	t.Run("min months 12", func(t *testing.T) {
		ranked := FilterAndRank(records, FilterCriteria{MinYear: 1980, MinMonthsWithData: 12})
		assert.NotNil(t, ranked)
		assert.Empty(t, ranked)
	})
}

func TestFilterAndRank_Thresholds(t *testing.T) {
	records := []RainfallRecord{
		{Year: 1979, MaxRainfall24h: 90, MonthsWithData: 12},
		{Year: 1980, MaxRainfall24h: 40, MonthsWithData: 9},
		{Year: 1981, MaxRainfall24h: 50, MonthsWithData: 8},
	}

	ranked := FilterAndRank(records, FilterCriteria{MinYear: 1980, MinMonthsWithData: 9})

	require.Len(t, ranked, 1)
	assert.Equal(t, RankedRecord{RainfallRecord: records[1], Rank: 1}, ranked[0])
}

func TestFilterAndRank_TiesKeepSourceOrder(t *testing.T) {
	records := []RainfallRecord{
		{Year: 1990, MaxRainfall24h: 50, MonthsWithData: 12},
		{Year: 1985, MaxRainfall24h: 70, MonthsWithData: 12},
		{Year: 1988, MaxRainfall24h: 50, MonthsWithData: 12},
		{Year: 1986, MaxRainfall24h: 50, MonthsWithData: 12},
	}

	ranked := FilterAndRank(records, FilterCriteria{MinYear: 1900, MinMonthsWithData: 1})

	years := make([]int, len(ranked))
	ranks := make([]int, len(ranked))
	for i, r := range ranked {
		years[i] = r.Year
		ranks[i] = r.Rank
	}
	assert.Equal(t, []int{1985, 1990, 1988, 1986}, years)
	assert.Equal(t, []int{1, 2, 3, 4}, ranks, "ties do not share a rank")
}

func TestFilterAndRank_OrderingInvariant(t *testing.T) {
	records := ExtractRows(loadReport(t, "mes14066.txt")).Records
	ranked := FilterAndRank(records, FilterCriteria{MinYear: 1970, MinMonthsWithData: 1})

	require.NotEmpty(t, ranked)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, RainfallRecord{Year: 1993, MaxRainfall24h: 74.7, MonthsWithData: 12}, ranked[0].RainfallRecord)
	for i := 1; i < len(ranked); i++ {
		assert.Less(t, ranked[i-1].Rank, ranked[i].Rank)
		assert.GreaterOrEqual(t, ranked[i-1].MaxRainfall24h, ranked[i].MaxRainfall24h)
	}
}

func TestFilterAndRank_Monotonic(t *testing.T) {
	records := ExtractRows(loadReport(t, "mes14066.txt")).Records

	prev := len(records) + 1
	for minYear := 1960; minYear <= 2015; minYear += 5 {
		n := len(FilterAndRank(records, FilterCriteria{MinYear: minYear, MinMonthsWithData: 1}))
		assert.LessOrEqual(t, n, prev, "min year %d", minYear)
		prev = n
	}

	prev = len(records) + 1
	for minMonths := 1; minMonths <= 12; minMonths++ {
		n := len(FilterAndRank(records, FilterCriteria{MinYear: 1900, MinMonthsWithData: minMonths}))
		assert.LessOrEqual(t, n, prev, "min months %d", minMonths)
		prev = n
	}
}

func TestFilterAndRank_DoesNotMutateInput(t *testing.T) {
	records := []RainfallRecord{
		{Year: 1985, MaxRainfall24h: 10, MonthsWithData: 12},
		{Year: 1986, MaxRainfall24h: 20, MonthsWithData: 12},
	}
	_ = FilterAndRank(records, FilterCriteria{MinYear: 1900, MinMonthsWithData: 1})
	assert.Equal(t, 1985, records[0].Year)
}

func TestFilterAndRank_Empty(t *testing.T) {
	ranked := FilterAndRank(nil, FilterCriteria{MinYear: 1980, MinMonthsWithData: 9})
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}
