package domain

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVHeader is the header row of the ranking export.
var CSVHeader = []string{"Año", "Lluvia máxima 24h (mm)", "Meses con dato", "Rank"}

// WriteCSV writes the ranking as comma-separated values with a header row.
func WriteCSV(w io.Writer, ranked []RankedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range ranked {
		row := []string{
			strconv.Itoa(r.Year),
			FormatAmount(r.MaxRainfall24h),
			strconv.Itoa(r.MonthsWithData),
			strconv.Itoa(r.Rank),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.Rank, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatAmount renders a rainfall amount with a decimal point and no
// grouping. Whole numbers keep one decimal place ("60.0").
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ExportFileName is the download name for a station's ranking,
// e.g. "lluvia_max_24h_baja_california_02001.csv".
func ExportFileName(region, stationCode string) string {
	name := strings.Join(strings.Fields(strings.ToLower(region)), "_")
	return fmt.Sprintf("lluvia_max_24h_%s_%s.csv", name, stationCode)
}
