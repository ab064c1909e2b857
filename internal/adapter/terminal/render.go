// Package terminal renders lookup results for a terminal: a colored status
// block followed by the ranking as an aligned table.
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/rainfall-normals/internal/domain"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var (
	labelColor   = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	readyColor   = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	failureColor = color.New(color.FgRed)
)

// columnGap separates table columns.
const columnGap = "  "

// outcomeColor picks the status color: green for a usable ranking, yellow
// when a ranking exists but falls short, red when there is nothing to show.
func outcomeColor(o domain.Outcome) *color.Color {
	switch o {
	case domain.OutcomeReady:
		return readyColor
	case domain.OutcomeInsufficientCoverage, domain.OutcomeNoQualifyingRecords:
		return warningColor
	default:
		return failureColor
	}
}

// RenderResult writes the status block and, for a ready result, the ranking table.
func RenderResult(w io.Writer, res domain.Result) error {
	var sb strings.Builder

	labelColor.Fprint(&sb, "Estación: ")
	fmt.Fprintf(&sb, "%s (%s)\n", res.Report.StationCode, res.Report.Region)
	if res.Report.URL != "" {
		labelColor.Fprint(&sb, "Fuente:   ")
		sb.WriteString(res.Report.URL + "\n")
	}
	labelColor.Fprint(&sb, "Estado:   ")
	outcomeColor(res.Outcome).Fprintf(&sb, "%s\n", res.Reason)

	if ext := res.Extraction; ext != nil {
		if ext.Discrepancy {
			warningColor.Fprint(&sb, "Aviso: la tabla se leyó por estructura; la búsqueda por patrón no coincide\n")
		}
		if ext.Skipped > 0 {
			warningColor.Fprintf(&sb, "Aviso: %d renglones ilegibles omitidos\n", ext.Skipped)
		}
	}

	if res.Outcome.OK() && len(res.Ranked) > 0 {
		sb.WriteString("\n")
		writeTable(&sb, res.Ranked)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderRegions writes the region catalog as a two-column table.
func RenderRegions(w io.Writer, regions []domain.Region) error {
	rows := make([][]string, len(regions))
	for i, r := range regions {
		rows[i] = []string{r.Code, r.Name}
	}

	var sb strings.Builder
	writeGrid(&sb, []string{"Clave", "Estado"}, rows, nil)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTable(sb *strings.Builder, ranked []domain.RankedRecord) {
	rows := make([][]string, len(ranked))
	for i, r := range ranked {
		rows[i] = []string{
			strconv.Itoa(r.Year),
			domain.FormatAmount(r.MaxRainfall24h),
			strconv.Itoa(r.MonthsWithData),
			strconv.Itoa(r.Rank),
		}
	}
	// Every column of the ranking is numeric.
	writeGrid(sb, domain.CSVHeader, rows, []bool{true, true, true, true})
}

// writeGrid pads cells by display width so accented headers line up.
// rightAlign marks numeric columns; a nil slice left-aligns everything.
func writeGrid(sb *strings.Builder, header []string, rows [][]string, rightAlign []bool) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = runewidth.FillRight(h, widths[i])
	}
	headerColor.Fprintln(sb, strings.TrimRight(strings.Join(cells, columnGap), " "))

	for _, row := range rows {
		for i, cell := range row {
			if i < len(rightAlign) && rightAlign[i] {
				cells[i] = runewidth.FillLeft(cell, widths[i])
			} else {
				cells[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		sb.WriteString(strings.TrimRight(strings.Join(cells, columnGap), " ") + "\n")
	}
}
