package domain

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxRainfallHeading is the section label of the maximum 24 h rainfall table.
const MaxRainfallHeading = "LLUVIA MÁXIMA 24 H."

// foldedHeading matches the heading regardless of case, accents and spacing.
var foldedHeading = foldName(MaxRainfallHeading)

// maxHeaderLines is how many lines may sit between the heading and the
// first data row. The first is always skipped; the second only when it is a
// non-blank, non-numeric column header.
const maxHeaderLines = 2

// ExtractionStrategy names how the table rows were located.
type ExtractionStrategy string

const (
	StrategyNone       ExtractionStrategy = "none"
	StrategyStructural ExtractionStrategy = "structural"
	StrategyPattern    ExtractionStrategy = "pattern"
)

// rainfallRowRe matches a data row anywhere in the report: a 4-digit year,
// the annual maximum, one intermediate column and the months-with-data count.
var rainfallRowRe = regexp.MustCompile(`(?m)^[ \t]*(\d{4})[ \t]+(?:\S+[ \t]+)*?(\d+(?:\.\d+)?)[ \t]+\S+[ \t]+(\d{1,2})[ \t]*$`)

// Extraction is the outcome of locating and parsing the rainfall table.
type Extraction struct {
	Strategy ExtractionStrategy `json:"strategy"`
	Rows     [][]string         `json:"-"`
	Records  []RainfallRecord   `json:"-"`
	// Skipped counts rows that were located but could not be coerced.
	Skipped int `json:"skipped"`
	// Discrepancy is set when the pattern strategy, applied to the same
	// block, disagrees with the structural rows.
	Discrepancy bool `json:"discrepancy"`
	// DuplicateYears counts pattern rows dropped because their year was
	// already taken by an earlier row of another table.
	DuplicateYears int `json:"duplicate_years"`
}

// ExtractRows locates the maximum 24 h rainfall table and parses its rows.
// The heading-anchored block is authoritative; a whole-text pattern scan is
// used only when the heading is missing, and keeps the first row of each
// year. Finding nothing is not an error.
func ExtractRows(text string) Extraction {
	lines := splitLines(norm.NFC.String(text))

	if block, ok := structuralBlock(lines); ok {
		rows := make([][]string, 0, len(block))
		for _, l := range block {
			rows = append(rows, strings.Fields(l))
		}
		ext := newExtraction(StrategyStructural, rows)
		ext.Discrepancy = !slices.Equal(ext.Records, newExtraction(StrategyPattern, patternRows(strings.Join(block, "\n"))).Records)
		return ext
	}

	rows := patternRows(strings.Join(lines, "\n"))
	if len(rows) == 0 {
		return Extraction{Strategy: StrategyNone, Records: []RainfallRecord{}}
	}
	ext := newExtraction(StrategyPattern, rows)
	ext.Records, ext.DuplicateYears = firstPerYear(ext.Records)
	return ext
}

// firstPerYear drops every record whose year already appeared, returning
// the kept records and how many were dropped.
func firstPerYear(records []RainfallRecord) ([]RainfallRecord, int) {
	seen := make(map[int]bool, len(records))
	kept := records[:0]
	for _, r := range records {
		if seen[r.Year] {
			continue
		}
		seen[r.Year] = true
		kept = append(kept, r)
	}
	return kept, len(records) - len(kept)
}

func newExtraction(strategy ExtractionStrategy, rows [][]string) Extraction {
	ext := Extraction{
		Strategy: strategy,
		Rows:     rows,
		Records:  make([]RainfallRecord, 0, len(rows)),
	}
	for _, cols := range rows {
		rec, ok := parseRow(cols)
		if !ok {
			ext.Skipped++
			continue
		}
		ext.Records = append(ext.Records, rec)
	}
	return ext
}

// structuralBlock returns the data lines following the heading, stopping at
// the first blank line or line that does not start with a digit.
func structuralBlock(lines []string) ([]string, bool) {
	heading := -1
	for i, l := range lines {
		if foldName(l) == foldedHeading {
			heading = i
			break
		}
	}
	if heading < 0 {
		return nil, false
	}

	start := heading + 1
	for skipped := 0; skipped < maxHeaderLines && start < len(lines); skipped++ {
		if skipped > 0 && !isHeaderLine(lines[start]) {
			break
		}
		start++
	}

	var block []string
	for _, l := range lines[start:] {
		if !isDataLine(l) {
			break
		}
		block = append(block, l)
	}
	return block, true
}

func isDataLine(l string) bool {
	trimmed := strings.TrimSpace(l)
	return trimmed != "" && unicode.IsDigit([]rune(trimmed)[0])
}

func isHeaderLine(l string) bool {
	return strings.TrimSpace(l) != "" && !isDataLine(l)
}

// patternRows returns the whitespace-split fields of every line matching
// rainfallRowRe.
func patternRows(text string) [][]string {
	var rows [][]string
	for _, m := range rainfallRowRe.FindAllString(text, -1) {
		rows = append(rows, strings.Fields(m))
	}
	return rows
}

// parseRow maps a token row to a record reading the year from the left and
// the maximum and months from the right.
func parseRow(cols []string) (RainfallRecord, bool) {
	if len(cols) < 3 {
		return RainfallRecord{}, false
	}
	year, err := strconv.Atoi(cols[0])
	if err != nil {
		return RainfallRecord{}, false
	}
	amount, err := strconv.ParseFloat(cols[len(cols)-3], 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return RainfallRecord{}, false
	}
	months, err := strconv.Atoi(cols[len(cols)-1])
	if err != nil || months < 0 || months > 12 {
		return RainfallRecord{}, false
	}
	return RainfallRecord{Year: year, MaxRainfall24h: amount, MonthsWithData: months}, true
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
