// Command genmock writes synthetic SMN monthly normals reports laid out like
// the upstream file tree, so the CLI and server can run against a local
// static file server. Every generated report is read back through the domain
// extractor to make sure the fixture matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -region jal -station 14066 -from 1961 -to 2020
//	python3 -m http.server -d data/mock 8000 &
//	SMN_BASE_URL=http://localhost:8000 go run ./cmd/rainfall -estado jal -clave 14066
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/rainfall-normals/internal/domain"
	"github.com/jonboulle/clockwork"
	"golang.org/x/text/encoding/charmap"
)

var monthNames = []string{"ENE", "FEB", "MAR", "ABR", "MAY", "JUN", "JUL", "AGO", "SEP", "OCT", "NOV", "DIC"}

// stationDef describes the synthetic station to render.
type stationDef struct {
	region  domain.Region
	code    string
	from    int
	to      int
	status  string
	gapRate float64 // probability that a single month is missing
	seed    uint64
}

// yearRow is one year of daily-maximum rainfall; NaN marks a missing month.
type yearRow struct {
	year   int
	months [12]float64
}

func (y yearRow) monthsWithData() int {
	n := 0
	for _, v := range y.months {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// max returns the largest monthly value and its month index, or -1 when
// every month is missing.
func (y yearRow) max() (float64, int) {
	best, idx := 0.0, -1
	for i, v := range y.months {
		if math.IsNaN(v) {
			continue
		}
		if idx < 0 || v > best {
			best, idx = v, i
		}
	}
	return best, idx
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "root directory of the generated report tree")
	region := flag.String("region", "jal", "state name or code")
	station := flag.String("station", "14066", "station code")
	from := flag.Int("from", 1961, "first year of the rainfall table")
	to := flag.Int("to", 2020, "last year of the rainfall table")
	status := flag.String("status", "OPERANDO", "value of the SITUACIÓN line")
	gapRate := flag.Float64("gaps", 0.05, "probability that a month has no data")
	seed := flag.Uint64("seed", 1, "random seed")
	latin1 := flag.Bool("latin1", false, "write the report in ISO-8859-1 like older upstream files")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *from > *to {
		return fmt.Errorf("-from %d is after -to %d", *from, *to)
	}

	r, err := domain.LookupRegion(*region)
	if err != nil {
		return err
	}
	code, err := domain.NormalizeStationCode(*station)
	if err != nil {
		return err
	}

	// Set a fixed clock for a reproducible emission date.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2021, time.March, 1, 12, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	def := stationDef{region: r, code: code, from: *from, to: *to, status: *status, gapRate: *gapRate, seed: *seed}
	rows := generateRows(def)
	text := renderReport(def, rows)

	if err := checkExtraction(text, rows); err != nil {
		return fmt.Errorf("generated report does not round-trip: %w", err)
	}

	data := []byte(text)
	if *latin1 {
		data, err = charmap.ISO8859_1.NewEncoder().Bytes(data)
		if err != nil {
			return fmt.Errorf("encode latin-1: %w", err)
		}
	}

	path := filepath.Join(*out, "Mensuales", r.Code, "mes"+code+".txt")
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	log.Printf("wrote %s (%d years)", path, len(rows))

	printStats(rows)
	return nil
}

// generateRows draws a plausible series: a seasonal base with a wet summer
// and a heavy-tailed random component.
func generateRows(def stationDef) []yearRow {
	rng := rand.New(rand.NewPCG(def.seed, uint64(def.from)))
	rows := make([]yearRow, 0, def.to-def.from+1)
	for y := def.from; y <= def.to; y++ {
		row := yearRow{year: y}
		for m := range row.months {
			if rng.Float64() < def.gapRate {
				row.months[m] = math.NaN()
				continue
			}
			seasonal := 5 + 30*math.Max(0, math.Sin(float64(m-3)*math.Pi/6))
			v := seasonal * (0.5 + rng.ExpFloat64()/2)
			row.months[m] = math.Round(v*10) / 10
		}
		rows = append(rows, row)
	}
	return rows
}

func renderReport(def stationDef, rows []yearRow) string {
	var b strings.Builder
	b.WriteString("SERVICIO METEOROLÓGICO NACIONAL\n")
	b.WriteString("NORMALES CLIMATOLÓGICAS MENSUALES\n\n")
	fmt.Fprintf(&b, "ESTACIÓN              : %s\n", def.code)
	fmt.Fprintf(&b, "NOMBRE                : ESTACIÓN SINTÉTICA %s\n", def.code)
	fmt.Fprintf(&b, "ESTADO                : %s\n", strings.ToUpper(def.region.Name))
	fmt.Fprintf(&b, "SITUACIÓN             : %s\n", def.status)
	fmt.Fprintf(&b, "EMISIÓN               : %s\n\n", domain.Now().Format("02/01/2006"))

	writeSection(&b, "LLUVIA TOTAL MENSUAL", "ACUM", rows, func(r yearRow) (string, string) {
		total := 0.0
		for _, v := range r.months {
			if !math.IsNaN(v) {
				total += v * 2.5
			}
		}
		return formatValue(math.Round(total*10) / 10), "---"
	})
	writeSection(&b, domain.MaxRainfallHeading, "MÁXIMA  MES", rows, func(r yearRow) (string, string) {
		v, idx := r.max()
		if idx < 0 {
			return "NULO", "---"
		}
		return formatValue(v), monthNames[idx]
	})
	b.WriteString("EVAPORACIÓN TOTAL\n")
	b.WriteString("AÑO      SIN DATOS\n")
	return b.String()
}

// writeSection renders one yearly table: monthly values, a summary column
// from summarize, and the count of months with data.
func writeSection(b *strings.Builder, heading, summary string, rows []yearRow, summarize func(yearRow) (string, string)) {
	b.WriteString(heading + "\n")
	b.WriteString("AÑO   ")
	for _, m := range monthNames {
		fmt.Fprintf(b, "%7s", m)
	}
	fmt.Fprintf(b, "  %s  MESES\n", summary)
	b.WriteString("      ")
	for range monthNames {
		fmt.Fprintf(b, "%7s", "MM")
	}
	b.WriteString("\n")

	for _, r := range rows {
		fmt.Fprintf(b, "%d  ", r.year)
		for _, v := range r.months {
			if math.IsNaN(v) {
				fmt.Fprintf(b, "%7s", "NULO")
				continue
			}
			fmt.Fprintf(b, "%7s", formatValue(v))
		}
		value, month := summarize(r)
		fmt.Fprintf(b, "  %7s  %3s  %2d\n", value, month, r.monthsWithData())
	}
	b.WriteString("\n")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// checkExtraction runs the generated text through the domain extractor and
// compares it with the rows that were rendered.
func checkExtraction(text string, rows []yearRow) error {
	ext := domain.ExtractRows(text)
	if ext.Strategy != domain.StrategyStructural {
		return fmt.Errorf("strategy %q, want structural", ext.Strategy)
	}
	if ext.Discrepancy {
		return fmt.Errorf("structural and pattern extraction disagree")
	}

	want := make(map[int]domain.RainfallRecord, len(rows))
	for _, r := range rows {
		v, idx := r.max()
		if idx < 0 {
			continue
		}
		want[r.year] = domain.RainfallRecord{Year: r.year, MaxRainfall24h: v, MonthsWithData: r.monthsWithData()}
	}
	if len(ext.Records) != len(want) {
		return fmt.Errorf("extracted %d records, want %d", len(ext.Records), len(want))
	}
	for _, rec := range ext.Records {
		if w, ok := want[rec.Year]; !ok || w != rec {
			return fmt.Errorf("year %d: extracted %+v, want %+v", rec.Year, rec, w)
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func printStats(rows []yearRow) {
	months := make(map[int]int)
	for _, r := range rows {
		months[r.monthsWithData()]++
	}
	keys := make([]int, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	fmt.Println("\n=== Months with data per year ===")
	for _, k := range keys {
		fmt.Printf("  %2d months: %d years\n", k, months[k])
	}
}
