// Command validate checks a local tree of SMN monthly normals reports, laid
// out as Mensuales/{region}/mes{code}.txt, against the assumptions the
// extractor and ranking rely on. Use it on a mirror of the upstream server or
// on fixtures written by genmock.
//
// Usage:
//
//	go run ./cmd/validate -dir data/mock
package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/couchcryptid/rainfall-normals/internal/adapter/smn"
	"github.com/couchcryptid/rainfall-normals/internal/domain"
	"github.com/fatih/color"
)

var reportNameRe = regexp.MustCompile(`^mes(\d{5})\.txt$`)

// report is one file of the tree with its decoded text and extraction.
type report struct {
	path       string
	regionCode string
	code       string
	text       string
	extraction domain.Extraction
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "", "root of the report tree (contains Mensuales/)")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *noColor {
		color.NoColor = true
	}

	os.Exit(run(*dir, os.Stdout))
}

func run(dir string, w io.Writer) int {
	fmt.Fprintln(w, "=== SMN Report Tree Validation ===")
	fmt.Fprintln(w)

	layout, reports, err := loadReports(filepath.Join(dir, "Mensuales"))
	if err != nil {
		fmt.Fprintf(w, "FATAL: load reports: %v\n", err)
		return 1
	}
	if len(reports) == 0 {
		fmt.Fprintf(w, "FATAL: no reports under %s\n", dir)
		return 1
	}

	phases := []*phase{
		layout,
		validateTables(reports),
		validateRecords(reports),
		validateRankings(reports),
	}

	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)
	allPassed := true
	for _, p := range phases {
		status := pass.Sprint("PASS")
		if !p.passed() {
			status = fail.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	operating := 0
	for _, r := range reports {
		if domain.IsOperating(r.text) {
			operating++
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Reports: %d total, %d operating\n", len(reports), operating)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// loadReports walks the tree, decoding every report file. Files or
// directories that do not fit the upstream layout are reported in the
// returned layout phase instead of aborting the walk.
func loadReports(root string) (*phase, []report, error) {
	layout := &phase{name: "Phase 1: Tree layout"}
	var reports []report

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 2 {
			layout.errorf("%s: not under Mensuales/{region}/", rel)
			return nil
		}
		region, err := domain.LookupRegion(parts[0])
		if err != nil || region.Code != parts[0] {
			layout.errorf("%s: unknown region code %q", rel, parts[0])
			return nil
		}
		m := reportNameRe.FindStringSubmatch(parts[1])
		if m == nil {
			layout.errorf("%s: file name is not mes{5 digits}.txt", rel)
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text, err := smn.DecodeReport(body)
		if err != nil {
			layout.errorf("%s: %v", rel, err)
			return nil
		}
		reports = append(reports, report{
			path:       rel,
			regionCode: region.Code,
			code:       m[1],
			text:       text,
			extraction: domain.ExtractRows(text),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].path < reports[j].path })
	return layout, reports, nil
}

// ── Phase 2: Rainfall tables ──

func validateTables(reports []report) *phase {
	p := &phase{name: "Phase 2: Rainfall table extraction"}
	for _, r := range reports {
		ext := r.extraction
		switch ext.Strategy {
		case domain.StrategyNone:
			p.errorf("%s: no rainfall rows found", r.path)
		case domain.StrategyPattern:
			p.errorf("%s: heading %q missing, rows only found by pattern", r.path, domain.MaxRainfallHeading)
		}
		if ext.Discrepancy {
			p.errorf("%s: structural and pattern rows disagree", r.path)
		}
	}
	return p
}

// ── Phase 3: Record sanity ──

func validateRecords(reports []report) *phase {
	p := &phase{name: "Phase 3: Record sanity"}
	for _, r := range reports {
		seen := make(map[int]bool, len(r.extraction.Records))
		prev := 0
		for _, rec := range r.extraction.Records {
			if seen[rec.Year] {
				p.errorf("%s: year %d appears twice", r.path, rec.Year)
			}
			seen[rec.Year] = true
			if rec.Year < prev {
				p.errorf("%s: year %d follows %d", r.path, rec.Year, prev)
			}
			prev = rec.Year
			if rec.MonthsWithData == 0 && rec.MaxRainfall24h > 0 {
				p.errorf("%s: year %d has a maximum but no months with data", r.path, rec.Year)
			}
		}
	}
	return p
}

// ── Phase 4: Rankings ──

// validateRankings ranks every report with the default thresholds and
// checks the ordering and rank numbering of the result.
func validateRankings(reports []report) *phase {
	p := &phase{name: "Phase 4: Ranking invariants"}
	criteria := domain.NewRequest("", "").Criteria()
	for _, r := range reports {
		ranked := domain.FilterAndRank(r.extraction.Records, criteria)
		for i, rec := range ranked {
			if rec.Rank != i+1 {
				p.errorf("%s: rank %d at position %d", r.path, rec.Rank, i+1)
			}
			if i > 0 && rec.MaxRainfall24h > ranked[i-1].MaxRainfall24h {
				p.errorf("%s: year %d ranked below a smaller maximum", r.path, rec.Year)
			}
			if rec.Year < criteria.MinYear || rec.MonthsWithData < criteria.MinMonthsWithData {
				p.errorf("%s: year %d passed the filter", r.path, rec.Year)
			}
		}
	}
	return p
}
