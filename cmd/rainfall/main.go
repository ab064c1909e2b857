// Command rainfall looks up the 24-hour maximum rainfall normals of one SMN
// station and prints the ranked years, optionally exporting them as CSV.
//
// Usage:
//
//	go run ./cmd/rainfall -estado Jalisco -clave 14066 -csv -out ./exports
//	go run ./cmd/rainfall -regiones
//
// Exit status is 0 when the ranking is ready, 2 when the station fails one
// of the checks, and 1 on invalid input or any other error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/couchcryptid/rainfall-normals/internal/adapter/smn"
	"github.com/couchcryptid/rainfall-normals/internal/adapter/terminal"
	"github.com/couchcryptid/rainfall-normals/internal/config"
	"github.com/couchcryptid/rainfall-normals/internal/domain"
	"github.com/couchcryptid/rainfall-normals/internal/observability"
	"github.com/couchcryptid/rainfall-normals/internal/pipeline"
	"github.com/fatih/color"
)

const (
	exitOK      = 0
	exitError   = 1
	exitOutcome = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rainfall", flag.ContinueOnError)
	fs.SetOutput(stderr)
	region := fs.String("estado", "", "state name or code, e.g. Jalisco or jal")
	station := fs.String("clave", "", "station code, up to five digits")
	minYear := fs.Int("anio-min", domain.DefaultMinYear, "earliest year to rank")
	minMonths := fs.Int("meses-min", domain.DefaultMinMonths, "minimum months with data per year (1-12)")
	minYears := fs.Int("anios-min", domain.DefaultMinYears, "minimum distinct years for a valid station (10-100)")
	writeCSV := fs.Bool("csv", false, "write the ranking to a CSV file")
	outDir := fs.String("out", ".", "directory for the CSV file")
	listRegions := fs.Bool("regiones", false, "list the state catalog and exit")
	noColor := fs.Bool("no-color", false, "disable colored output")
	verbose := fs.Bool("v", false, "log retrieval details to stderr")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	if *noColor {
		color.NoColor = true // disables colorized output globally
	}

	if *listRegions {
		if err := terminal.RenderRegions(stdout, domain.Regions()); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return exitError
		}
		return exitOK
	}

	if *region == "" || *station == "" {
		fs.Usage()
		fmt.Fprintln(stderr, "error: -estado and -clave are required")
		return exitError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "error: load config:", err)
		return exitError
	}
	cfg.LogFormat = "text"
	if !*verbose {
		cfg.LogLevel = "warn"
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewDetachedMetrics()

	client := smn.NewClient(cfg.SMNBaseURL, cfg.SMNTimeout, cfg.MinContentLength, metrics, logger)
	p := pipeline.New(client, nil, logger, metrics)

	req := domain.NewRequest(*region, *station)
	req.MinYear = *minYear
	req.MinMonths = *minMonths
	req.MinYears = *minYears

	res, err := p.Run(ctx, req)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}

	if err := terminal.RenderResult(stdout, res); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}
	if !res.Outcome.OK() {
		return exitOutcome
	}

	if *writeCSV {
		path, err := exportCSV(*outDir, res)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return exitError
		}
		fmt.Fprintf(stdout, "\nCSV: %s\n", path)
	}
	return exitOK
}

// exportCSV writes the ranking under dir and returns the file path.
func exportCSV(dir string, res domain.Result) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path = filepath.Join(dir, domain.ExportFileName(res.Report.Region, res.Report.StationCode))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close csv: %w", cerr)
		}
	}()

	if err := domain.WriteCSV(f, res.Ranked); err != nil {
		return "", err
	}
	return path, nil
}
