package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/rainfall-normals/internal/domain"
	"github.com/couchcryptid/rainfall-normals/internal/observability"
)

// ResultPublisher exports a ranking that is ready for display.
type ResultPublisher interface {
	Publish(ctx context.Context, result domain.Result) error
}

// Pipeline runs one station lookup through the fetch, status, extraction,
// ranking and coverage gates.
type Pipeline struct {
	fetcher   domain.ReportFetcher
	publisher ResultPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. Pass a nil publisher to disable result export.
func New(fetcher domain.ReportFetcher, publisher ResultPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil when the pipeline can serve lookups.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.fetcher == nil {
		return errors.New("no report fetcher configured")
	}
	return nil
}

// Run performs one lookup. Every terminal state, including the failure
// outcomes, is returned as a Result; the error is reserved for invalid
// requests and cancellation.
func (p *Pipeline) Run(ctx context.Context, req domain.Request) (domain.Result, error) {
	region, code, err := req.Validate()
	if err != nil {
		return domain.Result{}, err
	}

	log := p.logger.With("region", region.Code, "station", code)

	report, err := p.fetcher.Fetch(ctx, region.Code, code)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Result{}, ctxErr
		}
		if errors.Is(err, domain.ErrReportNotFound) {
			log.Info("report not found", "error", err)
		} else {
			log.Warn("report fetch failed", "error", err)
		}
		res := domain.NotFoundResult(req, region, code)
		p.record(res)
		return res, nil
	}

	res := domain.Evaluate(req, report)
	if ext := res.Extraction; ext != nil {
		p.metrics.RecordsExtracted.Observe(float64(len(ext.Records)))
		p.metrics.RowsSkipped.Add(float64(ext.Skipped))
		if ext.Skipped > 0 {
			log.Debug("malformed rows skipped", "skipped", ext.Skipped, "strategy", ext.Strategy)
		}
		if ext.Discrepancy {
			p.metrics.ExtractionDiscrepancy.Inc()
			log.Warn("structural and pattern extraction disagree, using structural rows",
				"records", len(ext.Records),
				"url", report.URL,
			)
		}
		if ext.Strategy == domain.StrategyPattern {
			log.Info("rainfall heading not found, rows located by pattern", "records", len(ext.Records))
		}
		if ext.DuplicateYears > 0 {
			log.Warn("pattern rows repeat years, kept the first of each",
				"dropped", ext.DuplicateYears,
				"url", report.URL,
			)
		}
	}
	p.record(res)

	if res.Outcome.OK() && p.publisher != nil {
		if err := p.publisher.Publish(ctx, res); err != nil {
			p.metrics.ResultPublishErrors.Inc()
			log.Error("publish result failed", "error", err)
		} else {
			p.metrics.ResultsPublished.Inc()
		}
	}

	return res, nil
}

func (p *Pipeline) record(res domain.Result) {
	p.metrics.PipelineOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	p.logger.Info("lookup finished",
		"region", res.Report.RegionCode,
		"station", res.Report.StationCode,
		"outcome", res.Outcome,
		"ranked", len(res.Ranked),
	)
}
