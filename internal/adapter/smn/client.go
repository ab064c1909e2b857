package smn

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/couchcryptid/rainfall-normals/internal/domain"
	"github.com/couchcryptid/rainfall-normals/internal/observability"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

const (
	// reportKind and reportPrefix select the monthly normals files.
	reportKind   = "Mensuales"
	reportPrefix = "mes"

	// maxReportBytes caps the download; real reports are well under 100 KiB.
	maxReportBytes = 4 << 20
)

// Client implements domain.ReportFetcher against the SMN file server.
type Client struct {
	httpClient       *http.Client
	baseURL          string
	minContentLength int
	metrics          *observability.Metrics
	logger           *slog.Logger
}

// NewClient creates an SMN report client. Certificate verification is
// disabled because the upstream server does not present a valid chain.
func NewClient(baseURL string, timeout time.Duration, minContentLength int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // upstream certificate is broken

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL:          baseURL,
		minContentLength: minContentLength,
		metrics:          metrics,
		logger:           logger,
	}
}

// ReportURL builds the report location for a region code and a normalized
// five-digit station code.
func (c *Client) ReportURL(regionCode, stationCode string) string {
	return fmt.Sprintf("%s/%s/%s/%s%s.txt", c.baseURL, reportKind, regionCode, reportPrefix, stationCode)
}

// Fetch downloads the monthly normals report of a station. A non-200
// response or a body at or under the minimum length is domain.ErrReportNotFound.
func (c *Client) Fetch(ctx context.Context, region, stationCode string) (domain.RawReport, error) {
	r, err := domain.LookupRegion(region)
	if err != nil {
		return domain.RawReport{}, err
	}
	code, err := domain.NormalizeStationCode(stationCode)
	if err != nil {
		return domain.RawReport{}, err
	}

	report := domain.RawReport{
		Region:      r.Name,
		RegionCode:  r.Code,
		StationCode: code,
		URL:         c.ReportURL(r.Code, code),
	}

	start := time.Now()
	text, err := c.download(ctx, report.URL)
	c.metrics.ReportFetchDuration.Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		c.metrics.ReportFetches.WithLabelValues("success").Inc()
	case errors.Is(err, domain.ErrReportNotFound):
		c.metrics.ReportFetches.WithLabelValues("not_found").Inc()
		return domain.RawReport{}, err
	default:
		c.metrics.ReportFetches.WithLabelValues("error").Inc()
		return domain.RawReport{}, err
	}

	c.logger.Debug("report downloaded", "url", report.URL, "chars", utf8.RuneCountInString(text))
	report.Text = text
	report.FetchedAt = domain.Now()
	return report, nil
}

func (c *Client) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d from %s", domain.ErrReportNotFound, resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBytes))
	if err != nil {
		return "", fmt.Errorf("read report: %w", err)
	}

	text, err := DecodeReport(body)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(text) <= c.minContentLength {
		return "", fmt.Errorf("%w: %d characters from %s", domain.ErrReportNotFound, utf8.RuneCountInString(text), url)
	}
	return text, nil
}

// DecodeReport returns the body as NFC-normalized UTF-8, decoding it from
// ISO-8859-1 when it is not valid UTF-8.
func DecodeReport(body []byte) (string, error) {
	if !utf8.Valid(body) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
		if err != nil {
			return "", fmt.Errorf("decode latin-1 report: %w", err)
		}
		body = decoded
	}
	return norm.NFC.String(string(body)), nil
}
