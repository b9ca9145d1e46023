// Package dataset fetches the penguins CSV over HTTP and turns it into
// a domain.Dataset.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/penguin-scatter/internal/domain"
	"github.com/couchcryptid/penguin-scatter/internal/observability"
)

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// maxErrorBody bounds how much of an error response is quoted in the error.
const maxErrorBody = 512

// Backoff between attempts: start at 200ms, double each retry, cap at 5s.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// statusError is a non-200 response from the dataset host.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("dataset host error: status %d: %s", e.code, e.body)
}

// Client downloads and parses the dataset.
type Client struct {
	url        string
	httpClient *http.Client
	attempts   int
	maxBytes   int64
	backoff    time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a dataset client. Each attempt is bounded by timeout;
// attempts is the total number of tries for transient failures. A response
// body larger than maxBytes fails the load.
func NewClient(url string, timeout time.Duration, attempts int, maxBytes int64, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		attempts: max(1, attempts),
		maxBytes: maxBytes,
		backoff:  initialBackoff,
		logger:   logger,
		metrics:  metrics,
	}
}

// URL returns the dataset location.
func (c *Client) URL() string { return c.url }

// Fetch downloads and parses the dataset, retrying transient failures.
// Rows with invalid numeric fields are dropped and counted in the
// dataset's LoadReport rather than failing the load.
func (c *Client) Fetch(ctx context.Context) (domain.Dataset, error) {
	backoff := c.backoff
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		ds, err := c.fetchOnce(ctx)
		if err == nil {
			return ds, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) || attempt == c.attempts {
			break
		}
		c.logger.Warn("dataset fetch failed, retrying",
			"error", err,
			"attempt", attempt,
			"backoff", backoff,
		)
		if !sleepWithContext(ctx, backoff) {
			break
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
	return domain.Dataset{}, fmt.Errorf("fetch dataset %s: %w", c.url, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) (domain.Dataset, error) {
	start := time.Now()
	ds, err := c.doRequest(ctx)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchAttempts.WithLabelValues("error").Inc()
		return domain.Dataset{}, err
	}
	c.metrics.FetchAttempts.WithLabelValues("success").Inc()
	return ds, nil
}

func (c *Client) doRequest(ctx context.Context) (domain.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("dataset request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Dataset{}, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	records, err := ReadRecords(http.MaxBytesReader(nil, resp.Body, c.maxBytes))
	if err != nil {
		return domain.Dataset{}, err
	}
	return domain.NewDataset(records, c.url), nil
}

// ReadRecords reads a penguins CSV. Columns are located by header name,
// so their order does not matter and extra columns are ignored. Short
// rows leave the missing cells empty.
func ReadRecords(r io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []domain.RawRecord
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		cell := func(col string) string {
			if i := idx[col]; i < len(fields) {
				return fields[i]
			}
			return ""
		}
		records = append(records, domain.RawRecord{
			Line:            line,
			Species:         cell(domain.ColSpecies),
			Island:          cell(domain.ColIsland),
			BillLengthMM:    cell(domain.ColBillLengthMM),
			BillDepthMM:     cell(domain.ColBillDepthMM),
			FlipperLengthMM: cell(domain.ColFlipperLengthMM),
			BodyMassG:       cell(domain.ColBodyMassG),
			Sex:             cell(domain.ColSex),
		})
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	var missing []string
	for _, col := range domain.Columns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

// retryable reports whether another attempt could succeed. Malformed
// content and client errors are permanent.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	var pe *csv.ParseError
	var tooLarge *http.MaxBytesError
	if errors.Is(err, ErrMissingColumn) || errors.As(err, &pe) || errors.As(err, &tooLarge) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return false
	}
	return true
}

func nextBackoff(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		return limit
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
