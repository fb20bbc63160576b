package poller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/zd0907-arc/market-live-terminal/internal/quote"
	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
)

// Batch is the decoded result of one vendor request.
type Batch struct {
	Snapshots []*quote.Snapshot
	// Skipped holds the records that could not be decoded, nil if none.
	Skipped *errors.BaseError
}

// Fetcher retrieves snapshots for a batch of symbols.
//
//go:generate mockgen -source=fetcher.go -destination=mock/fetcher_mock.go -package=mock
type Fetcher interface {
	Fetch(ctx context.Context, symbols []string) (*Batch, error)
}

// HTTPFetcher queries the qt.gtimg.cn quote endpoint. Every request goes
// through a circuit breaker so a dead vendor fails fast.
type HTTPFetcher struct {
	baseURL string
	charset string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

// FetcherOption customises an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithClock replaces time.Now for the wall-clock timestamp fallback.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *HTTPFetcher) { f.now = now }
}

// NewHTTPFetcher creates the vendor fetcher.
func NewHTTPFetcher(cfg Config, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		charset: strings.ToLower(cfg.Charset),
		client:  &http.Client{Timeout: cfg.Timeout},
		now:     func() time.Time { return time.Now().In(Exchange) },
	}

	failures := cfg.BreakerFailures
	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "quote-fetch",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return failures > 0 && counts.ConsecutiveFailures >= failures
		},
	})

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues one GET for all symbols. Transport and status failures fail
// the whole batch; malformed records are only reported in Batch.Skipped.
func (f *HTTPFetcher) Fetch(ctx context.Context, symbols []string) (*Batch, error) {
	if len(symbols) == 0 {
		return &Batch{}, nil
	}

	out, err := f.breaker.Execute(func() (any, error) {
		return f.get(ctx, symbols)
	})
	if err != nil {
		if details, ok := err.(*errors.ErrorDetails); ok {
			return nil, details
		}
		return nil, errors.NewErrorDetails(err.Error(), string(errors.QuoteFetchError), "request")
	}

	snapshots, skipped := quote.ParseBatch(out.(string), f.now())
	return &Batch{Snapshots: snapshots, Skipped: skipped}, nil
}

// State exposes the breaker state for health reporting.
func (f *HTTPFetcher) State() string {
	return f.breaker.State().String()
}

func (f *HTTPFetcher) get(ctx context.Context, symbols []string) (string, error) {
	url := fmt.Sprintf("%s/q=%s", f.baseURL, strings.Join(symbols, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.NewErrorDetails(err.Error(), string(errors.QuoteFetchError), "request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.NewErrorDetails(err.Error(), string(errors.QuoteFetchError), "request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", errors.NewErrorDetails(fmt.Sprintf("quote endpoint returned %d", resp.StatusCode), string(errors.QuoteFetchError), "status")
	}

	var body io.Reader = resp.Body
	if f.charset == "gbk" {
		body = simplifiedchinese.GBK.NewDecoder().Reader(resp.Body)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", errors.NewErrorDetails(err.Error(), string(errors.QuoteFetchError), "body")
	}
	return string(raw), nil
}
