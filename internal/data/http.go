package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultDataURL is the consolidated key-figures dataset published by opencovid19-fr.
const DefaultDataURL = "https://raw.githubusercontent.com/opencovid19-fr/data/master/dist/chiffres-cles.json"

// HTTPOptions tunes the remote dataset client.
type HTTPOptions struct {
	URL     string
	Timeout time.Duration
	Retries int
	Logger  retryablehttp.LeveledLogger
}

// HTTPSource downloads the dataset once and serves reports from memory.
type HTTPSource struct {
	url    string
	client *retryablehttp.Client

	mu      sync.Mutex
	dataset *Dataset
}

// NewHTTPSource builds a source backed by a retrying HTTP client.
func NewHTTPSource(opts HTTPOptions) *HTTPSource {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	client.Logger = opts.Logger
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}

	url := opts.URL
	if url == "" {
		url = DefaultDataURL
	}
	return &HTTPSource{url: url, client: client}
}

// Fetch downloads and parses the remote dataset, bypassing the cache.
func (h *HTTPSource) Fetch(ctx context.Context) ([]Snapshot, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download %s: %d: %w", h.url, resp.StatusCode, ErrBadStatus)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return ParseRecords(body)
}

// Dataset returns the cached dataset, downloading it on first use.
func (h *HTTPSource) Dataset(ctx context.Context) (*Dataset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.dataset != nil {
		return h.dataset, nil
	}
	records, err := h.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	h.dataset = NewDataset(records)
	return h.dataset, nil
}

func (h *HTTPSource) GetReport(ctx context.Context, date time.Time, location string) (*Report, error) {
	ds, err := h.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Report(date, location)
}

func (h *HTTPSource) GetPreviousReport(ctx context.Context, r *Report) (*Report, error) {
	ds, err := h.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Previous(r)
}

// LatestDate returns the most recent date of the cached dataset.
func (h *HTTPSource) LatestDate(ctx context.Context) (time.Time, error) {
	ds, err := h.Dataset(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if ds.Len() == 0 {
		return time.Time{}, fmt.Errorf("empty dataset: %w", ErrNoReport)
	}
	return ds.LatestDate(), nil
}
