package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"covidboard/internal/database/graph"
	"covidboard/internal/database/relational"
	"covidboard/internal/logging"
	"covidboard/internal/output"
)

const defaultPollInterval = 6 * time.Hour

// SyncWorker orchestrates the data pipeline: Fetcher -> Repo -> Graph.
type SyncWorker struct {
	fetcher     output.RecordFetcher
	repo        relational.ReportRepository
	graphClient graph.GraphClient
	interval    time.Duration
	log         *logrus.Entry

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

var _ relational.SyncService = (*SyncWorker)(nil)

// NewSyncWorker creates a new worker instance. The graph client is optional.
func NewSyncWorker(f output.RecordFetcher, r relational.ReportRepository, g graph.GraphClient) (*SyncWorker, error) {
	if f == nil || r == nil {
		return nil, errors.New("fetcher and repo are required")
	}
	return &SyncWorker{
		fetcher:     f,
		repo:        r,
		graphClient: g,
		interval:    defaultPollInterval,
		log:         logging.Log.WithField("component", "sync"),
	}, nil
}

// WithInterval sets the delay between two pulls. Non-positive values are ignored.
func (w *SyncWorker) WithInterval(d time.Duration) *SyncWorker {
	if d > 0 {
		w.interval = d
	}
	return w
}

// Start pulls once immediately, then every interval until Stop.
func (w *SyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("worker already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

// Stop gracefully stops the worker and waits for in-flight graph pushes.
func (w *SyncWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.running = false
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()

	if w.graphClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.graphClient.Close(ctx); err != nil {
			w.log.WithError(err).Warn("closing graph client")
		}
	}
}

// PullOnce executes a single sync cycle immediately.
func (w *SyncWorker) PullOnce(ctx context.Context) error {
	return w.execute(ctx)
}

func (w *SyncWorker) loop(ctx context.Context) {
	defer w.wg.Done()

	if err := w.execute(ctx); err != nil {
		w.log.WithError(err).Error("sync failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.execute(ctx); err != nil {
				w.log.WithError(err).Error("sync failed")
			}
		}
	}
}

func (w *SyncWorker) execute(ctx context.Context) error {
	start := time.Now()

	payload, err := output.RunPipeline(ctx, w.fetcher)
	if err != nil {
		return fmt.Errorf("pipeline execution failed: %w", err)
	}

	res, err := w.repo.UpsertSnapshots(ctx, payload.Records)
	if err != nil {
		return fmt.Errorf("persist reports: %w", err)
	}
	w.log.WithFields(logrus.Fields{
		"rows":      res.Rows,
		"locations": res.Locations,
		"latest":    payload.LatestDate.Format("2006-01-02"),
		"took":      time.Since(start).Round(time.Millisecond),
	}).Info("reports synced")

	// Push to Graph DB asynchronously
	if w.graphClient != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			// Detached so a stopping worker still finishes the push it started.
			pushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			if err := w.graphClient.IngestPayload(pushCtx, payload); err != nil {
				w.log.WithError(err).Error("graph ingest failed")
				return
			}
			w.log.WithField("reports", len(payload.Records)).Debug("graph mirrored")
		}()
	}

	return nil
}
