// Package embedding backfills missing record embeddings in the background.
// Records are searchable lexically from the moment they are stored; this
// runner catches them up for the semantic leg.
package embedding

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/lifeinbox/lifeinbox/server/search/embedindex"
	"github.com/lifeinbox/lifeinbox/store"
)

const (
	defaultInterval  = 30 * time.Second
	defaultBatchSize = 50
	defaultWorkers   = 4
)

// Runner periodically scans for records without an embedding for the active
// model and fills them in through a bounded worker pool. The scan only
// returns unembedded records, so repeated runs never redo finished work.
type Runner struct {
	store     *store.Store
	index     *embedindex.Index
	pool      *ants.Pool
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

// NewRunner creates a backfill runner. Non-positive workers falls back to
// the default pool size.
func NewRunner(st *store.Store, index *embedindex.Index, workers int) (*Runner, error) {
	if workers < 1 {
		workers = defaultWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Runner{
		store:     st,
		index:     index,
		pool:      pool,
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}, nil
}

// Run scans on a ticker until the context is canceled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce processes a single batch of unembedded records. Individual failures
// are logged and skipped; the record stays unembedded and is retried on a
// later scan.
func (r *Runner) RunOnce(ctx context.Context) {
	records, err := r.store.FindRecordsWithoutEmbeddingForModel(ctx, &store.FindRecordsWithoutEmbedding{
		Model: r.index.Model(),
		Limit: r.batchSize,
	})
	if err != nil {
		r.logger.Warn("embedding backfill scan failed", "error", err)
		return
	}
	if len(records) == 0 {
		return
	}

	var wg sync.WaitGroup
	embedded := 0
	var mu sync.Mutex
	for _, record := range records {
		record := record
		wg.Add(1)
		if err := r.pool.Submit(func() {
			defer wg.Done()
			if r.embedRecord(ctx, record) {
				mu.Lock()
				embedded++
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			r.logger.Warn("embedding task rejected", "record_id", record.ID, "error", err)
		}
	}
	wg.Wait()

	r.logger.Info("embedding backfill batch done",
		"scanned", len(records), "embedded", embedded, "model", r.index.Model())
}

func (r *Runner) embedRecord(ctx context.Context, record *store.Record) bool {
	text := record.Content
	if record.Summary != "" {
		text = record.Summary + "\n" + record.Content
	}

	vector, err := r.index.Embed(ctx, text)
	if err != nil {
		r.logger.Warn("embedding failed, skipping record",
			"record_id", record.ID, "error", err)
		return false
	}

	now := time.Now().Unix()
	if _, err := r.store.UpsertRecordEmbedding(ctx, &store.RecordEmbedding{
		RecordID:  record.ID,
		Embedding: vector,
		Model:     r.index.Model(),
		CreatedTs: now,
		UpdatedTs: now,
	}); err != nil {
		r.logger.Warn("embedding upsert failed",
			"record_id", record.ID, "error", err)
		return false
	}
	return true
}

// Close releases the worker pool.
func (r *Runner) Close() {
	r.pool.Release()
}
