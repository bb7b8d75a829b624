package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// BatchWatchdog fails retainer batches stuck in 'processing'. Import runs in
// the upload request, so a batch still processing after the window means the
// process died mid-import.
type BatchWatchdog struct {
	db           *sql.DB
	staleWindow  time.Duration
	tickInterval time.Duration
}

func NewBatchWatchdog(db *sql.DB) *BatchWatchdog {
	return &BatchWatchdog{
		db:           db,
		staleWindow:  time.Hour,
		tickInterval: 5 * time.Minute,
	}
}

func (w *BatchWatchdog) Start(ctx context.Context) {
	log.Println("🕒 Batch watchdog started (1h window)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.failStaleBatches(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Batch watchdog stopped")
			return
		case <-ticker.C:
			w.failStaleBatches(ctx)
		}
	}
}

func (w *BatchWatchdog) failStaleBatches(ctx context.Context) {
	query := `
		UPDATE retainer_batches
		SET
			status = 'failed',
			error_message = 'import interrupted'
		WHERE
			status = 'processing'
			AND started_at < NOW() - INTERVAL '1 hour'
		RETURNING id, law_firm_id, started_at
	`

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Stale batch query failed: %v", err)
		return
	}
	defer rows.Close()

	failedCount := 0
	for rows.Next() {
		var batchID, lawFirmID string
		var startedAt time.Time

		if err := rows.Scan(&batchID, &lawFirmID, &startedAt); err != nil {
			log.Printf("⚠️ Stale batch scan failed: %v", err)
			continue
		}

		elapsed := time.Since(startedAt)
		log.Printf("⏱️ Stale batch: id=%s firm=%s elapsed=%s",
			batchID, lawFirmID, elapsed.Round(time.Minute))
		failedCount++
	}

	if failedCount > 0 {
		log.Printf("✅ %d stale batch(es) marked failed", failedCount)
	}
}
