package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/placenet/placement-backend/internal/service"
)

// RetentionWorker periodically deletes proctoring evidence frames older
// than the configured retention window.
type RetentionWorker struct {
	evidence  *service.EvidenceService
	retention time.Duration
	interval  time.Duration
	log       zerolog.Logger
}

// NewRetentionWorker creates a new RetentionWorker.
func NewRetentionWorker(evidence *service.EvidenceService, retention time.Duration, log zerolog.Logger) *RetentionWorker {
	return &RetentionWorker{
		evidence:  evidence,
		retention: retention,
		interval:  time.Hour,
		log:       log.With().Str("component", "retention_worker").Logger(),
	}
}

// Start begins the periodic purge loop. Call in a goroutine.
func (w *RetentionWorker) Start(ctx context.Context) {
	w.log.Info().Dur("retention", w.retention).Msg("Worker started")

	// Purge once at startup so a long-stopped server catches up immediately.
	w.purge()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.purge()
		}
	}
}

func (w *RetentionWorker) purge() {
	cutoff := time.Now().Add(-w.retention)

	removed, err := w.evidence.PurgeOlderThan(cutoff)
	if err != nil {
		w.log.Error().Err(err).Msg("Evidence purge failed")
		return
	}

	if removed > 0 {
		w.log.Info().Int("removed", removed).Time("cutoff", cutoff).Msg("Purged expired evidence frames")
	}
}
