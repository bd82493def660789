package worker

import (
	"context"
	"time"

	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/repository"
)

// CleanupWorker periodically purges redeemed pins. The TTL index
// removes expired pins on its own schedule; this keeps the collection
// from accumulating used rows between expiries.
type CleanupWorker struct {
	pinRepo  repository.PassPinRepository
	interval time.Duration
	logger   *pkg.Logger
}

// DefaultCleanupInterval is how often the worker runs
const DefaultCleanupInterval = 15 * time.Minute

// NewCleanupWorker creates a new cleanup worker
func NewCleanupWorker(pinRepo repository.PassPinRepository, interval time.Duration, logger *pkg.Logger) *CleanupWorker {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CleanupWorker{
		pinRepo:  pinRepo,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the cleanup loop until the context is cancelled
func (w *CleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Cleanup worker started", map[string]interface{}{
		"interval": w.interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Cleanup worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *CleanupWorker) runOnce(ctx context.Context) {
	deleted, err := w.pinRepo.DeleteUsed(ctx)
	if err != nil {
		w.logger.Error("Pin cleanup failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if deleted > 0 {
		w.logger.Info("Purged redeemed pins", map[string]interface{}{
			"count": deleted,
		})
	}
}
