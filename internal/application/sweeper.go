package application

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AvailabilityReconciler is the part of ReservationService the sweeper needs.
type AvailabilityReconciler interface {
	ReconcileAllRooms(ctx context.Context) (*ReconcileSummary, error)
}

// ReconcileSweeper periodically recomputes every room's availability so
// rooms free up once their last guest has checked out.
type ReconcileSweeper struct {
	reconciler AvailabilityReconciler
	interval   time.Duration
	logger     *zap.Logger
}

// NewReconcileSweeper creates a sweeper. A non-positive interval disables it.
func NewReconcileSweeper(reconciler AvailabilityReconciler, interval time.Duration, logger *zap.Logger) *ReconcileSweeper {
	return &ReconcileSweeper{reconciler: reconciler, interval: interval, logger: logger}
}

// Run sweeps on every tick until ctx is done.
func (w *ReconcileSweeper) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("availability sweeper disabled")
		return
	}

	w.logger.Info("availability sweeper started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("availability sweeper stopped")
			return
		case <-ticker.C:
			if _, err := w.reconciler.ReconcileAllRooms(ctx); err != nil {
				w.logger.Warn("availability sweep failed", zap.Error(err))
			}
		}
	}
}
