package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/domain"
)

// NonceSweeper drops consumed nonces whose authorization window has closed.
// A nonce past validBefore can no longer pass verification, so it is safe to forget.
type NonceSweeper struct {
	store    domain.NonceStore
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewNonceSweeper(store domain.NonceStore, interval time.Duration, logger *slog.Logger) *NonceSweeper {
	return &NonceSweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

func (w *NonceSweeper) Start(ctx context.Context) {
	w.logger.Info("nonce sweeper started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("nonce sweeper stopping")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *NonceSweeper) sweep(ctx context.Context) {
	purged, err := w.store.PurgeExpired(ctx, w.now())
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("nonce sweep failed", "error", err)
		}
		return
	}

	if purged > 0 {
		w.logger.Info("purged expired nonces", "count", purged)
	}
}
