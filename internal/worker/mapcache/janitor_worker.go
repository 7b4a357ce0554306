// Package mapcache - периодическая очистка in-memory кеша статических карт
package mapcache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/worker"
)

// Purger - кеш, из которого можно удалить просроченные записи
type Purger interface {
	PurgeExpired() int
	Len() int
}

type JanitorWorker struct {
	*worker.BaseWorker
	cache    Purger
	interval time.Duration
}

func NewJanitorWorker(cache Purger, interval time.Duration, logger *zap.Logger) *JanitorWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &JanitorWorker{
		BaseWorker: worker.NewBaseWorker("mapcache-janitor", logger),
		cache:      cache,
		interval:   interval,
	}
}

func (w *JanitorWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := w.cache.PurgeExpired(); removed > 0 {
				w.Logger().Debug("Purged expired static maps",
					zap.Int("removed", removed),
					zap.Int("remaining", w.cache.Len()))
			}
		}
	}
}
