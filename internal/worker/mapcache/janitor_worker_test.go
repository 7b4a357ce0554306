package mapcache_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/worker/mapcache"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) PurgeExpired() int {
	p.calls.Add(1)
	return 1
}

func (p *countingPurger) Len() int {
	return 0
}

func TestJanitorWorker_PurgesPeriodically(t *testing.T) {
	p := &countingPurger{}
	w := mapcache.NewJanitorWorker(p, 10*time.Millisecond, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	assert.NoError(t, w.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
	assert.Equal(t, "mapcache-janitor", w.Name())
}

func TestJanitorWorker_ContextCancel(t *testing.T) {
	w := mapcache.NewJanitorWorker(&countingPurger{}, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.Start(ctx), context.Canceled)
}
