package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/usecase"
)

// memCache - CacheRepository в памяти для тестов конкурентных запросов
type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memCache) GetTile(context.Context, int, int, int) ([]byte, error) { return nil, nil }

func (c *memCache) SetTile(context.Context, int, int, int, []byte, time.Duration) error { return nil }

func (c *memCache) GetStats(context.Context) (*domain.Statistics, error) { return nil, nil }

func (c *memCache) SetStats(context.Context, *domain.Statistics, time.Duration) error { return nil }

// gate - провайдер держит запрос до release или отмены своего ctx
type gate struct {
	calls    atomic.Int32
	canceled atomic.Int32
	started  chan struct{}
	once     sync.Once
	release  chan struct{}
}

func newGate() *gate {
	return &gate{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) error {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		g.canceled.Add(1)
		return ctx.Err()
	}
}

type slowGeocoder struct {
	*gate
	result domain.GeocodeResult
}

func (p *slowGeocoder) Name() string { return "nominatim" }

func (p *slowGeocoder) Geocode(ctx context.Context, _ string) (*domain.GeocodeResult, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	r := p.result
	return &r, nil
}

func (p *slowGeocoder) ReverseGeocode(context.Context, float64, float64) (*domain.GeocodeResult, error) {
	return nil, nil
}

type slowRouter struct {
	*gate
}

func (p *slowRouter) Name() string { return "osrm" }

func (p *slowRouter) Route(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return &domain.Route{From: from, To: to, DistanceKm: 35.2, Duration: 40 * time.Minute, Source: domain.SourceOSRM}, nil
}

func TestGeocode_ConcurrentCallersShareOneLookup(t *testing.T) {
	provider := &slowGeocoder{
		gate:   newGate(),
		result: domain.GeocodeResult{DisplayName: "Berlin", Lat: berlin.Lat, Lon: berlin.Lon, Source: domain.SourceNominatim},
	}
	uc := usecase.NewGeocodingUseCase(
		[]repository.GeocodingProvider{provider}, nil, nil, newMemCache(), geocodingConfig(), zap.NewNop())

	const callers = 8
	results := make([]*domain.GeocodeResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = uc.Geocode(context.Background(), "Berlin")
		}(i)
	}

	<-provider.started
	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	assert.Equal(t, int32(1), provider.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "Berlin", results[i].DisplayName)
		assert.Equal(t, berlin.Lat, results[i].Lat)
	}
}

func TestGeocode_CanceledCallerDoesNotFailOthers(t *testing.T) {
	provider := &slowGeocoder{
		gate:   newGate(),
		result: domain.GeocodeResult{DisplayName: "Berlin", Lat: berlin.Lat, Lon: berlin.Lon, Source: domain.SourceNominatim},
	}
	uc := usecase.NewGeocodingUseCase(
		[]repository.GeocodingProvider{provider}, nil, nil, newMemCache(), geocodingConfig(), zap.NewNop())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := uc.Geocode(firstCtx, "Berlin")
		firstErr <- err
	}()
	<-provider.started

	type outcome struct {
		result *domain.GeocodeResult
		err    error
	}
	second := make(chan outcome, 1)
	go func() {
		r, err := uc.Geocode(context.Background(), "Berlin")
		second <- outcome{r, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller did not return")
	}

	close(provider.release)
	select {
	case out := <-second:
		require.NoError(t, out.err)
		assert.Equal(t, domain.SourceNominatim, out.result.Source)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
	assert.Zero(t, provider.canceled.Load())
}

func TestDistance_CanceledCallerDoesNotDowngradeToEstimate(t *testing.T) {
	router := &slowRouter{gate: newGate()}
	uc := usecase.NewGeocodingUseCase(
		nil, []repository.RoutingProvider{router}, nil, newMemCache(), geocodingConfig(), zap.NewNop())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := uc.Distance(firstCtx, berlin, potsdam)
		firstErr <- err
	}()
	<-router.started

	second := make(chan *domain.Route, 1)
	go func() {
		route, err := uc.Distance(context.Background(), berlin, potsdam)
		assert.NoError(t, err)
		second <- route
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(router.release)
	select {
	case route := <-second:
		require.NotNil(t, route)
		assert.Equal(t, domain.SourceOSRM, route.Source)
		assert.Equal(t, 35.2, route.DistanceKm)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
}
