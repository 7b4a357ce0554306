// Package mapcache - in-memory кеш отрендеренных статических карт с TTL и LRU вытеснением
package mapcache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/pkg/metrics"
)

const (
	DefaultTTL        = 30 * time.Minute
	DefaultMaxEntries = 100

	metricsName = "static_map"
)

// Stats - счётчики кеша
type Stats struct {
	Entries           int   `json:"entries"`
	Hits              int64 `json:"hits"`
	Misses            int64 `json:"misses"`
	ExpiredEvictions  int64 `json:"expired_evictions"`
	CapacityEvictions int64 `json:"capacity_evictions"`
	MaxEntries        int   `json:"max_entries"`
	TTLSeconds        int64 `json:"ttl_seconds"`
}

type entry struct {
	key       string
	image     *domain.MapImage
	expiresAt time.Time
}

// Cache - потокобезопасный кеш, голова списка - самая свежая по обращению запись
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	items      map[string]*list.Element
	order      *list.List
	now        func() time.Time

	hits, misses                int64
	expiredEvicted, sizeEvicted int64
}

func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		items:      make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		now:        time.Now,
	}
}

// Key - стабильный ключ для (центр, маркеры, размер, зум).
// Порядок маркеров значим: он определяет порядок отрисовки.
func Key(center domain.Coordinate, markers []domain.Coordinate, width, height, zoom int) string {
	var b strings.Builder
	b.WriteString("c=")
	writeCoord(&b, center)
	b.WriteString("|m=")
	for i, m := range markers {
		if i > 0 {
			b.WriteByte(';')
		}
		writeCoord(&b, m)
	}
	b.WriteString("|s=")
	b.WriteString(strconv.Itoa(width))
	b.WriteByte('x')
	b.WriteString(strconv.Itoa(height))
	b.WriteString("|z=")
	b.WriteString(strconv.Itoa(zoom))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeCoord(b *strings.Builder, c domain.Coordinate) {
	b.WriteString(strconv.FormatFloat(c.Lat, 'f', 6, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(c.Lon, 'f', 6, 64))
}

// Get возвращает изображение; просроченная запись считается промахом и удаляется
func (c *Cache) Get(key string) (*domain.MapImage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.miss()
		return nil, false
	}

	e := el.Value.(*entry)
	if !c.now().Before(e.expiresAt) {
		c.remove(el)
		c.expiredEvicted++
		metrics.CacheEvictionsTotal.WithLabelValues(metricsName, "expired").Inc()
		c.miss()
		return nil, false
	}

	c.order.MoveToFront(el)
	c.hits++
	metrics.CacheOperationsTotal.WithLabelValues(metricsName, "hit").Inc()
	return e.image, true
}

// Set сохраняет изображение. При превышении лимита сначала удаляются
// просроченные записи, затем наименее используемые.
func (c *Cache) Set(key string, image *domain.MapImage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.image = image
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, image: image, expiresAt: expiresAt})

	if len(c.items) > c.maxEntries {
		c.purgeExpired()
	}
	for len(c.items) > c.maxEntries {
		c.remove(c.order.Back())
		c.sizeEvicted++
		metrics.CacheEvictionsTotal.WithLabelValues(metricsName, "capacity").Inc()
	}
}

// PurgeExpired удаляет все просроченные записи и возвращает их количество
func (c *Cache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeExpired()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:           len(c.items),
		Hits:              c.hits,
		Misses:            c.misses,
		ExpiredEvictions:  c.expiredEvicted,
		CapacityEvictions: c.sizeEvicted,
		MaxEntries:        c.maxEntries,
		TTLSeconds:        int64(c.ttl / time.Second),
	}
}

func (c *Cache) purgeExpired() int {
	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*entry).expiresAt) {
			c.remove(el)
			removed++
		}
		el = prev
	}
	if removed > 0 {
		c.expiredEvicted += int64(removed)
		metrics.CacheEvictionsTotal.WithLabelValues(metricsName, "expired").Add(float64(removed))
	}
	return removed
}

func (c *Cache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

func (c *Cache) miss() {
	c.misses++
	metrics.CacheOperationsTotal.WithLabelValues(metricsName, "miss").Inc()
}
