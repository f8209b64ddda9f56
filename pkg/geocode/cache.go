package geocode

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sendero-labs/sendero/pkg/geo"
	"go.uber.org/zap"
)

// Resolver turns a free-form query into a coordinate. the provider
// integration is injected so this layer stays testable offline.
type Resolver func(ctx context.Context, query string) (geo.Coordinate, error)

// FallbackCoordinate is WTC CDMX, the master fallback for unresolvable
// queries.
var FallbackCoordinate = geo.NewCoordinate(19.3948, -99.1736)

// Cache memoizes resolved queries in a JSON file so repeated lookups never
// pay for a second provider call.
type Cache struct {
	path     string
	resolver Resolver
	log      *zap.Logger

	mu      sync.Mutex
	entries map[string][2]float64 // query -> [lat, lon]
}

func NewCache(path string, resolver Resolver, log *zap.Logger) *Cache {
	c := &Cache{
		path:     path,
		resolver: resolver,
		log:      log,
		entries:  make(map[string][2]float64),
	}
	c.load()
	return c
}

func (c *Cache) load() {
	buf, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn("read geocode cache", zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(buf, &c.entries); err != nil {
		c.log.Warn("corrupt geocode cache, starting empty", zap.Error(err))
		c.entries = make(map[string][2]float64)
	}
}

func (c *Cache) persistLocked() {
	buf, err := json.Marshal(c.entries)
	if err != nil {
		c.log.Error("marshal geocode cache", zap.Error(err))
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), "geocache-*.json")
	if err != nil {
		c.log.Error("persist geocode cache", zap.Error(err))
		return
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		c.log.Error("persist geocode cache", zap.Error(err))
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		c.log.Error("persist geocode cache", zap.Error(err))
		return
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		c.log.Error("persist geocode cache", zap.Error(err))
	}
}

// Resolve returns the coordinate for a query and whether the WTC fallback was
// used. cache hits skip the resolver. resolver failures and out-of-range
// results fall back and are never cached, so a transient provider outage does
// not poison the file.
func (c *Cache) Resolve(ctx context.Context, query string) (geo.Coordinate, bool) {
	c.mu.Lock()
	if pair, ok := c.entries[query]; ok {
		c.mu.Unlock()
		return geo.NewCoordinate(pair[0], pair[1]), false
	}
	c.mu.Unlock()

	if c.resolver == nil {
		return FallbackCoordinate, true
	}

	coord, err := c.resolver(ctx, query)
	if err != nil {
		c.log.Error("geocode error, falling back to WTC CDMX",
			zap.String("query", query), zap.Error(err))
		return FallbackCoordinate, true
	}
	if err := geo.ValidateCoordinate(coord); err != nil {
		c.log.Error("geocode returned out-of-range coordinate, falling back to WTC CDMX",
			zap.String("query", query), zap.Error(err))
		return FallbackCoordinate, true
	}

	c.mu.Lock()
	c.entries[query] = [2]float64{coord.GetLat(), coord.GetLon()}
	c.persistLocked()
	c.mu.Unlock()

	return coord, false
}

func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
