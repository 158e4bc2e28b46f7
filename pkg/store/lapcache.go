package store

import (
	"context"
	"sync"
	"time"

	"github.com/openpitwall/telemetry-compare-go/log"
	"github.com/openpitwall/telemetry-compare-go/pkg/model"
)

type lapKey struct {
	Driver string
	Lap    int
}

type cacheItem struct {
	data    *model.DriverTelemetry
	expires time.Time
}

type lapLoader func(ctx context.Context, key lapKey) (*model.DriverTelemetry, error)

// lapCache keeps parsed lap files around for a while so repeated comparisons
// over the same laps skip the disk. Entries expire; the loader repopulates
// them on demand.
type lapCache struct {
	mutex  sync.Mutex
	items  map[lapKey]cacheItem
	ttl    time.Duration
	loader lapLoader
	l      *log.Logger
}

func newLapCache(ttl time.Duration, loader lapLoader, l *log.Logger) *lapCache {
	return &lapCache{
		items:  make(map[lapKey]cacheItem),
		ttl:    ttl,
		loader: loader,
		l:      l.Named("cache"),
	}
}

func (c *lapCache) Get(ctx context.Context, key lapKey) (*model.DriverTelemetry, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if item, ok := c.items[key]; ok {
		if item.expires.After(time.Now()) {
			return item.data, nil
		}
		delete(c.items, key)
	}
	return c.load(ctx, key)
}

func (c *lapCache) load(ctx context.Context, key lapKey) (*model.DriverTelemetry, error) {
	c.l.Debug("loading lap", log.String("driver", key.Driver), log.Int("lap", key.Lap))
	data, err := c.loader(ctx, key)
	if err != nil {
		return nil, err
	}
	c.items[key] = cacheItem{data: data, expires: time.Now().Add(c.ttl)}
	return data, nil
}

func (c *lapCache) Invalidate(key lapKey) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
}
