package cache

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/krau/SaveFolio/pkg/extractor"
)

const (
	DefaultMaxEntries = 500
	DefaultTTL        = 10 * time.Minute
)

var ErrRejected = errors.New("cache rejected the entry")

type Config struct {
	MaxEntries int64
	TTL        time.Duration
}

// Cache holds extraction results keyed by source url. Each entry costs 1, so
// MaxEntries bounds the number of results. Entries expire TTL after they were
// written, regardless of reads. Eviction follows ristretto's TinyLFU
// admission, which approximates LRU: once the cache is full a new key may be
// refused in favour of more frequently used ones.
type Cache struct {
	c   *ristretto.Cache[string, *extractor.Result]
	ttl time.Duration
}

func New(cfg Config) (*Cache, error) {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, *extractor.Result]{
		NumCounters:        cfg.MaxEntries * 10,
		MaxCost:            cfg.MaxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
		OnReject: func(item *ristretto.Item[*extractor.Result]) {
			log.Warnf("Cache item rejected: key=%d", item.Key)
		},
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, ttl: cfg.TTL}, nil
}

// Get returns a copy of the stored result marked as cached.
func (c *Cache) Get(key string) (*extractor.Result, bool) {
	v, ok := c.c.Get(key)
	if !ok || v == nil {
		return nil, false
	}
	r := v.Clone()
	r.Meta.Cached = true
	return r, true
}

func (c *Cache) Set(key string, r *extractor.Result) error {
	if r == nil {
		return errors.New("nil result")
	}
	if ok := c.c.SetWithTTL(key, r.Clone(), 1, c.ttl); !ok {
		return ErrRejected
	}
	c.c.Wait()
	return nil
}

func (c *Cache) Delete(key string) {
	c.c.Del(key)
}

func (c *Cache) Close() {
	c.c.Close()
}
