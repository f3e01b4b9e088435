// SPDX-License-Identifier: MIT

package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/mrio/ingest"
)

const loadKey = "load"

// ErrNoSources indicates a Cache was built without both source URIs.
var ErrNoSources = errors.New("dataset: stressor and leontief sources are required")

// Loader reads and fingerprints the sources. *ingest.Loader implements it.
type Loader interface {
	Load(ctx context.Context, stressorsURI, leontiefURI string) (*ingest.Tables, error)
	Fingerprint(ctx context.Context, stressorsURI, leontiefURI string) (string, error)
}

// Store persists parsed tables by fingerprint. *snapshot.Store implements it.
type Store interface {
	Get(fingerprint string) (*ingest.Tables, bool, error)
	Put(fingerprint string, t *ingest.Tables) error
	Prune(keep string) (int, error)
}

// Cache hands out the current Snapshot. Safe for concurrent use.
type Cache struct {
	stressorsURI string
	leontiefURI  string
	loader       Loader
	store        Store
	logger       *zap.Logger
	debounce     time.Duration
	eager        bool

	cur atomic.Pointer[Snapshot]
	sf  singleflight.Group
	mu  sync.Mutex // serializes install against Invalidate
	gen uint64     // bumped by Invalidate; guarded by mu
}

// Option configures a Cache.
type Option func(*Cache)

// WithLoader replaces the default ingest.Loader.
func WithLoader(l Loader) Option {
	if l == nil {
		panic("dataset: WithLoader(nil)")
	}
	return func(c *Cache) { c.loader = l }
}

// WithStore enables the fingerprint-keyed snapshot store.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithLogger sets the logger; nil panics.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("dataset: WithLogger(nil)")
	}
	return func(c *Cache) { c.logger = l }
}

// WithDebounce sets how long Watch waits for a burst of file events to settle.
func WithDebounce(d time.Duration) Option {
	if d < 0 {
		panic("dataset: WithDebounce(negative)")
	}
	return func(c *Cache) { c.debounce = d }
}

// WithEagerReload makes Watch reload right after an invalidation instead of
// waiting for the next Get.
func WithEagerReload(on bool) Option {
	return func(c *Cache) { c.eager = on }
}

// DefaultDebounce is the Watch settle window.
const DefaultDebounce = 250 * time.Millisecond

// New returns a Cache for the given sources. Nothing is loaded until Get.
func New(stressorsURI, leontiefURI string, opts ...Option) (*Cache, error) {
	if stressorsURI == "" || leontiefURI == "" {
		return nil, ErrNoSources
	}
	c := &Cache{
		stressorsURI: stressorsURI,
		leontiefURI:  leontiefURI,
		logger:       zap.NewNop(),
		debounce:     DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.loader == nil {
		c.loader = ingest.NewLoader(ingest.WithLogger(c.logger))
	}

	return c, nil
}

// Sources returns the stressor and Leontief URIs.
func (c *Cache) Sources() (stressorsURI, leontiefURI string) {
	return c.stressorsURI, c.leontiefURI
}

// Current returns the installed Snapshot without loading; nil when none.
func (c *Cache) Current() *Snapshot { return c.cur.Load() }

// Get returns the current Snapshot, loading it on first use.
// Concurrent callers during a load share its outcome. The load is detached
// from the caller's cancellation so one impatient caller cannot fail the rest.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	if s := c.cur.Load(); s != nil {
		return s, nil
	}
	ch := c.sf.DoChan(loadKey, func() (interface{}, error) {
		if s := c.cur.Load(); s != nil {
			return s, nil
		}
		return c.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Snapshot), nil
	}
}

// Invalidate drops the current Snapshot; the next Get reloads. A load
// already in flight still answers its callers but is not installed.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.cur.Store(nil)
	c.mu.Unlock()
	c.sf.Forget(loadKey)
	invalidations.Inc()
	c.logger.Info("dataset invalidated")
}

// load builds a Snapshot and installs it unless Invalidate ran meanwhile.
func (c *Cache) load(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	ctx, span := tracer.Start(ctx, "dataset.Load")
	defer span.End()
	span.SetAttributes(
		attribute.String("mrio.stressors_uri", c.stressorsURI),
		attribute.String("mrio.leontief_uri", c.leontiefURI),
	)

	snap, err := c.resolve(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		c.logger.Error("dataset load failed", zap.Error(err))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("mrio.origin", string(snap.Origin)),
		attribute.Int("mrio.producers", snap.Tables.L.Producers().Len()),
	)

	c.mu.Lock()
	installed := gen == c.gen
	if installed {
		c.cur.Store(snap)
	}
	c.mu.Unlock()
	if installed {
		producersGauge.Set(float64(snap.Tables.L.Producers().Len()))
		stressorsGauge.Set(float64(len(snap.Catalog.Stressors)))
	}
	c.logger.Info("dataset ready",
		zap.String("origin", string(snap.Origin)),
		zap.String("fingerprint", snap.Fingerprint),
		zap.Int("stressors", len(snap.Catalog.Stressors)),
		zap.Int("producers", snap.Tables.L.Producers().Len()),
		zap.Bool("installed", installed))

	return snap, nil
}

// resolve consults the store, then parses the sources.
func (c *Cache) resolve(ctx context.Context) (*Snapshot, error) {
	var fp string
	if c.store != nil {
		var err error
		if fp, err = c.loader.Fingerprint(ctx, c.stressorsURI, c.leontiefURI); err != nil {
			return nil, fmt.Errorf("dataset: fingerprint: %w", err)
		}
		start := time.Now()
		t, ok, err := c.store.Get(fp)
		switch {
		case err != nil:
			c.logger.Warn("snapshot store lookup failed", zap.Error(err))
		case ok:
			loadTotal.WithLabelValues(string(OriginStore), "ok").Inc()
			loadDuration.WithLabelValues(string(OriginStore)).Observe(time.Since(start).Seconds())
			return newSnapshot(t, fp, OriginStore), nil
		}
	}

	start := time.Now()
	t, err := c.loader.Load(ctx, c.stressorsURI, c.leontiefURI)
	loadDuration.WithLabelValues(string(OriginCSV)).Observe(time.Since(start).Seconds())
	if err != nil {
		loadTotal.WithLabelValues(string(OriginCSV), "error").Inc()
		return nil, err
	}
	loadTotal.WithLabelValues(string(OriginCSV), "ok").Inc()

	if c.store != nil {
		if err = c.store.Put(fp, t); err != nil {
			c.logger.Warn("snapshot store write failed", zap.Error(err))
		} else if n, err := c.store.Prune(fp); err != nil {
			c.logger.Warn("snapshot store prune failed", zap.Error(err))
		} else if n > 0 {
			c.logger.Debug("pruned stale snapshots", zap.Int("count", n))
		}
	}

	return newSnapshot(t, fp, OriginCSV), nil
}
