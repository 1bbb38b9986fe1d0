package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"listing-insights/models"
	"listing-insights/storage"
	"listing-insights/utils"
)

// CacheManager owns the single cleaned, enriched record set in memory, keyed
// by the data source's freshness signal. Queries share the cached generation
// without locking beyond a read of the entry pointer; rebuilds for the same
// signal are coalesced so concurrent cache misses parse the source once.
type CacheManager struct {
	source   storage.Source
	parser   *Parser
	cleaner  *Cleaner
	enricher *Enricher
	logger   *utils.Logger

	ttl     time.Duration
	timeout time.Duration

	mu    sync.RWMutex
	entry *cacheEntry
	group singleflight.Group
}

type cacheEntry struct {
	listings []*models.Listing
	signal   int64
	builtAt  time.Time
}

// NewCacheManager wires the parse → clean → enrich pipeline behind a
// freshness-checked cache.
func NewCacheManager(source storage.Source, parser *Parser, cleaner *Cleaner,
	enricher *Enricher, ttl, timeout time.Duration, logger *utils.Logger) *CacheManager {
	return &CacheManager{
		source:   source,
		parser:   parser,
		cleaner:  cleaner,
		enricher: enricher,
		logger:   logger,
		ttl:      ttl,
		timeout:  timeout,
	}
}

// Get returns the current cached generation, rebuilding it first when the
// source is newer than the cached signal or the entry has outlived its TTL.
// A failed rebuild leaves the previous generation intact and returns it
// alongside the error so the caller can decide whether stale data will do.
func (m *CacheManager) Get(ctx context.Context) ([]*models.Listing, error) {
	signal, err := m.source.Freshness()
	if err != nil {
		return m.cached(), fmt.Errorf("freshness signal: %w", err)
	}

	if listings, ok := m.fresh(signal); ok {
		return listings, nil
	}

	// All concurrent misses for this signal collapse into one rebuild.
	v, err, _ := m.group.Do(strconv.FormatInt(signal, 10), func() (any, error) {
		if listings, ok := m.fresh(signal); ok {
			return listings, nil
		}
		return m.rebuild(signal)
	})
	if err != nil {
		return m.cached(), err
	}
	return v.([]*models.Listing), nil
}

// fresh returns the cached set when it is valid for the given signal: built
// from a signal at least as new, within its TTL.
func (m *CacheManager) fresh(signal int64) ([]*models.Listing, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entry == nil {
		return nil, false
	}
	if time.Since(m.entry.builtAt) >= m.ttl || signal > m.entry.signal {
		return nil, false
	}
	return m.entry.listings, true
}

func (m *CacheManager) cached() []*models.Listing {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entry == nil {
		return nil
	}
	return m.entry.listings
}

func (m *CacheManager) rebuild(signal int64) ([]*models.Listing, error) {
	// The rebuild serves every coalesced caller, so it runs under its own
	// timeout rather than any single caller's context.
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	started := time.Now()
	text, err := m.source.ReadRaw(ctx)
	if err != nil {
		m.logger.Error("[cache] Rebuild failed, keeping previous generation: %v", err)
		return nil, fmt.Errorf("cache rebuild: %w", err)
	}

	listings := m.enricher.Enrich(m.cleaner.Clean(m.parser.Parse(text)))

	m.mu.Lock()
	m.entry = &cacheEntry{listings: listings, signal: signal, builtAt: time.Now()}
	m.mu.Unlock()

	m.logger.Info("[cache] Rebuilt generation %d: %d listings in %v",
		signal, len(listings), time.Since(started).Round(time.Millisecond))
	return listings, nil
}
