package block

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/metrics"
)

// BlockFetcher fetches block information from one node endpoint
//
//go:generate mockgen -source=timestamp.go -destination=../mocks/block_fetcher.go -package=mocks -mock_names=BlockFetcher=MockBlockFetcher,TimestampResolver=MockTimestampResolver
type BlockFetcher interface {
	// EndpointID identifies the endpoint the fetcher talks to
	EndpointID() string

	// FetchLatestBlock fetches the latest block number
	FetchLatestBlock(ctx context.Context) (uint64, error)

	// FetchBlockTimestamp fetches the timestamp for a given block number
	FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// TimestampResolver maps block numbers to their timestamps
type TimestampResolver interface {
	// Resolve returns the timestamp of blockNumber, asking the node only on a cache miss
	Resolve(ctx context.Context, blockNumber uint64) (time.Time, error)
}

type cacheKey struct {
	endpointID  string
	blockNumber uint64
}

// TimestampCache is an append-only map of (endpoint, block) to block timestamp.
// Entries never expire: a block's timestamp cannot change once the block exists.
// One cache is meant to live for the whole process and may be shared between resolvers.
type TimestampCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]time.Time
}

func NewTimestampCache() *TimestampCache {
	return &TimestampCache{entries: make(map[cacheKey]time.Time)}
}

// Get returns the cached timestamp for the block on the given endpoint
func (c *TimestampCache) Get(endpointID string, blockNumber uint64) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ts, ok := c.entries[cacheKey{endpointID, blockNumber}]
	return ts, ok
}

// Put stores a timestamp; an existing entry is never overwritten
func (c *TimestampCache) Put(endpointID string, blockNumber uint64, ts time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey{endpointID, blockNumber}
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = ts
	}
}

// Len returns the number of cached entries
func (c *TimestampCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type timestampResolver struct {
	fetcher BlockFetcher
	cache   *TimestampCache
	metrics *metrics.Metrics
	group   singleflight.Group
}

// NewTimestampResolver creates a resolver backed by cache. Concurrent misses
// for the same block share a single request.
func NewTimestampResolver(fetcher BlockFetcher, cache *TimestampCache, m *metrics.Metrics) TimestampResolver {
	if cache == nil {
		cache = NewTimestampCache()
	}
	return &timestampResolver{
		fetcher: fetcher,
		cache:   cache,
		metrics: m,
	}
}

// Resolve returns the block timestamp from cache or the node
func (r *timestampResolver) Resolve(ctx context.Context, blockNumber uint64) (time.Time, error) {
	endpointID := r.fetcher.EndpointID()
	if ts, ok := r.cache.Get(endpointID, blockNumber); ok {
		r.metrics.RecordTimestampLookup("hit")
		return ts, nil
	}

	// The flight outlives any single caller: it runs detached from the caller
	// that started it, and each caller stops waiting on its own cancellation.
	flightCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(strconv.FormatUint(blockNumber, 10), func() (interface{}, error) {
		// re-check: the previous flight for this key may have just filled the cache
		if ts, ok := r.cache.Get(endpointID, blockNumber); ok {
			return ts, nil
		}

		ts, err := r.fetcher.FetchBlockTimestamp(flightCtx, blockNumber)
		if err != nil {
			return nil, err
		}
		r.cache.Put(endpointID, blockNumber, ts)
		return ts, nil
	})

	var (
		v      interface{}
		err    error
		shared bool
	)
	select {
	case res := <-ch:
		v, err, shared = res.Val, res.Err, res.Shared
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		r.metrics.RecordTimestampLookup("error")
		logger.DebugCtx(ctx, "Failed to resolve block timestamp",
			zap.Uint64("block_number", blockNumber),
			zap.Error(err))
		return time.Time{}, fmt.Errorf("failed to resolve timestamp for block %d: %w", blockNumber, err)
	}

	if shared {
		r.metrics.RecordTimestampLookup("shared")
	} else {
		r.metrics.RecordTimestampLookup("miss")
	}
	return v.(time.Time), nil
}
