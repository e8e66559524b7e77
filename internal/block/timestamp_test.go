package block_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-provenance/internal/block"
	"github.com/feral-file/ff-provenance/internal/mocks"
)

func TestTimestampCache_AppendOnly(t *testing.T) {
	cache := block.NewTimestampCache()
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cache.Put("main", 100, first)
	cache.Put("main", 100, first.Add(time.Hour))

	got, ok := cache.Get("main", 100)
	require.True(t, ok)
	assert.Equal(t, first, got)
	assert.Equal(t, 1, cache.Len())
}

func TestTimestampCache_KeyedByEndpoint(t *testing.T) {
	cache := block.NewTimestampCache()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cache.Put("mainnet", 100, ts)

	_, ok := cache.Get("sepolia", 100)
	assert.False(t, ok)
	_, ok = cache.Get("mainnet", 101)
	assert.False(t, ok)
}

func TestTimestampResolver_Resolve_CachesResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockBlockFetcher(ctrl)
	cache := block.NewTimestampCache()
	resolver := block.NewTimestampResolver(fetcher, cache, nil)

	ctx := context.Background()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	fetcher.EXPECT().EndpointID().Return("main").AnyTimes()
	fetcher.EXPECT().FetchBlockTimestamp(gomock.Any(), uint64(100)).Return(ts, nil).Times(1)

	for range 3 {
		got, err := resolver.Resolve(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, ts, got)
	}
	assert.Equal(t, 1, cache.Len())
}

func TestTimestampResolver_Resolve_UsesSeededCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockBlockFetcher(ctrl)
	cache := block.NewTimestampCache()
	ts := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	cache.Put("main", 42, ts)

	fetcher.EXPECT().EndpointID().Return("main")

	got, err := block.NewTimestampResolver(fetcher, cache, nil).Resolve(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, ts, got)
}

func TestTimestampResolver_Resolve_ErrorNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockBlockFetcher(ctrl)
	cache := block.NewTimestampCache()
	resolver := block.NewTimestampResolver(fetcher, cache, nil)

	ctx := context.Background()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fetchErr := errors.New("node unavailable")

	fetcher.EXPECT().EndpointID().Return("main").AnyTimes()
	gomock.InOrder(
		fetcher.EXPECT().FetchBlockTimestamp(gomock.Any(), uint64(7)).Return(time.Time{}, fetchErr),
		fetcher.EXPECT().FetchBlockTimestamp(gomock.Any(), uint64(7)).Return(ts, nil),
	)

	_, err := resolver.Resolve(ctx, 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, 0, cache.Len())

	got, err := resolver.Resolve(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, ts, got)
}

func TestTimestampResolver_Resolve_ConcurrentMissesShareFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockBlockFetcher(ctrl)
	resolver := block.NewTimestampResolver(fetcher, block.NewTimestampCache(), nil)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	release := make(chan struct{})
	var fetches atomic.Int32

	fetcher.EXPECT().EndpointID().Return("main").AnyTimes()
	fetcher.EXPECT().FetchBlockTimestamp(gomock.Any(), uint64(100)).
		DoAndReturn(func(_ context.Context, _ uint64) (time.Time, error) {
			fetches.Add(1)
			<-release
			return ts, nil
		}).
		Times(1)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := resolver.Resolve(context.Background(), 100)
			assert.NoError(t, err)
			assert.Equal(t, ts, got)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load())
}

func TestTimestampResolver_Resolve_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockBlockFetcher(ctrl)
	cache := block.NewTimestampCache()
	resolver := block.NewTimestampResolver(fetcher, cache, nil)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher.EXPECT().EndpointID().Return("main").AnyTimes()
	fetcher.EXPECT().FetchBlockTimestamp(gomock.Any(), uint64(42)).
		DoAndReturn(func(ctx context.Context, _ uint64) (time.Time, error) {
			close(started)
			<-release
			if err := ctx.Err(); err != nil {
				return time.Time{}, err
			}
			return ts, nil
		}).
		Times(1)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := resolver.Resolve(ctxA, 42)
		errA <- err
	}()
	<-started

	type result struct {
		ts  time.Time
		err error
	}
	resB := make(chan result, 1)
	go func() {
		got, err := resolver.Resolve(context.Background(), 42)
		resB <- result{got, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, ts, b.ts)

	got, ok := cache.Get("main", 42)
	require.True(t, ok)
	assert.Equal(t, ts, got)
}
