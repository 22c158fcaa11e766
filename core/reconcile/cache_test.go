package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingResolver(calls *int32, err error) Resolver {
	return ResolverFunc(func(_ context.Context, id string) (Entity, error) {
		atomic.AddInt32(calls, 1)
		if err != nil {
			return Entity{}, err
		}
		return Entity{Identifier: id, FullName: "Org " + id}, nil
	})
}

func TestCachedResolver_CachesHits(t *testing.T) {
	var calls int32
	c := NewCachedResolver(countingResolver(&calls, nil), time.Minute)

	for i := 0; i < 3; i++ {
		e, err := c.Resolve(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, "Org 1", e.FullName)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCachedResolver_Expires(t *testing.T) {
	var calls int32
	c := NewCachedResolver(countingResolver(&calls, nil), time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	_, _ = c.Resolve(context.Background(), "1")
	now = now.Add(2 * time.Minute)
	_, _ = c.Resolve(context.Background(), "1")

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedResolver_DoesNotCacheFailures(t *testing.T) {
	var calls int32
	c := NewCachedResolver(countingResolver(&calls, ErrNotFound), time.Minute)

	_, err := c.Resolve(context.Background(), "1")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.Resolve(context.Background(), "1")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedResolver_ZeroTTL(t *testing.T) {
	var calls int32
	c := NewCachedResolver(countingResolver(&calls, nil), 0)

	_, _ = c.Resolve(context.Background(), "1")
	_, _ = c.Resolve(context.Background(), "1")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedResolver_Concurrent(t *testing.T) {
	var calls int32
	c := NewCachedResolver(countingResolver(&calls, nil), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := c.Resolve(context.Background(), "42")
			assert.NoError(t, err)
			assert.Equal(t, "42", e.Identifier)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(20))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}
