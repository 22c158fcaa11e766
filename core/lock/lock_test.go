package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Exclusive(t *testing.T) {
	l := NewLocal()

	release, err := l.Acquire(context.Background(), "issued")
	require.NoError(t, err)

	_, err = l.Acquire(context.Background(), "issued")
	assert.ErrorIs(t, err, ErrLocked)

	other, err := l.Acquire(context.Background(), "insurance")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Acquire(context.Background(), "issued")
	require.NoError(t, err)
	again()
}

func TestLocal_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocal().Acquire(ctx, "issued")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocal_ConcurrentContenders(t *testing.T) {
	l := NewLocal()
	release, err := l.Acquire(context.Background(), "issued")
	require.NoError(t, err)
	defer release()

	var (
		wg     sync.WaitGroup
		locked int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Acquire(context.Background(), "issued"); err == ErrLocked {
				atomic.AddInt32(&locked, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), atomic.LoadInt32(&locked))
}
