package session_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/cadmark/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocks_EntriesAreDropped(t *testing.T) {
	locks := session.NewLocks()
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("drawing-%d", i)
		require.NoError(t, locks.WithLock(ctx, id, func(context.Context) error { return nil }))
	}
	assert.Zero(t, locks.Held(), "idle drawings must not keep a lock entry")
}

func TestLocks_ReleasesOnPanic(t *testing.T) {
	locks := session.NewLocks()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = locks.WithLock(ctx, "d", func(context.Context) error { panic("boom") })
	})
	assert.Zero(t, locks.Held())

	done := make(chan struct{})
	go func() {
		_ = locks.WithLock(ctx, "d", func(context.Context) error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock still held after panic")
	}
}

func TestLocks_SerializesPerDrawing(t *testing.T) {
	locks := session.NewLocks()
	ctx := context.Background()

	var inside, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = locks.WithLock(ctx, "plan", func(context.Context) error {
				n := inside.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), peak.Load())
}

func TestLocks_OtherDrawingsDoNotWait(t *testing.T) {
	locks := session.NewLocks()
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = locks.WithLock(ctx, "a", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	done := make(chan struct{})
	go func() {
		_ = locks.WithLock(ctx, "b", func(context.Context) error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drawing b waited for drawing a")
	}
	assert.Equal(t, 1, locks.Held())
}
