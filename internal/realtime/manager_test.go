package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewManager(rdb), mr
}

type snapshotRecorder struct {
	mu        sync.Mutex
	snapshots []interface{}
}

func (r *snapshotRecorder) record(snapshot interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
}

func (r *snapshotRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func (r *snapshotRecorder) last() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	m, _ := newTestManager(t)

	rec := &snapshotRecorder{}
	load := func(ctx context.Context) (interface{}, error) {
		return "initial", nil
	}

	sub, err := m.Subscribe(context.Background(), "test:key", load, rec.record)
	require.NoError(t, err)
	defer sub.Close()

	waitFor(t, func() bool { return rec.count() == 1 }, "initial snapshot never delivered")
	assert.Equal(t, "initial", rec.last())
	assert.Equal(t, Active, sub.State())
	assert.Equal(t, uint64(1), sub.Seq())
}

func TestPublishTriggersReload(t *testing.T) {
	m, _ := newTestManager(t)

	var mu sync.Mutex
	value := "v1"
	rec := &snapshotRecorder{}
	load := func(ctx context.Context) (interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		return value, nil
	}

	sub, err := m.Subscribe(context.Background(), "test:key", load, rec.record)
	require.NoError(t, err)
	defer sub.Close()

	waitFor(t, func() bool { return rec.count() == 1 }, "initial snapshot never delivered")

	mu.Lock()
	value = "v2"
	mu.Unlock()
	m.Publish(context.Background(), "test:key", []byte("changed"))

	waitFor(t, func() bool { return rec.count() == 2 }, "change snapshot never delivered")
	assert.Equal(t, "v2", rec.last(), "subscriber must reload, not trust the payload")
	assert.Equal(t, uint64(2), sub.Seq())
}

func TestNoCallbackAfterClose(t *testing.T) {
	m, _ := newTestManager(t)

	rec := &snapshotRecorder{}
	load := func(ctx context.Context) (interface{}, error) {
		return "snapshot", nil
	}

	sub, err := m.Subscribe(context.Background(), "test:key", load, rec.record)
	require.NoError(t, err)

	waitFor(t, func() bool { return rec.count() == 1 }, "initial snapshot never delivered")

	sub.Close()
	delivered := rec.count()
	assert.Equal(t, Unsubscribed, sub.State())

	// A publish after Close must never reach the callback.
	m.Publish(context.Background(), "test:key", []byte("late"))
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, delivered, rec.count())
}

func TestCloseIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)

	rec := &snapshotRecorder{}
	sub, err := m.Subscribe(context.Background(), "test:key", func(ctx context.Context) (interface{}, error) {
		return nil, nil
	}, rec.record)
	require.NoError(t, err)

	sub.Close()
	assert.NotPanics(t, func() { sub.Close() })
	assert.Equal(t, Unsubscribed, sub.State())
}

func TestSubscriptionsAreIndependent(t *testing.T) {
	m, _ := newTestManager(t)

	recA := &snapshotRecorder{}
	recB := &snapshotRecorder{}
	load := func(ctx context.Context) (interface{}, error) { return "x", nil }

	subA, err := m.Subscribe(context.Background(), "key:a", load, recA.record)
	require.NoError(t, err)
	defer subA.Close()

	subB, err := m.Subscribe(context.Background(), "key:b", load, recB.record)
	require.NoError(t, err)
	defer subB.Close()

	waitFor(t, func() bool { return recA.count() == 1 && recB.count() == 1 }, "initial snapshots never delivered")

	m.Publish(context.Background(), "key:a", []byte("changed"))

	waitFor(t, func() bool { return recA.count() == 2 }, "key:a snapshot never delivered")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, recB.count(), "publish on key:a must not reach key:b")
}

func TestPublishWithoutRedisIsSafe(t *testing.T) {
	m := NewManager(nil)
	assert.NotPanics(t, func() {
		m.Publish(context.Background(), "test:key", []byte("x"))
	})

	_, err := m.Subscribe(context.Background(), "test:key", func(ctx context.Context) (interface{}, error) {
		return nil, nil
	}, func(interface{}) {})
	assert.Error(t, err)
}
