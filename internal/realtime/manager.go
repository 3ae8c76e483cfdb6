package realtime

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// State is the lifecycle of a Subscription.
type State int32

const (
	Unsubscribed State = iota
	Subscribing
	Active
)

// SnapshotLoader returns the full current result set for a subscription key.
// It is invoked once on subscribe and again for every change event; the
// manager always delivers whole snapshots, never diffs.
type SnapshotLoader func(ctx context.Context) (interface{}, error)

// SnapshotFunc receives the full current result set.
type SnapshotFunc func(snapshot interface{})

// Manager maintains live views over Redis pub/sub channels. Every publish on
// a channel means "this result set changed"; subscribers reload the full set
// and hand it to their callback.
type Manager struct {
	rdb *redis.Client
}

func NewManager(rdb *redis.Client) *Manager {
	return &Manager{rdb: rdb}
}

// Publish signals subscribers of key that the underlying result set changed.
// The payload is informational only; subscribers reload via their loader.
func (m *Manager) Publish(ctx context.Context, key string, payload []byte) {
	if m == nil || m.rdb == nil {
		return
	}
	if err := m.rdb.Publish(ctx, key, payload).Err(); err != nil {
		log.Printf("realtime publish failed on %s: %v", key, err)
	}
}

// Subscription is a live view over one channel. Snapshots are delivered in
// receipt order from a single goroutine; seq increases with each delivery so
// a stale snapshot can never overwrite a newer one.
type Subscription struct {
	mu     sync.Mutex
	state  State
	seq    uint64
	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

// State reports the current lifecycle state.
func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Seq reports how many snapshots have been delivered.
func (s *Subscription) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// deliver loads and delivers one snapshot while holding the lock, so Close
// cannot complete mid-delivery and no delivery can start after teardown.
func (s *Subscription) deliver(ctx context.Context, load SnapshotLoader, onSnapshot SnapshotFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Active {
		return
	}

	snapshot, err := load(ctx)
	if err != nil {
		log.Printf("realtime snapshot load failed: %v", err)
		return
	}

	s.seq++
	onSnapshot(snapshot)
}

// Close tears the subscription down. It is idempotent, and once it returns no
// further callback invocations occur, even if the transport delivers a late
// event.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.state == Unsubscribed {
		s.mu.Unlock()
		return
	}
	s.state = Unsubscribed
	s.cancel()
	if err := s.pubsub.Close(); err != nil {
		log.Printf("realtime unsubscribe failed: %v", err)
	}
	s.mu.Unlock()

	<-s.done
}

// Subscribe opens a live view over key. The loader is called for the initial
// snapshot and after every change event. Subscribe errors are returned, not
// retried; recovery is a fresh Subscribe call.
func (m *Manager) Subscribe(ctx context.Context, key string, load SnapshotLoader, onSnapshot SnapshotFunc) (*Subscription, error) {
	if m == nil || m.rdb == nil {
		return nil, fmt.Errorf("realtime manager is not available")
	}

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	sub := &Subscription{
		state:  Subscribing,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	pubsub := m.rdb.Subscribe(subCtx, key)

	// Wait for confirmation that the subscription is established before
	// reporting Active, so no change event can slip past the initial snapshot.
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", key, err)
	}

	sub.mu.Lock()
	sub.pubsub = pubsub
	sub.state = Active
	sub.mu.Unlock()

	ch := pubsub.Channel()

	go func() {
		defer close(sub.done)

		sub.deliver(subCtx, load, onSnapshot)

		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return
				}
				sub.deliver(subCtx, load, onSnapshot)
			case <-subCtx.Done():
				return
			}
		}
	}()

	return sub, nil
}
