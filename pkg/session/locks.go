package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/cadmark/internal/logging"
	"github.com/aretw0/cadmark/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Locks hands out one lock per drawing. Callers in this process queue on a
// mutex; with a DistributedLocker the lock also spans processes. An entry
// lives only while someone holds or waits for it.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*entry

	remote ports.DistributedLocker
	ttl    time.Duration
	logger *slog.Logger
}

type entry struct {
	sync.Mutex
	users int
}

// Option configures Locks, and the Manager built on them.
type Option func(*Locks)

// WithLocker backs every lock with a distributed one.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(l *Locks) {
		l.remote = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(l *Locks) {
		l.ttl = ttl
	}
}

// WithLogger sets the logger for lock and store events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locks) {
		l.logger = logger
	}
}

// NewLocks returns an empty lock table.
func NewLocks(opts ...Option) *Locks {
	l := &Locks{
		entries: make(map[string]*entry),
		ttl:     DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Held is the number of drawings currently locked or waited for.
func (l *Locks) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Locks) enter(key string) *entry {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	e.users++
	l.mu.Unlock()

	e.Lock()
	return e
}

func (l *Locks) leave(key string, e *entry) {
	e.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if e.users--; e.users == 0 {
		delete(l.entries, key)
	}
}

// WithLock runs fn while holding the lock of drawing key, releasing it on
// every exit path including a panic in fn. Locks do not nest: fn must not
// call WithLock with the same key.
func (l *Locks) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	e := l.enter(key)
	defer l.leave(key, e)

	if l.remote != nil {
		unlock, err := l.remote.Lock(ctx, key, l.ttl)
		if err != nil {
			return fmt.Errorf("lock drawing %q: %w", key, err)
		}
		defer func() {
			// Released even when ctx is already done.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				l.logger.Warn("distributed lock not released, it will expire",
					"drawing_id", key, "ttl", l.ttl, "err", err)
			}
		}()
	}
	return fn(ctx)
}
