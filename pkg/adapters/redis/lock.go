package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aretw0/cadmark/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// LockPollInterval is how often a contended drawing lock is retried.
var LockPollInterval = 50 * time.Millisecond

// unlockScript deletes the lock only while it still holds our token.
var unlockScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker implements ports.DistributedLocker using Redis, guarding writes to
// a drawing shared by several engine processes.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a locker whose keys live under prefix+"lock:".
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{client: client, prefix: prefix}
}

func (l *Locker) key(drawing string) string {
	return l.prefix + "lock:" + drawing
}

// Lock blocks until the drawing lock is held or ctx ends. The lock expires
// after ttl if its holder never releases it.
func (l *Locker) Lock(ctx context.Context, drawing string, ttl time.Duration) (ports.UnlockFunc, error) {
	key := l.key(drawing)
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(LockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %q: %w", drawing, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return unlockScript.Run(ctx, l.client, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func newToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("lock token: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
