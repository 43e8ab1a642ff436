package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*Lock)(nil)

const lockPrefix = "edutech:lock:"

// Lock implements DistributedLock using Redis SET NX with TTL.
// Every successful Acquire stores a fresh token, so a lock can only be
// released or extended by the holder that took it, even within one process.
type Lock struct {
	client  *redis.Client
	ownerID string

	mu     sync.Mutex
	tokens map[string]string
}

// NewLock creates a new Redis-backed distributed lock.
func NewLock(client *redis.Client) *Lock {
	hostname, _ := os.Hostname()
	return &Lock{
		client:  client,
		ownerID: fmt.Sprintf("%s:%d", hostname, os.Getpid()),
		tokens:  make(map[string]string),
	}
}

// Acquire attempts to acquire a named lock with the given TTL.
// Returns true if acquired, false if already held by anyone.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	token := l.ownerID + ":" + uuid.NewString()

	acquired, err := l.client.SetNX(ctx, lockPrefix+name, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if acquired {
		l.mu.Lock()
		l.tokens[name] = token
		l.mu.Unlock()
	}
	return acquired, nil
}

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Release releases a named lock if this instance holds it.
// Safe to call even if the lock is not held or has expired.
func (l *Lock) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	token, held := l.tokens[name]
	delete(l.tokens, name)
	l.mu.Unlock()

	if !held {
		return nil
	}

	_, err := releaseScript.Run(ctx, l.client, []string{lockPrefix + name}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

// extendScript refreshes the TTL only while the key still holds our token
var extendScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Extend extends the TTL of a held lock.
// Returns an error if this instance does not hold it.
func (l *Lock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	l.mu.Lock()
	token, held := l.tokens[name]
	l.mu.Unlock()

	if !held {
		return fmt.Errorf("lock %s not held by this instance", name)
	}

	result, err := extendScript.Run(ctx, l.client, []string{lockPrefix + name}, token, ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("extend lock %s: %w", name, err)
	}
	if result == 0 {
		return fmt.Errorf("lock %s expired", name)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (l *Lock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
