package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Quota wraps a KV and rejects writes that would push the total size of
// known keys past a byte budget.
//
// Sizes are learned from every Get and Set that goes through the wrapper,
// so keys written behind its back are only counted once they are read.
type Quota struct {
	next  KV
	limit int

	mu    sync.Mutex
	sizes map[string]int
	used  int
}

// NewQuota creates a quota decorator. A limit <= 0 disables the check.
func NewQuota(next KV, limit int) *Quota {
	return &Quota{
		next:  next,
		limit: limit,
		sizes: make(map[string]int),
	}
}

// Get reads through and records the stored size of key.
func (q *Quota) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := q.next.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			q.track(key, 0)
		}
		return nil, err
	}
	q.track(key, len(key)+len(value))
	return value, nil
}

// Set writes through if the new total stays within budget.
// Check, write and accounting happen under one lock.
func (q *Quota) Set(ctx context.Context, key string, value []byte) error {
	size := len(key) + len(value)

	q.mu.Lock()
	defer q.mu.Unlock()

	if projected := q.used - q.sizes[key] + size; q.limit > 0 && projected > q.limit {
		return fmt.Errorf("write %q (%d bytes, %d/%d in use): %w", key, size, q.used, q.limit, ErrQuotaExceeded)
	}
	if err := q.next.Set(ctx, key, value); err != nil {
		return err
	}
	q.trackLocked(key, size)
	return nil
}

// Delete removes key and releases its share of the budget.
func (q *Quota) Delete(ctx context.Context, key string) error {
	if err := q.next.Delete(ctx, key); err != nil {
		return err
	}
	q.track(key, 0)
	return nil
}

// Ping delegates to the wrapped store.
func (q *Quota) Ping(ctx context.Context) error { return q.next.Ping(ctx) }

// Close delegates to the wrapped store.
func (q *Quota) Close() error { return q.next.Close() }

// Used returns the number of bytes currently accounted for.
func (q *Quota) Used() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used
}

// Limit returns the configured budget.
func (q *Quota) Limit() int { return q.limit }

func (q *Quota) track(key string, size int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.trackLocked(key, size)
}

func (q *Quota) trackLocked(key string, size int) {
	q.used += size - q.sizes[key]
	if size == 0 {
		delete(q.sizes, key)
		return
	}
	q.sizes[key] = size
}
