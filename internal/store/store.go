// Package store defines the durable key-value contract shared by every backend.
//
// Semantics follow browser local storage: string keys, whole-value reads and
// writes, no transactions across keys and a bounded byte budget.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("store: key not found")
	// ErrQuotaExceeded is returned by Set when the write would exceed the byte budget.
	ErrQuotaExceeded = errors.New("store: quota exceeded")
)

// DefaultQuotaBytes mirrors the usual per-origin local storage budget.
const DefaultQuotaBytes = 5 * 1024 * 1024

// KV is a synchronous, string-keyed durable store.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}
