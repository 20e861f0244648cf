// Package persist loads and saves the library and the reading-date set.
//
// Loads never fail: a missing, corrupt or foreign value comes back as an empty
// collection. Saves never fail either: write errors are logged and remembered,
// and in-memory state stays authoritative for the rest of the session.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/store"
)

// Adapter maps the two persisted collections onto a key-value store.
type Adapter struct {
	kv     store.KV
	keys   Keys
	logger logger.Logger

	mu      sync.Mutex
	lastErr map[string]error // key -> error of its most recent save
}

// New creates an adapter writing under prefix.
func New(kv store.KV, prefix string, log logger.Logger) *Adapter {
	return &Adapter{
		kv:      kv,
		keys:    NewKeys(prefix),
		logger:  log.With(logger.Component("persist")),
		lastErr: make(map[string]error, 2),
	}
}

// Keys returns the key helpers in use.
func (a *Adapter) Keys() Keys { return a.keys }

// LoadBooks returns the stored books, normalized.
func (a *Adapter) LoadBooks(ctx context.Context) []domain.Book {
	var books []domain.Book
	if !a.load(ctx, a.keys.Books(), &books) {
		return []domain.Book{}
	}
	return domain.NormalizeAll(books)
}

// SaveBooks replaces the stored book list. Failures are logged, not returned.
func (a *Adapter) SaveBooks(ctx context.Context, books []domain.Book) {
	if books == nil {
		books = []domain.Book{}
	}
	a.save(ctx, a.keys.Books(), books, logger.Int("books", len(books)))
}

// LoadDates returns the stored reading dates, in stored order.
func (a *Adapter) LoadDates(ctx context.Context) []string {
	var dates []string
	if !a.load(ctx, a.keys.ReadingDates(), &dates) || dates == nil {
		return []string{}
	}
	return dates
}

// SaveDates replaces the stored reading-date set. Failures are logged, not returned.
func (a *Adapter) SaveDates(ctx context.Context, dates []string) {
	if dates == nil {
		dates = []string{}
	}
	a.save(ctx, a.keys.ReadingDates(), dates, logger.Int("dates", len(dates)))
}

// LoadSeeded returns the title+author keys already imported from the seed file.
func (a *Adapter) LoadSeeded(ctx context.Context) []string {
	var keys []string
	if !a.load(ctx, a.keys.Seeded(), &keys) || keys == nil {
		return []string{}
	}
	return keys
}

// SaveSeeded replaces the seed import ledger. Failures are logged, not returned.
func (a *Adapter) SaveSeeded(ctx context.Context, keys []string) {
	if keys == nil {
		keys = []string{}
	}
	a.save(ctx, a.keys.Seeded(), keys, logger.Int("seeded", len(keys)))
}

// LastSaveError joins the errors of the latest save of each key.
// It is nil once every key's most recent save succeeded.
func (a *Adapter) LastSaveError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return errors.Join(
		a.lastErr[a.keys.Books()],
		a.lastErr[a.keys.ReadingDates()],
		a.lastErr[a.keys.Seeded()],
	)
}

// Ping reports whether the backing store is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.kv.Ping(ctx)
}

// load decodes key into out and reports whether a usable value was found.
func (a *Adapter) load(ctx context.Context, key string, out any) bool {
	data, err := a.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.Warn("failed to read stored value, starting empty",
				logger.String("key", key),
				logger.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		a.logger.Warn("discarding malformed stored value",
			logger.String("key", key),
			logger.Int("bytes", len(data)),
			logger.Error(err))
		return false
	}
	return true
}

func (a *Adapter) save(ctx context.Context, key string, value any, size logger.Field) {
	data, err := json.Marshal(value)
	if err == nil {
		err = a.kv.Set(ctx, key, data)
	}

	a.mu.Lock()
	if err != nil {
		a.lastErr[key] = err
	} else {
		delete(a.lastErr, key)
	}
	a.mu.Unlock()

	if err != nil {
		// Don't fail - memory is the primary source for this session
		a.logger.Warn("failed to persist, keeping in-memory state",
			logger.String("key", key),
			size,
			logger.Error(err))
		return
	}
	a.logger.Debug("persisted", logger.String("key", key), size)
}
