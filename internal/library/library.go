// Package library owns the in-memory book list and writes it through to storage.
package library

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// Persister is the storage side of the library.
type Persister interface {
	LoadBooks(ctx context.Context) []domain.Book
	SaveBooks(ctx context.Context, books []domain.Book)
}

// Library is the book-state engine.
//
// Every operation runs under one mutex, including the write-through save,
// so mutations are serialized against the backing store.
type Library struct {
	mu     sync.Mutex
	books  []domain.Book // insertion order
	lastID int64

	persist Persister
	logger  logger.Logger
	now     func() time.Time
	newID   func() string
}

// Option customizes a Library.
type Option func(*Library)

// WithClock overrides time.Now (ids and timestamps).
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithIDGenerator overrides the reflection id generator.
func WithIDGenerator(gen func() string) Option {
	return func(l *Library) { l.newID = gen }
}

// New loads the stored books and returns a ready library.
// Books sharing an id (older clock-based writers could collide) get a fresh one,
// as does every reflection stored without an id. Repairs are saved right away.
func New(ctx context.Context, p Persister, log logger.Logger, opts ...Option) *Library {
	l := &Library{
		persist: p,
		logger:  log.With(logger.Component("library")),
		now:     time.Now,
		newID:   newReflectionID,
	}
	for _, opt := range opts {
		opt(l)
	}

	loaded := p.LoadBooks(ctx)
	for _, b := range loaded {
		if b.ID > l.lastID {
			l.lastID = b.ID
		}
	}

	seen := make(map[int64]bool, len(loaded))
	repaired := 0
	for _, b := range loaded {
		if seen[b.ID] {
			old := b.ID
			b.ID = l.nextID()
			repaired++
			l.logger.Warn("reassigned duplicate book id",
				logger.Int64("old_id", old),
				logger.Int64("new_id", b.ID),
				logger.String("title", b.Title))
		}
		seen[b.ID] = true
		if n := l.assignMissingReflectionIDs(&b); n > 0 {
			repaired += n
			l.logger.Info("assigned ids to stored reflections",
				logger.Int64("book_id", b.ID),
				logger.Int("reflections", n))
		}
		l.books = append(l.books, b)
	}
	if repaired > 0 {
		l.persist.SaveBooks(ctx, l.snapshotLocked())
	}

	l.logger.Info("library loaded", logger.Int("books", len(l.books)))
	return l
}

// assignMissingReflectionIDs gives every id-less reflection of b its own id
// and reports how many it changed. b's reflection slice is copied first.
func (l *Library) assignMissingReflectionIDs(b *domain.Book) int {
	n := 0
	for i, r := range b.PageReflections {
		if r.ID != "" {
			continue
		}
		if n == 0 {
			b.PageReflections = append([]domain.Reflection{}, b.PageReflections...)
		}
		b.PageReflections[i].ID = l.newID()
		n++
	}
	return n
}

// Count returns the number of books.
func (l *Library) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.books)
}

// Get returns a copy of the book with id.
func (l *Library) Get(id int64) (domain.Book, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return domain.Book{}, false
	}
	return l.books[i].Clone(), true
}

// nextID returns a timestamp-like id strictly greater than any issued before.
// Must be called with mu held (or before the library is shared).
func (l *Library) nextID() int64 {
	id := l.now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func (l *Library) indexLocked(id int64) int {
	for i := range l.books {
		if l.books[i].ID == id {
			return i
		}
	}
	return -1
}

// snapshotLocked copies the list for persistence or callers.
func (l *Library) snapshotLocked() []domain.Book {
	out := make([]domain.Book, len(l.books))
	for i, b := range l.books {
		out[i] = b.Clone()
	}
	return out
}

func (l *Library) saveLocked(ctx context.Context) {
	l.persist.SaveBooks(ctx, l.snapshotLocked())
}
