package scheduler

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/library"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/sources/seed"
)

// Importer receives seeded drafts. *library.Library satisfies it.
type Importer interface {
	Import(ctx context.Context, drafts []library.Draft) library.ImportResult
}

// SeedLedger persists the title+author keys the reloader has already imported.
// *persist.Adapter satisfies it.
type SeedLedger interface {
	LoadSeeded(ctx context.Context) []string
	SaveSeeded(ctx context.Context, keys []string)
}

// SeedReloader periodically imports the seed file into the library.
// Books already present (same title and author) are left untouched, and an
// entry is imported at most once: deleting a seeded book keeps it deleted.
type SeedReloader struct {
	loader        *seed.Loader
	library       Importer
	ledger        SeedLedger
	logger        logger.Logger
	interval      time.Duration
	manualTrigger <-chan struct{}

	mu     sync.Mutex
	seeded map[string]bool // nil until first loaded from the ledger

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewSeedReloader creates a reloader for seedFile.
func NewSeedReloader(
	seedFile string,
	lib Importer,
	ledger SeedLedger,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *SeedReloader {
	return &SeedReloader{
		loader:        seed.NewLoader(seedFile),
		library:       lib,
		ledger:        ledger,
		logger:        log.With(logger.Component("seed_reloader")),
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start imports once, then keeps reloading on every tick or manual trigger.
func (sr *SeedReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if _, err := sr.Reload(ctx); err != nil {
		close(sr.done)
		return fmt.Errorf("initial seed import failed: %w", err)
	}

	ticker := time.NewTicker(sr.interval)
	go func() {
		defer close(sr.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sr.reloadLogged(ctx)
			case <-sr.manualTrigger:
				sr.logger.Info("manual seed reload triggered")
				sr.reloadLogged(ctx)
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop ends the reload loop and waits for it to exit. Safe to call twice.
func (sr *SeedReloader) Stop() {
	sr.stopOnce.Do(func() { close(sr.stopCh) })
	<-sr.done
}

// Reload reads the seed file and imports the entries never seeded before
// that are not already in the library.
func (sr *SeedReloader) Reload(ctx context.Context) (library.ImportResult, error) {
	sr.logger.Info("reloading seed library", logger.String("file", sr.loader.Path()))

	config, err := sr.loader.Load()
	if err != nil {
		return library.ImportResult{}, fmt.Errorf("failed to load seed file: %w", err)
	}

	drafts, rejected, err := seed.Map(config)
	for _, r := range rejected {
		sr.logger.Warn("skipping seed entry",
			logger.String("shelf", r.Shelf),
			logger.String("title", r.Title),
			logger.String("reason", r.Reason))
	}
	if err != nil {
		return library.ImportResult{}, fmt.Errorf("failed to map seed file: %w", err)
	}

	sr.mu.Lock()
	defer sr.mu.Unlock()

	if sr.seeded == nil {
		stored := sr.ledger.LoadSeeded(ctx)
		sr.seeded = make(map[string]bool, len(stored))
		for _, k := range stored {
			sr.seeded[k] = true
		}
	}

	fresh := make([]library.Draft, 0, len(drafts))
	for _, d := range drafts {
		if !sr.seeded[library.DedupeKey(d.Title, d.Author)] {
			fresh = append(fresh, d)
		}
	}

	res := sr.library.Import(ctx, fresh)
	res.Skipped += len(drafts) - len(fresh)

	if len(fresh) > 0 {
		for _, d := range fresh {
			sr.seeded[library.DedupeKey(d.Title, d.Author)] = true
		}
		keys := make([]string, 0, len(sr.seeded))
		for k := range sr.seeded {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		sr.ledger.SaveSeeded(ctx, keys)
	}

	sr.logger.Info("seed library imported",
		logger.Int("added", len(res.Added)),
		logger.Int("skipped", res.Skipped),
		logger.Int("rejected", len(rejected)))
	return res, nil
}

func (sr *SeedReloader) reloadLogged(ctx context.Context) {
	if _, err := sr.Reload(ctx); err != nil {
		sr.logger.Error("failed to reload seed library", logger.Error(err))
	}
}
