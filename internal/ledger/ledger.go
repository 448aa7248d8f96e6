// Package ledger owns the in-memory budget snapshot. Every mutation is validated,
// applied under a lock and written back to the store as a whole snapshot.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/store"
)

// Persister loads and saves whole snapshots. store.Snapshots satisfies it.
type Persister interface {
	Load(ctx context.Context) (model.Snapshot, error)
	Save(ctx context.Context, s model.Snapshot) error
}

// Options configures a Ledger. Zero values select production defaults.
type Options struct {
	Logger *zap.Logger
	Now    func() time.Time
	NewID  func() string
}

// Ledger is the single owner of budget state. It is safe for concurrent use.
type Ledger struct {
	mu        sync.RWMutex
	p         Persister
	log       *zap.Logger
	now       func() time.Time
	newID     func() string
	snap      model.Snapshot
	recovered bool
	// dirty is set while the in-memory state has a mutation the store
	// has not accepted yet.
	dirty bool
}

// Open loads the snapshot from p. A missing key seeds the default snapshot.
// An unreachable store or corrupt blob is logged and also falls back to the
// default snapshot, so Open never fails; Recovered reports that case.
func Open(ctx context.Context, p Persister, opts Options) *Ledger {
	l := &Ledger{
		p:     p,
		log:   opts.Logger,
		now:   opts.Now,
		newID: opts.NewID,
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.newID == nil {
		l.newID = uuid.NewString
	}

	snap, err := p.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		l.log.Info("no stored budget, seeding defaults")
		snap = model.DefaultSnapshot()
	default:
		l.log.Error("loading budget failed, using defaults", zap.Error(err))
		snap = model.DefaultSnapshot()
		l.recovered = true
	}
	l.snap = l.normalize(snap)
	return l
}

// Recovered reports whether Open fell back to defaults after a load error.
func (l *Ledger) Recovered() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.recovered
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() model.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap.Clone()
}

// Now returns the ledger clock.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Reload re-reads the store so changes written by another process become
// visible. On error the current state is kept. While a failed write is
// pending, Reload retries the write instead of replacing the unsaved state.
func (l *Ledger) Reload(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dirty {
		if err := l.p.Save(ctx, l.snap); err != nil {
			l.log.Warn("unsaved budget changes, skipping reload", zap.Error(err))
			return fmt.Errorf("retrying save: %w: %w", ErrPersist, err)
		}
		l.dirty = false
		l.log.Info("saved pending budget changes")
		return nil
	}

	snap, err := l.p.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reloading budget: %w", err)
	}

	l.snap = l.normalize(snap)
	l.recovered = false
	return nil
}

// Dirty reports whether a mutation is held in memory after a failed write.
func (l *Ledger) Dirty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dirty
}

// normalize fills nil collections and re-derives TotalSpent from the categories.
func (l *Ledger) normalize(s model.Snapshot) model.Snapshot {
	if s.Categories == nil {
		s.Categories = make(map[string]model.BudgetCategory)
	}
	sum := s.SumCategorySpent()
	if !sum.Equal(s.TotalSpent) {
		l.log.Warn("total spent drifted from category spend, re-deriving",
			zap.String("stored", s.TotalSpent.String()),
			zap.String("derived", sum.String()))
		s.TotalSpent = sum
	}
	return s
}

// mutate applies fn to a copy of the state, installs the result and persists it.
// The new state stays in memory even when the write fails.
func (l *Ledger) mutate(ctx context.Context, op string, fn func(s *model.Snapshot) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.snap.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	next.TotalSpent = next.SumCategorySpent()
	l.snap = next

	if err := l.p.Save(ctx, next); err != nil {
		l.dirty = true
		l.log.Error("persisting budget failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w: %w", op, ErrPersist, err)
	}
	l.dirty = false
	l.log.Debug("budget saved", zap.String("op", op))
	return nil
}

func (l *Ledger) today() model.Date {
	return model.DateOf(l.now())
}
