package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/cbudget/internal/model"
)

// Snapshots reads and writes the whole budget snapshot under one key.
type Snapshots struct {
	KV  KV
	Key string
}

// Load decodes the snapshot. It returns ErrNotFound when nothing has been
// saved yet and an error wrapping ErrCorrupt when the blob does not decode.
func (s Snapshots) Load(ctx context.Context) (model.Snapshot, error) {
	data, err := s.KV.Get(ctx, s.Key)
	if err != nil {
		return model.Snapshot{}, err
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: key %s: %v", ErrCorrupt, s.Key, err)
	}
	if snap.Categories == nil {
		snap.Categories = make(map[string]model.BudgetCategory)
	}
	return snap, nil
}

// Save replaces the stored snapshot.
func (s Snapshots) Save(ctx context.Context, snap model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.KV.Put(ctx, s.Key, data); err != nil {
		return fmt.Errorf("writing key %s: %w", s.Key, err)
	}
	return nil
}

// Unavailable stands in for a store that could not be opened. Every Load and
// Save returns Err, so a ledger over it runs on defaults in memory.
type Unavailable struct {
	Err error
}

// Load returns u.Err.
func (u Unavailable) Load(context.Context) (model.Snapshot, error) {
	return model.Snapshot{}, u.Err
}

// Save returns u.Err.
func (u Unavailable) Save(context.Context, model.Snapshot) error {
	return u.Err
}
