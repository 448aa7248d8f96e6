package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/model"
)

func openBackends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	sq, err := OpenSQLite(filepath.Join(dir, "budget.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	bo, err := OpenBolt(filepath.Join(dir, "budget.bolt"))
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	backends := map[string]KV{"sqlite": sq, "bolt": bo, "memory": NewMemory()}
	t.Cleanup(func() {
		for _, kv := range backends {
			_ = kv.Close()
		}
	})
	return backends
}

func TestKV_GetPut(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
			}
			if err := kv.Put(ctx, "k", []byte("one")); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := kv.Put(ctx, "k", []byte("two")); err != nil {
				t.Fatalf("Put overwrite: %v", err)
			}
			got, err := kv.Get(ctx, "k")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != "two" {
				t.Fatalf("Get = %q, want two", got)
			}
		})
	}
}

func TestSnapshots_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			snaps := Snapshots{KV: kv, Key: config.DefaultStoreKey}
			if _, err := snaps.Load(ctx); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load before save err = %v, want ErrNotFound", err)
			}

			want := model.DefaultSnapshot()
			if err := snaps.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := snaps.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSnapshots_Corrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	_ = kv.Put(ctx, "studentBudgetData", []byte("{not json"))

	_, err := Snapshots{KV: kv, Key: "studentBudgetData"}.Load(ctx)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load err = %v, want ErrCorrupt", err)
	}
}

func TestSnapshots_AcceptsNumericAmounts(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	blob := `{
  "totalBudget": 1200,
  "totalSpent": 45.5,
  "categories": {"Food & Dining": {"budget": 400, "spent": 45.5, "color": "blue"}},
  "recentExpenses": [{"id": "1", "description": "Lunch", "amount": 45.5, "category": "Food & Dining", "date": "2024-01-15"}],
  "goals": []
}`
	_ = kv.Put(ctx, "studentBudgetData", []byte(blob))

	snap, err := Snapshots{KV: kv, Key: "studentBudgetData"}.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.TotalSpent.String() != "45.5" {
		t.Errorf("TotalSpent = %s, want 45.5", snap.TotalSpent)
	}
	if !snap.RecentExpenses[0].Date.Equal(model.NewDate(2024, 1, 15)) {
		t.Errorf("expense date = %s, want 2024-01-15", snap.RecentExpenses[0].Date)
	}
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv, err := Open(ctx, config.StoreConfig{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	_ = kv.Close()

	kv, err = Open(ctx, config.StoreConfig{Backend: BackendBolt, Path: filepath.Join(dir, "b.bolt")})
	if err != nil {
		t.Fatalf("Open(bolt): %v", err)
	}
	if _, ok := kv.(*Bolt); !ok {
		t.Errorf("Open(bolt) = %T, want *Bolt", kv)
	}
	_ = kv.Close()

	if _, err := Open(ctx, config.StoreConfig{Backend: "etcd"}); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("Open(etcd) err = %v, want ErrUnknownBackend", err)
	}
}

func TestOpenRedis_BadURL(t *testing.T) {
	if _, err := OpenRedis(context.Background(), "redis://localhost:notaport"); err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}

// Set CBUDGET_TEST_REDIS_URL (e.g. localhost:6379/15) to run against a live server.
func TestRedis_GetPut(t *testing.T) {
	url := os.Getenv("CBUDGET_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CBUDGET_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	r, err := OpenRedis(ctx, url)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	key := fmt.Sprintf("cbudget-test-%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = r.client.Del(context.Background(), key).Err() })

	if _, err := r.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	snaps := Snapshots{KV: r, Key: key}
	want := model.DefaultSnapshot()
	if err := snaps.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := snaps.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.TotalBudget.Equal(want.TotalBudget) || len(got.Goals) != len(want.Goals) {
		t.Fatalf("Load = budget %s goals %d, want %s / %d", got.TotalBudget, len(got.Goals), want.TotalBudget, len(want.Goals))
	}
}
