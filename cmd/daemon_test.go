package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/theirongolddev/cbudget/internal/config"
)

func TestPIDFileRoundTrip(t *testing.T) {
	pf := pidFile(filepath.Join(t.TempDir(), "run", "cbudgetd.pid"))

	if err := pf.claim(); err != nil {
		t.Fatalf("claim on empty dir: %v", err)
	}

	want := daemonState{
		PID:       os.Getpid(),
		Addr:      "127.0.0.1:8765",
		StartedAt: time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC),
		Backend:   "sqlite",
	}
	if err := pf.write(want); err != nil {
		t.Fatalf("write: %v", err)
	}

	pid, err := pf.read()
	if err != nil || pid != want.PID {
		t.Fatalf("read = %d, %v; want %d", pid, err, want.PID)
	}
	got, err := pf.state()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}

	// This process is alive, so a second daemon must not claim the file.
	if err := pf.claim(); err == nil {
		t.Fatal("claim succeeded while the owning process is alive")
	}

	pf.remove()
	if _, err := pf.read(); !os.IsNotExist(err) {
		t.Fatalf("read after remove = %v, want not-exist", err)
	}
}

func TestPIDFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbudgetd.pid")
	if err := os.WriteFile(path, []byte("not-a-pid\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := pidFile(path).read(); err == nil {
		t.Fatal("expected error for malformed pid file")
	}
}

func TestApplyDaemonDefaults(t *testing.T) {
	t.Cleanup(func() {
		flagDaemonAddr, flagDaemonInterval, flagDaemonEventsBuffer = "", 0, 0
	})

	flagDaemonAddr, flagDaemonInterval, flagDaemonEventsBuffer = "", 0, 0
	applyDaemonDefaults(config.DefaultConfig().Daemon)
	if flagDaemonAddr != "127.0.0.1:8765" || flagDaemonInterval != 5*time.Second || flagDaemonEventsBuffer != 200 {
		t.Fatalf("defaults = %q %s %d", flagDaemonAddr, flagDaemonInterval, flagDaemonEventsBuffer)
	}

	flagDaemonAddr = "0.0.0.0:9000"
	applyDaemonDefaults(config.DefaultConfig().Daemon)
	if flagDaemonAddr != "0.0.0.0:9000" {
		t.Fatalf("explicit --addr overwritten with %q", flagDaemonAddr)
	}
}
