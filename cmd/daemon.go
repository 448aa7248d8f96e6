package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/daemon"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve the budget over a local HTTP API with an SSE event stream",
	Long: `Serve the budget on a local HTTP API.

The daemon re-reads the store every interval so expenses logged from the CLI
or TUI show up in /v1/status and are pushed to /v1/stream subscribers.`,
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	pf := daemonCmd.PersistentFlags()
	// Zero values fall back to the [daemon] section of config.toml.
	pf.StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config, 127.0.0.1:8765)")
	pf.DurationVar(&flagDaemonInterval, "interval", 0, "Store polling interval (default from config, 5s)")
	pf.IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config, 200)")
	pf.StringVar(&flagDaemonPIDFile, "pid-file", filepath.Join(config.DataDir(), "cbudgetd.pid"), "PID file path")
	pf.StringVar(&flagDaemonLogFile, "log-file", filepath.Join(config.DataDir(), "cbudgetd.log"), "Log file for detached mode")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonState is written next to the pid file so `daemon status` can find
// the listen address without flags.
type daemonState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	Backend   string    `json:"backend"`
}

// pidFile manages the daemon's pid file and its JSON state sidecar.
type pidFile string

func (p pidFile) statePath() string { return string(p) + ".json" }

func (p pidFile) read() (int, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(string(p))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p)
	}
	return pid, nil
}

func (p pidFile) write(st daemonState) error {
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(string(p), []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.statePath(), append(data, '\n'), 0o600)
}

func (p pidFile) state() (daemonState, error) {
	var st daemonState
	data, err := os.ReadFile(p.statePath())
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

func (p pidFile) remove() {
	_ = os.Remove(string(p))
	_ = os.Remove(p.statePath())
}

// claim fails if a live daemon owns the pid file and clears a stale one.
func (p pidFile) claim() error {
	pid, err := p.read()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case processAlive(pid):
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	p.remove()
	return nil
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	applyDaemonDefaults(appCfg.Daemon)
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}
	if flagDaemonDetach {
		return startDaemonDetached()
	}
	return runDaemonForeground(cmd.Context())
}

func applyDaemonDefaults(d config.DaemonConfig) {
	if flagDaemonAddr == "" {
		flagDaemonAddr = d.Addr
	}
	if flagDaemonInterval <= 0 {
		flagDaemonInterval = d.Interval()
	}
	if flagDaemonEventsBuffer <= 0 {
		flagDaemonEventsBuffer = d.EventsBuffer
	}
}

// startDaemonDetached re-executes this binary with --child, its output
// appended to the log file.
func startDaemonDetached() error {
	pf := pidFile(flagDaemonPIDFile)
	if err := pf.claim(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := slices.DeleteFunc(slices.Clone(os.Args[1:]), func(a string) bool {
		return a == "--detach" || strings.HasPrefix(a, "--detach=")
	})
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // re-executes the current binary
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  API: http://%s/v1/status\n", flagDaemonAddr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground(parent context.Context) error {
	pf := pidFile(flagDaemonPIDFile)
	if err := pf.claim(); err != nil {
		return err
	}

	st := daemonState{
		PID:       os.Getpid(),
		Addr:      flagDaemonAddr,
		StartedAt: time.Now(),
		Backend:   appCfg.Store.Backend,
	}
	if err := pf.write(st); err != nil {
		return err
	}
	defer pf.remove()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	l, closeStore, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := daemon.New(l, daemon.Config{
		Interval:     flagDaemonInterval,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonEventsBuffer,
		CORSOrigins:  appCfg.Daemon.CORSOrigins,
		Analytics:    appCfg.AnalyticsOptions(),
		Logger:       logger.Named("daemon"),
	})

	logger.Info("daemon starting",
		zap.String("addr", flagDaemonAddr),
		zap.Duration("interval", flagDaemonInterval),
		zap.String("backend", st.Backend),
		zap.Int("pid", st.PID))

	fmt.Printf("  cbudget daemon listening on http://%s\n", flagDaemonAddr)
	fmt.Printf("  Polling the %s store every %s\n", st.Backend, flagDaemonInterval)
	fmt.Printf("  Stop with: cbudget daemon stop --pid-file %s\n", flagDaemonPIDFile)

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	applyDaemonDefaults(appCfg.Daemon)
	pf := pidFile(flagDaemonPIDFile)

	pid, err := pf.read()
	if err != nil {
		fmt.Printf("  Daemon: not running (no pid file)\n")
		return nil
	}
	if !processAlive(pid) {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagDaemonAddr
	if st, err := pf.state(); err == nil && st.Addr != "" {
		addr = st.Addr
	}
	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	st, err := fetchDaemonStatus(cmd.Context(), addr)
	if err != nil {
		fmt.Printf("  API status: %v\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s (%d polls)\n", st.LastPollAt.Local().Format(time.RFC3339), st.PollCount)
	}
	cur := currency()
	fmt.Printf("  Budget: %s\n", cli.FormatMoney(st.Summary.TotalBudget, cur))
	fmt.Printf("  Spent: %s (%s)\n", cli.FormatMoney(st.Summary.TotalSpent, cur), cli.FormatPercent(st.Summary.UtilizationPercent))
	fmt.Printf("  Health: %d/100 (%s)\n", st.Summary.HealthScore, st.Summary.HealthLabel)
	fmt.Printf("  Over budget: %d categories\n", st.Summary.OverBudget)
	fmt.Printf("  Subscribers: %d\n", st.SubscriberCount)
	if st.Recovered {
		fmt.Printf("  Note: store was unreadable at start, serving defaults\n")
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func fetchDaemonStatus(ctx context.Context, addr string) (daemon.Status, error) {
	var st daemon.Status
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response (%w)", err)
	}
	return st, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagDaemonPIDFile)
	pid, err := pf.read()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			pf.remove()
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
