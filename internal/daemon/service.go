// Package daemon serves the budget over a local HTTP API and streams changes as events.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/theirongolddev/cbudget/internal/analytics"
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	CORSOrigins  []string
	Analytics    analytics.Options
	Logger       *zap.Logger
}

// Summary is a compact budget state for status/event payloads.
type Summary struct {
	At                 time.Time       `json:"at"`
	TotalBudget        decimal.Decimal `json:"total_budget"`
	TotalSpent         decimal.Decimal `json:"total_spent"`
	Remaining          decimal.Decimal `json:"remaining"`
	UtilizationPercent float64         `json:"utilization_percent"`
	HealthScore        int             `json:"health_score"`
	HealthLabel        string          `json:"health_label"`
	OverBudget         int             `json:"over_budget_categories"`
	ActiveGoals        int             `json:"active_goals"`
	Insights           int             `json:"insights"`
	RecentExpenses     int             `json:"recent_expenses"`
}

// Delta captures summary changes between polls.
type Delta struct {
	TotalBudget decimal.Decimal `json:"total_budget"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	HealthScore int             `json:"health_score"`
	OverBudget  int             `json:"over_budget_categories"`
	ActiveGoals int             `json:"active_goals"`
	Insights    int             `json:"insights"`
}

func (d Delta) isZero() bool {
	return d.TotalBudget.IsZero() &&
		d.TotalSpent.IsZero() &&
		d.HealthScore == 0 &&
		d.OverBudget == 0 &&
		d.ActiveGoals == 0 &&
		d.Insights == 0
}

// Event is emitted whenever the budget summary changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Summary   Summary   `json:"summary"`
	Delta     Delta     `json:"delta"`
}

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventBudgetDelta = "budget_delta"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Recovered       bool      `json:"recovered"`
	Summary         Summary   `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	ledger *ledger.Ledger
	log    *zap.Logger
	engine *gin.Engine

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSummary  bool
	summary     Summary
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service over l with the provided config.
func New(l *ledger.Ledger, cfg Config) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8765"
	}
	if cfg.Analytics.Thresholds.WindowDays == 0 {
		cfg.Analytics = analytics.DefaultOptions()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Service{
		cfg:       cfg,
		ledger:    l,
		log:       cfg.Logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the HTTP API, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.engine
}

func (s *Service) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/healthz", s.handleHealth)
	v1 := r.Group("/v1")
	v1.GET("/status", s.handleStatus)
	v1.GET("/report", s.handleReport)
	v1.GET("/snapshot", s.handleSnapshot)
	v1.GET("/events", s.handleEvents)
	v1.GET("/stream", s.handleStream)
	v1.GET("/export", s.handleExport)
	v1.POST("/expenses", s.handleAddExpense)
	v1.POST("/goals/:id/fund", s.handleFundGoal)
	return r
}

func (s *Service) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	// Request contexts derive from ctx so open streams end before Shutdown.
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial summary so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce reloads the store so CLI writes from other processes show up,
// then republishes the summary.
func (s *Service) pollOnce(ctx context.Context) {
	if err := s.ledger.Reload(ctx); err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		s.log.Warn("daemon poll error", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.lastPollAt = time.Now()
	s.pollCount++
	s.lastError = ""
	s.mu.Unlock()

	s.refresh()
}

// refresh recomputes the summary and publishes an event when it changed.
func (s *Service) refresh() {
	now := s.ledger.Now()
	snap := s.ledger.Snapshot()
	sum := summarize(analytics.Analyze(snap, now, s.cfg.Analytics), len(snap.RecentExpenses))

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.summary
	prevExists := s.hasSummary

	s.hasSummary = true
	s.summary = sum

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Summary:   sum,
		}
		publish = true
	} else if delta := diffSummaries(prev, sum); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventBudgetDelta,
			Timestamp: now,
			Summary:   sum,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func summarize(r model.Report, recentExpenses int) Summary {
	active := 0
	for _, g := range r.Goals {
		if g.Goal.Active() {
			active++
		}
	}
	return Summary{
		At:                 r.GeneratedAt,
		TotalBudget:        r.TotalBudget,
		TotalSpent:         r.TotalSpent,
		Remaining:          r.Remaining,
		UtilizationPercent: r.UtilizationPercent,
		HealthScore:        r.HealthScore,
		HealthLabel:        r.HealthLabel,
		OverBudget:         analytics.CountStatus(r.Categories, model.StatusOver),
		ActiveGoals:        active,
		Insights:           len(r.Insights),
		RecentExpenses:     recentExpenses,
	}
}

func diffSummaries(prev, curr Summary) Delta {
	return Delta{
		TotalBudget: curr.TotalBudget.Sub(prev.TotalBudget),
		TotalSpent:  curr.TotalSpent.Sub(prev.TotalSpent),
		HealthScore: curr.HealthScore - prev.HealthScore,
		OverBudget:  curr.OverBudget - prev.OverBudget,
		ActiveGoals: curr.ActiveGoals - prev.ActiveGoals,
		Insights:    curr.Insights - prev.Insights,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) statusSnapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Recovered:       s.ledger.Recovered(),
		Summary:         s.summary,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
