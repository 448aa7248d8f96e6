package daemon

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	snaps := store.Snapshots{KV: store.NewMemory(), Key: "studentBudgetData"}
	l := ledger.Open(context.Background(), snaps, ledger.Options{
		Logger: zaptest.NewLogger(t),
		Now:    func() time.Time { return testNow },
	})
	return New(l, Config{
		Interval:     10 * time.Second,
		EventsBuffer: 10,
		Logger:       zaptest.NewLogger(t),
	})
}

func do(t *testing.T, s *Service, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestDiffSummaries(t *testing.T) {
	prev := Summary{
		TotalBudget: decimal.NewFromInt(1000),
		TotalSpent:  decimal.NewFromInt(400),
		HealthScore: 100,
		Insights:    1,
	}
	curr := Summary{
		TotalBudget: decimal.NewFromInt(1000),
		TotalSpent:  decimal.RequireFromString("912.5"),
		HealthScore: 85,
		OverBudget:  1,
		Insights:    3,
	}

	delta := diffSummaries(prev, curr)
	if !delta.TotalSpent.Equal(decimal.RequireFromString("512.5")) {
		t.Fatalf("TotalSpent delta = %s, want 512.5", delta.TotalSpent)
	}
	if delta.HealthScore != -15 {
		t.Fatalf("HealthScore delta = %d, want -15", delta.HealthScore)
	}
	if delta.OverBudget != 1 || delta.Insights != 2 {
		t.Fatalf("delta = %+v, want over 1 insights 2", delta)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSummaries(curr, curr).isZero() {
		t.Fatal("self diff not zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(nil, Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestRefresh_PublishesSnapshotThenDeltas(t *testing.T) {
	s := newTestService(t)

	s.refresh()
	s.refresh() // unchanged, no event

	if _, err := s.ledger.AddExpense(context.Background(), ledger.ExpenseInput{
		Description: "Groceries", Amount: decimal.NewFromInt(100), Category: "Other",
	}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	s.refresh()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].Type != EventSnapshot || s.events[1].Type != EventBudgetDelta {
		t.Fatalf("event types = [%s, %s], want [snapshot, budget_delta]", s.events[0].Type, s.events[1].Type)
	}
	if !s.events[1].Delta.TotalSpent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("delta spent = %s, want 100", s.events[1].Delta.TotalSpent)
	}
}

func TestHandleAddExpense(t *testing.T) {
	s := newTestService(t)

	rec := do(t, s, http.MethodPost, "/v1/expenses",
		`{"description":"Lunch","amount":"12.5","category":"Food & Dining","date":"2024-01-19"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var e model.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.ID == "" || !e.Date.Equal(model.NewDate(2024, 1, 19)) {
		t.Errorf("expense = %+v", e)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{"amount":`, http.StatusBadRequest},
		{"zero amount", `{"description":"x","amount":0,"category":"Other"}`, http.StatusBadRequest},
		{"unknown category", `{"description":"x","amount":5,"category":"Yachts"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, s, http.MethodPost, "/v1/expenses", tt.body); rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestHandleFundGoal(t *testing.T) {
	s := newTestService(t)

	rec := do(t, s, http.MethodPost, "/v1/goals/1/fund", `{"amount":"100000"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var g model.Goal
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !g.Current.Equal(g.Target) {
		t.Errorf("Current = %s, want clamped to %s", g.Current, g.Target)
	}

	if rec := do(t, s, http.MethodPost, "/v1/goals/nope/fund", `{"amount":10}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown goal status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/v1/goals/1/fund", `{"amount":-1}`); rec.Code != http.StatusBadRequest {
		t.Errorf("negative amount status = %d, want 400", rec.Code)
	}
}

func TestHandleReport(t *testing.T) {
	s := newTestService(t)

	rec := do(t, s, http.MethodGet, "/v1/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var r model.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.HealthScore != 100 {
		t.Errorf("HealthScore = %d, want 100", r.HealthScore)
	}
	if len(r.Categories) != 6 {
		t.Errorf("len(Categories) = %d, want 6", len(r.Categories))
	}
}

func TestHandleExport(t *testing.T) {
	s := newTestService(t)

	rec := do(t, s, http.MethodGet, "/v1/export?format=yaml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "budget-data-2024-01-20.yaml") {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("exportDate:")) {
		t.Errorf("body is not a yaml export:\n%s", rec.Body)
	}

	if rec := do(t, s, http.MethodGet, "/v1/export?format=csv", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("csv status = %d, want 400", rec.Code)
	}
}

func TestStatusAndHealth(t *testing.T) {
	s := newTestService(t)
	s.refresh()

	if rec := do(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body)
	}

	rec := do(t, s, http.MethodGet, "/v1/status", "")
	var st Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Summary.HealthScore != 100 || st.EventCount != 1 {
		t.Errorf("status = %+v, want score 100 and one event", st)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newTestService(t)
	s.cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestHandleStream_SendsSnapshotThenUpdates(t *testing.T) {
	s := newTestService(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	defer srv.Client().CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /v1/stream: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	next := func() string {
		t.Helper()
		for sc.Scan() {
			if name, ok := strings.CutPrefix(sc.Text(), "event:"); ok {
				return name
			}
		}
		t.Fatalf("stream ended early: %v", sc.Err())
		return ""
	}

	if got := next(); got != EventSnapshot {
		t.Fatalf("first event = %q, want %q", got, EventSnapshot)
	}

	s.refresh()
	if _, err := s.ledger.AddExpense(context.Background(), ledger.ExpenseInput{
		Description: "Groceries", Amount: decimal.NewFromInt(40), Category: "Other",
	}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	s.refresh()

	if got := next(); got != EventSnapshot {
		t.Fatalf("second event = %q, want %q", got, EventSnapshot)
	}
	if got := next(); got != EventBudgetDelta {
		t.Fatalf("third event = %q, want %q", got, EventBudgetDelta)
	}
}
