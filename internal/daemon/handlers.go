package daemon

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cbudget/internal/analytics"
	"github.com/theirongolddev/cbudget/internal/export"
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
)

type expenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        model.Date      `json:"date"`
	Notes       string          `json:"notes"`
}

type fundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// errorStatus maps ledger errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrGoalNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrUnknownCategory), errors.Is(err, ledger.ErrDuplicateCategory):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Service) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.statusSnapshot())
}

func (s *Service) handleReport(c *gin.Context) {
	c.JSON(http.StatusOK, analytics.Analyze(s.ledger.Snapshot(), s.ledger.Now(), s.cfg.Analytics))
}

func (s *Service) handleSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.Snapshot())
}

func (s *Service) handleEvents(c *gin.Context) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, events)
}

func (s *Service) handleStream(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current summary immediately.
	renderSSE(c, Event{
		Type:      EventSnapshot,
		Timestamp: s.ledger.Now(),
		Summary:   s.statusSnapshot().Summary,
	})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-ch:
			renderSSE(c, ev)
			return true
		}
	})
}

func renderSSE(c *gin.Context, ev Event) {
	out := sse.Event{Event: ev.Type, Data: ev}
	if ev.ID > 0 {
		out.Id = strconv.FormatInt(ev.ID, 10)
	}
	c.Render(-1, out)
}

func (s *Service) handleExport(c *gin.Context) {
	format := c.DefaultQuery("format", export.FormatJSON)
	if format != export.FormatJSON && format != export.FormatYAML {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", format)})
		return
	}

	now := s.ledger.Now()
	contentType := "application/json"
	if format == export.FormatYAML {
		contentType = "application/yaml"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(now, format)))
	c.Status(http.StatusOK)
	if err := export.Encode(c.Writer, s.ledger.Snapshot(), now, format); err != nil {
		_ = c.Error(err)
	}
}

func (s *Service) handleAddExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := s.ledger.AddExpense(c.Request.Context(), ledger.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
		Notes:       req.Notes,
	})
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		if errors.Is(err, ledger.ErrPersist) {
			s.refresh()
		}
		return
	}

	s.refresh()
	c.JSON(http.StatusCreated, e)
}

func (s *Service) handleFundGoal(c *gin.Context) {
	var req fundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := s.ledger.QuickAdd(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		if errors.Is(err, ledger.ErrPersist) {
			s.refresh()
		}
		return
	}

	s.refresh()
	c.JSON(http.StatusOK, g)
}
