// ABOUTME: HTTP handlers for day, week and month summaries
// ABOUTME: Summaries are computed from a snapshot taken per request
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harper/fuel-ledger/internal/aggregate"
)

const monthLayout = "2006-01"

// DaySummary handles GET /api/summary/day
func (h *Handler) DaySummary(c *gin.Context) {
	day, ok := h.dayParam(c)
	if !ok {
		return
	}
	RespondOK(c, aggregate.SummarizeDay(h.ledger.Snapshot(), day))
}

// WeekSummary handles GET /api/summary/week for the week containing ?date
func (h *Handler) WeekSummary(c *gin.Context) {
	day, ok := h.dayParam(c)
	if !ok {
		return
	}
	week, err := aggregate.WeeklyAverages(h.ledger.Snapshot(), day)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeInvalidDay, err)
		return
	}
	RespondOK(c, week)
}

// MonthSummary handles GET /api/summary/month?month=YYYY-MM
func (h *Handler) MonthSummary(c *gin.Context) {
	month := h.ledger.Now().In(h.ledger.Location())
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse(monthLayout, raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, CodeBadRequest, fmt.Errorf("month must be YYYY-MM, got %q", raw))
			return
		}
		month = parsed
	}

	snap := h.ledger.Snapshot()
	RespondOK(c, gin.H{
		"calendar": aggregate.MonthlyCalendarIndex(snap, month.Month(), month.Year()).Days(),
		"rollup":   aggregate.MonthlyRollup(snap, month.Month(), month.Year()),
	})
}
