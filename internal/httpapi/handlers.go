// ABOUTME: HTTP handlers for records, profile and conversations
// ABOUTME: Request bodies use the same JSON field names as the stored buckets
package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harper/fuel-ledger/internal/aggregate"
	"github.com/harper/fuel-ledger/internal/coach"
	"github.com/harper/fuel-ledger/internal/directive"
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/logger"
	"github.com/harper/fuel-ledger/internal/models"
)

// Handler serves the API over one ledger
type Handler struct {
	ledger    *ledger.Ledger
	coach     *coach.Session
	applier   *directive.Applier
	log       *logger.Logger
	heartbeat time.Duration
}

// NewHandler creates a handler. session may be nil when no coach is configured.
func NewHandler(l *ledger.Ledger, session *coach.Session, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		ledger:    l,
		coach:     session,
		applier:   directive.NewApplier(l, log),
		log:       log.With("component", "httpapi"),
		heartbeat: DefaultHeartbeat,
	}
}

// dayParam returns the date query parameter or today
func (h *Handler) dayParam(c *gin.Context) (string, bool) {
	day := strings.TrimSpace(c.Query("date"))
	if day == "" {
		return h.ledger.Today(), true
	}
	if !models.ValidDay(day) {
		RespondError(c, http.StatusBadRequest, CodeInvalidDay, fmt.Errorf("date must be YYYY-MM-DD, got %q", day))
		return "", false
	}
	return day, true
}

// listRecords serves all records, or one day's when date is given
func listRecords[T any](c *gin.Context, h *Handler, all func() []T, forDay func(string) ([]T, error)) {
	if c.Query("date") == "" {
		RespondOK(c, gin.H{"entries": all()})
		return
	}
	day, ok := h.dayParam(c)
	if !ok {
		return
	}
	items, err := forDay(day)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeInvalidDay, err)
		return
	}
	RespondOK(c, gin.H{"date": day, "entries": items})
}

// ListFood handles GET /api/food, optionally for one ?date
func (h *Handler) ListFood(c *gin.Context) {
	listRecords(c, h, h.ledger.Food, h.ledger.FoodForDay)
}

// ListWorkouts handles GET /api/workouts
func (h *Handler) ListWorkouts(c *gin.Context) {
	listRecords(c, h, h.ledger.Workouts, h.ledger.WorkoutsForDay)
}

// ListWater handles GET /api/water
func (h *Handler) ListWater(c *gin.Context) {
	listRecords(c, h, h.ledger.Water, h.ledger.WaterForDay)
}

// AddFood handles POST /api/food. Missing fields get the record defaults.
func (h *Handler) AddFood(c *gin.Context) {
	var in models.FoodEntry
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	in.ID = ""
	entry, err := h.ledger.AddFood(in)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondCreated(c, entry)
}

// AddWorkout handles POST /api/workouts. An omitted caloriesBurned is estimated.
func (h *Handler) AddWorkout(c *gin.Context) {
	var in models.WorkoutEntry
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	in.ID = ""
	entry, err := h.ledger.AddWorkout(in)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondCreated(c, entry)
}

// AddWater handles POST /api/water; an empty body logs the default glass
func (h *Handler) AddWater(c *gin.Context) {
	var in models.WaterEntry
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
			return
		}
	}
	in.ID = ""
	entry, err := h.ledger.AddWater(in)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondCreated(c, entry)
}

func (h *Handler) remove(kind ledger.Kind) gin.HandlerFunc {
	return h.removeParam(kind, "id")
}

// removeParam deletes the record named by param. An absent record is
// reported as removed=false, not an error.
func (h *Handler) removeParam(kind ledger.Kind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param(param)
		removed, err := h.ledger.Remove(kind, id)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, CodeInternal, err)
			return
		}
		RespondOK(c, gin.H{"kind": kind, "id": id, "removed": removed})
	}
}

type weightRequest struct {
	Weight float64 `json:"weight"`
}

// PutWeight handles PUT /api/weight/:date
func (h *Handler) PutWeight(c *gin.Context) {
	day := c.Param("date")
	var in weightRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}

	entry, err := h.ledger.UpsertWeight(day, in.Weight)
	if errors.Is(err, ledger.ErrInvalidDay) {
		RespondError(c, http.StatusBadRequest, CodeInvalidDay, err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	if entry == nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, errors.New("weight must be a positive number"))
		return
	}
	RespondOK(c, entry)
}

// ListWeight handles GET /api/weight, returning the trend when from or to is given
func (h *Handler) ListWeight(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		if from == "" {
			from = to
		}
		if to == "" {
			to = h.ledger.Today()
		}
		trend, err := aggregate.WeightTrend(h.ledger.Snapshot(), from, to)
		if err != nil {
			RespondError(c, http.StatusBadRequest, CodeInvalidDay, err)
			return
		}
		RespondOK(c, trend)
		return
	}

	weights := h.ledger.Weights()
	sort.Slice(weights, func(i, j int) bool { return weights[i].Date < weights[j].Date })
	RespondOK(c, gin.H{"entries": weights})
}

// GetProfile handles GET /api/profile
func (h *Handler) GetProfile(c *gin.Context) {
	profile, ok := h.ledger.Profile()
	if !ok {
		RespondError(c, http.StatusNotFound, CodeNotFound, errors.New("no profile saved"))
		return
	}
	RespondOK(c, profile)
}

// PatchProfile handles PATCH /api/profile by merging the recognized keys
func (h *Handler) PatchProfile(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}

	profile, applied, err := h.ledger.UpdateProfile(patch)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	if len(applied) == 0 {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, errors.New("no valid profile fields were provided"))
		return
	}
	RespondOK(c, gin.H{"profile": profile, "applied": applied})
}

// DeleteProfile starts over: the profile goes and every record with it
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.ledger.DeleteProfile(); err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

type textRequest struct {
	ConversationID string `json:"conversationId"`
	Text           string `json:"text" binding:"required"`
}

// ApplyDirectives handles POST /api/directives
func (h *Handler) ApplyDirectives(c *gin.Context) {
	var in textRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	RespondOK(c, h.applier.Apply(c.Request.Context(), in.Text))
}

// Chat handles POST /api/chat
func (h *Handler) Chat(c *gin.Context) {
	var in textRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}

	reply, err := h.coach.Send(c.Request.Context(), in.ConversationID, in.Text)
	switch {
	case errors.Is(err, coach.ErrEmptyMessage):
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
	case errors.Is(err, ledger.ErrConversationNotFound):
		RespondError(c, http.StatusNotFound, CodeNotFound, err)
	case err != nil:
		RespondError(c, http.StatusBadGateway, CodeCoachFailure, err)
	default:
		RespondOK(c, reply)
	}
}

// ListConversations handles GET /api/conversations
func (h *Handler) ListConversations(c *gin.Context) {
	RespondOK(c, gin.H{"conversations": h.ledger.Conversations()})
}

// GetConversation handles GET /api/conversations/:id
func (h *Handler) GetConversation(c *gin.Context) {
	conv, ok := h.ledger.Conversation(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, CodeNotFound, ledger.ErrConversationNotFound)
		return
	}
	RespondOK(c, conv)
}

// DeleteConversation handles DELETE /api/conversations/:id
func (h *Handler) DeleteConversation(c *gin.Context) {
	removed, err := h.ledger.DeleteConversation(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondOK(c, gin.H{"id": c.Param("id"), "removed": removed})
}
