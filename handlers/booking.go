package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"courtbook/clients/courtapi"
	"courtbook/models"
	"courtbook/services/booking"
	"courtbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking flow: drafts, availability,
// range selection, quotes, batch submission, conflict resolution and
// payment initiation.
type BookingHandler struct {
	Engine       booking.BatchEngine
	Drafts       booking.DraftService
	Catalog      booking.CourtCatalog
	Client       courtapi.Client
	Payments     booking.PaymentInitiator
	Cache        *redis.Client
	Logger       *zap.Logger
	SlotDuration int

	mu      sync.Mutex
	loaders map[string]*booking.AvailabilityLoader
}

// NewBookingHandler wires the handler with its collaborators.
func NewBookingHandler(
	engine booking.BatchEngine,
	drafts booking.DraftService,
	catalog booking.CourtCatalog,
	client courtapi.Client,
	payments booking.PaymentInitiator,
	cache *redis.Client,
	logger *zap.Logger,
	slotDuration int,
) *BookingHandler {
	if slotDuration <= 0 {
		slotDuration = booking.DefaultSlotDuration
	}
	return &BookingHandler{
		Engine:       engine,
		Drafts:       drafts,
		Catalog:      catalog,
		Client:       client,
		Payments:     payments,
		Cache:        cache,
		Logger:       logger,
		SlotDuration: slotDuration,
		loaders:      make(map[string]*booking.AvailabilityLoader),
	}
}

// loaderFor returns the availability loader owned by one draft, so a
// draft's date/court change supersedes its own stale fetch without
// affecting other users.
func (h *BookingHandler) loaderFor(draftID string) *booking.AvailabilityLoader {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.loaders[draftID]
	if !ok {
		l = booking.NewAvailabilityLoader(h.Client, h.Logger)
		h.loaders[draftID] = l
	}
	return l
}

func (h *BookingHandler) dropLoader(draftID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.loaders, draftID)
}

// CreateDraft starts a new booking draft.
func (h *BookingHandler) CreateDraft(c *gin.Context) {
	var input struct {
		UserID  string `json:"userId"`
		FieldID string `json:"fieldId" binding:"required"`
		CourtID string `json:"courtId" binding:"required"`
		Date    string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if _, err := models.ParseDate(input.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": err.Error()})
		return
	}
	if booking.IsPastDate(input.Date, time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is in the past"})
		return
	}
	if _, err := h.Catalog.CourtByID(input.CourtID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.Drafts.CreateDraft(c.Request.Context(), models.BookingDraft{
		UserID:  input.UserID,
		FieldID: input.FieldID,
		CourtID: input.CourtID,
		Date:    input.Date,
		Step:    "select",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create draft", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, draft)
}

// GetDraft resumes a cached draft.
func (h *BookingHandler) GetDraft(c *gin.Context) {
	draft, err := h.Drafts.GetDraft(c.Request.Context(), c.Param("draftID"))
	if errors.Is(err, booking.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking draft not found or expired"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load draft", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}

// DeleteDraft discards a draft.
func (h *BookingHandler) DeleteDraft(c *gin.Context) {
	draftID := c.Param("draftID")
	if err := h.Drafts.DeleteDraft(c.Request.Context(), draftID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete draft", "details": err.Error()})
		return
	}
	h.dropLoader(draftID)
	c.Status(http.StatusNoContent)
}

// GetAvailability returns the priced slot grid for one (court, date),
// merged with the booking service's availability. When the service has
// no data for the day the grid is returned fully open, flagged advisory.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	fieldID := c.Query("fieldId")
	courtID := c.Query("courtId")
	date := c.Query("date")
	if fieldID == "" || courtID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fieldId, courtId and date are required"})
		return
	}
	if _, err := models.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": err.Error()})
		return
	}
	if booking.IsPastDate(date, time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is in the past"})
		return
	}

	court, err := h.Catalog.CourtByID(courtID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var res booking.AvailabilityResult
	if draftID := c.Query("draftId"); draftID != "" {
		r, ok := <-h.loaderFor(draftID).Load(c.Request.Context(), fieldID, courtID, date)
		if !ok {
			// A newer fetch for this draft superseded us.
			c.Status(http.StatusNoContent)
			return
		}
		res = r
	} else {
		day, err := h.Client.GetAvailability(c.Request.Context(), fieldID, courtID, date)
		switch {
		case err == nil:
			res.Day = day
		case errors.Is(err, courtapi.ErrNotFound):
			res.NotFound = true
		default:
			res.Err = err
		}
	}
	if res.Err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch availability", "details": res.Err.Error()})
		return
	}

	slots, err := booking.BuildPricedDay(
		h.Catalog.OperatingHoursFor(courtID), res.Day, date, time.Now(),
		*court, h.Catalog.PriceRangesFor(courtID), h.SlotDuration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to build slots", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"courtId":  courtID,
		"advisory": res.NotFound,
		"slots":    slots,
	})
}

// SelectSlot applies one slot click to the draft's current selection.
func (h *BookingHandler) SelectSlot(c *gin.Context) {
	var input struct {
		DraftID string `json:"draftId" binding:"required"`
		Clicked int    `json:"clicked"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	draft, err := h.Drafts.GetDraft(c.Request.Context(), input.DraftID)
	if errors.Is(err, booking.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking draft not found or expired"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load draft", "details": err.Error()})
		return
	}

	loader := h.loaderFor(input.DraftID)
	res, ok := <-loader.Load(c.Request.Context(), draft.FieldID, draft.CourtID, draft.Date)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	if res.Err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch availability", "details": res.Err.Error()})
		return
	}

	selector := booking.NewSelector(h.SlotDuration)
	next, err := selector.Click(draft.Selection, input.Clicked, res.Day, draft.Date, time.Now())
	if booking.IsRangeConflict(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "range conflict", "details": err.Error(), "selection": draft.Selection})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "selection failed", "details": err.Error()})
		return
	}

	draft.Selection = next
	if err := h.Drafts.SaveDraft(c.Request.Context(), *draft); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": next})
}

// Quote prices the current selection for one day. Totals for recurring
// modes are advisory: the server-confirmed per-booking totals are
// authoritative.
func (h *BookingHandler) Quote(c *gin.Context) {
	var input struct {
		CourtID   string                `json:"courtId" binding:"required"`
		Date      string                `json:"date" binding:"required"`
		Selection models.SelectionRange `json:"selection" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	court, err := h.Catalog.CourtByID(input.CourtID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	day, err := models.ParseDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": err.Error()})
		return
	}

	total, err := booking.QuoteSelection(
		input.Selection, day.Weekday(), court.HourlyRate,
		h.SlotDuration, h.Catalog.PriceRangesFor(input.CourtID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to quote selection", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courtId":  input.CourtID,
		"date":     input.Date,
		"total":    total,
		"currency": court.Currency,
	})
}

// batchState is what resubmission needs from a prior wave: the original
// request and the latest outcome.
type batchState struct {
	Request booking.BatchRequest `json:"request"`
	Outcome *models.BatchOutcome `json:"outcome"`
}

const batchStateTTL = 30 * time.Minute

func batchKey(batchID string) string {
	return "batch:" + batchID
}

func (h *BookingHandler) saveBatchState(c *gin.Context, batchID string, state batchState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return h.Cache.Set(c.Request.Context(), batchKey(batchID), data, batchStateTTL).Err()
}

// SubmitBatch expands the recurrence and submits the whole batch,
// returning successes, conflicts and hard failures.
func (h *BookingHandler) SubmitBatch(c *gin.Context) {
	var req booking.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	outcome, err := h.Engine.SubmitBatch(c.Request.Context(), req)
	if errors.Is(err, booking.ErrInvalidInput) || errors.Is(err, booking.ErrInvalidRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch request", "details": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "batch submission failed", "details": err.Error()})
		return
	}

	batchID := uuid.New().String()
	if err := h.saveBatchState(c, batchID, batchState{Request: req, Outcome: outcome}); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store batch state", err.Error())
		return
	}

	if draftID := c.Query("draftId"); draftID != "" && outcome.Closed {
		if err := h.Drafts.DeleteDraft(c.Request.Context(), draftID); err != nil {
			h.Logger.Warn("failed to discard draft after submission", zap.Error(err))
		}
		h.dropLoader(draftID)
	}

	c.JSON(http.StatusOK, gin.H{"batchId": batchID, "outcome": outcome})
}

// ResolveBatch applies per-date resolutions to a prior wave and
// resubmits only what they require.
func (h *BookingHandler) ResolveBatch(c *gin.Context) {
	var input struct {
		BatchID     string               `json:"batchId" binding:"required"`
		Resolutions models.ResolutionMap `json:"resolutions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	data, err := h.Cache.Get(c.Request.Context(), batchKey(input.BatchID)).Result()
	if errors.Is(err, redis.Nil) {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found or expired"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load batch state", "details": err.Error()})
		return
	}
	var state batchState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to parse batch state", "details": err.Error()})
		return
	}

	outcome, err := h.Engine.ResolveConflicts(c.Request.Context(), state.Outcome, state.Request, input.Resolutions)
	if errors.Is(err, booking.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resolution", "details": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolution failed", "details": err.Error()})
		return
	}

	state.Outcome = outcome
	if err := h.saveBatchState(c, input.BatchID, state); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store batch state", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"batchId": input.BatchID, "outcome": outcome})
}

// InitiatePayment starts payment collection for one confirmed booking.
func (h *BookingHandler) InitiatePayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Payments.InitiatePayment(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to initiate payment", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}
