package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tawseel/internal/auth"
	"tawseel/internal/domain"
	"tawseel/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
	logger      *zap.Logger
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService, logger *zap.Logger) *TripHandler {
	return &TripHandler{tripService: tripService, logger: logger}
}

// SearchRequest is the body of POST /api/trips/search.
type SearchRequest struct {
	StartLocation     string `json:"startLocation"`
	Destination       string `json:"destination"`
	GovernorateFilter string `json:"governorateFilter"`
	// TimeFilter is accepted for client compatibility and ignored;
	// trip times are free text.
	TimeFilter string `json:"timeFilter"`
}

// RequestTrip handles POST /api/trips/request
func (h *TripHandler) RequestTrip(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req service.RequestTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	trip, err := h.tripService.RequestTrip(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true, "trip": newTripResponse(trip, languageOf(c))})
}

// SearchTrips handles POST /api/trips/search
func (h *TripHandler) SearchTrips(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadBody(c)
		return
	}

	summaries, err := h.tripService.SearchTrips(c.Request.Context(), domain.TripFilter{
		StartLocation: req.StartLocation,
		Destination:   req.Destination,
		Governorate:   req.GovernorateFilter,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true, "passengers": newSummaryResponses(summaries, languageOf(c))})
}

// ListAvailable handles GET /api/trips/available
func (h *TripHandler) ListAvailable(c *gin.Context) {
	summaries, err := h.tripService.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true, "passengers": newSummaryResponses(summaries, languageOf(c))})
}

// AcceptTrip handles PUT /api/trips/accept/:id
// The calling user becomes the trip's driver.
func (h *TripHandler) AcceptTrip(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	trip, err := h.tripService.AcceptTrip(c.Request.Context(), c.Param("id"), actor.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true, "trip": newTripResponse(trip, languageOf(c))})
}

// CompleteTrip handles PUT /api/trips/complete/:id
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	trip, err := h.tripService.CompleteTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true, "trip": newTripResponse(trip, languageOf(c))})
}

// CancelTrip handles PUT /api/trips/cancel/:id
func (h *TripHandler) CancelTrip(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	trip, err := h.tripService.CancelTrip(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true, "trip": newTripResponse(trip, languageOf(c))})
}

// ListByPassenger handles GET /api/trips/passenger/:id
func (h *TripHandler) ListByPassenger(c *gin.Context) {
	trips, err := h.tripService.ListByPassenger(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true, "requests": newTripResponses(trips, languageOf(c))})
}

// ListByDriver handles GET /api/trips/driver/:id
// Drivers see each trip with its passenger's contact details.
func (h *TripHandler) ListByDriver(c *gin.Context) {
	ctx := c.Request.Context()

	trips, err := h.tripService.ListByDriver(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	summaries, err := h.tripService.Summarize(ctx, trips)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true, "trips": newSummaryResponses(summaries, languageOf(c))})
}

func actorFrom(c *gin.Context) (service.Actor, bool) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: id.UserID, Role: id.Role}, true
}

func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Msg: "No token, authorization denied"})
}

func respondBadBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: []service.FieldError{
		{Field: "body", Msg: "must be a valid JSON object"},
	}})
}
