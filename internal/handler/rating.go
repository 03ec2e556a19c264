package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tawseel/internal/domain"
	"tawseel/internal/service"
)

// RatingHandler handles HTTP requests for trip ratings.
type RatingHandler struct {
	tripService *service.TripService
	logger      *zap.Logger
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(tripService *service.TripService, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{tripService: tripService, logger: logger}
}

// RateRequest is the body of both rating endpoints.
type RateRequest struct {
	TripID  string `json:"tripId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// RatePassenger handles POST /api/ratings/passenger
// A driver rates the passenger of a trip.
func (h *RatingHandler) RatePassenger(c *gin.Context) {
	h.rate(c, domain.RaterDriver)
}

// RateDriver handles POST /api/ratings/driver
// A passenger rates the driver of a trip.
func (h *RatingHandler) RateDriver(c *gin.Context) {
	h.rate(c, domain.RaterPassenger)
}

func (h *RatingHandler) rate(c *gin.Context, role domain.RaterRole) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	trip, err := h.tripService.Rate(c.Request.Context(), service.RateRequest{
		TripID:    req.TripID,
		RaterRole: role,
		Score:     req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true, "trip": newTripResponse(trip, languageOf(c))})
}
