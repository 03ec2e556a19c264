package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tawseel/internal/domain"
	"tawseel/internal/repository"
	"tawseel/internal/service"
)

const msgServerError = "Server error"

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

// ValidationErrorResponse lists the invalid fields of a request.
type ValidationErrorResponse struct {
	Errors []service.FieldError `json:"errors"`
}

// TripResponse is the JSON form of a trip.
type TripResponse struct {
	ID              string          `json:"id"`
	PassengerID     string          `json:"passengerId"`
	DriverID        string          `json:"driverId,omitempty"`
	CurrentLocation string          `json:"currentLocation"`
	Destination     string          `json:"destination"`
	TripTime        string          `json:"tripTime"`
	ContactPhone    string          `json:"contactPhone"`
	Status          string          `json:"status"`
	StatusLabel     string          `json:"statusLabel"`
	Fare            float64         `json:"fare"`
	Rating          *RatingResponse `json:"rating,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	CompletedAt     string          `json:"completedAt,omitempty"`
}

// RatingResponse is the JSON form of a trip's ratings.
type RatingResponse struct {
	PassengerRating  *int   `json:"passengerRating,omitempty"`
	DriverRating     *int   `json:"driverRating,omitempty"`
	PassengerComment string `json:"passengerComment,omitempty"`
	DriverComment    string `json:"driverComment,omitempty"`
}

// TripSummaryResponse is a trip as listed to drivers.
type TripSummaryResponse struct {
	ID              string `json:"id"`
	PassengerName   string `json:"passengerName"`
	PassengerPhone  string `json:"passengerPhone"`
	PassengerEmail  string `json:"passengerEmail"`
	CurrentLocation string `json:"currentLocation"`
	Destination     string `json:"destination"`
	TripTime        string `json:"tripTime"`
	ContactPhone    string `json:"contactPhone"`
	Status          string `json:"status"`
	StatusLabel     string `json:"statusLabel"`
}

func newTripResponse(t *domain.Trip, lang domain.Language) TripResponse {
	resp := TripResponse{
		ID:              t.ID,
		PassengerID:     t.PassengerID,
		DriverID:        t.DriverID,
		CurrentLocation: t.CurrentLocation,
		Destination:     t.Destination,
		TripTime:        t.TripTime,
		ContactPhone:    t.ContactPhone,
		Status:          string(t.Status),
		StatusLabel:     t.Status.Label(lang),
		Fare:            t.Fare,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
	if !t.CompletedAt.IsZero() {
		resp.CompletedAt = t.CompletedAt.Format(time.RFC3339)
	}
	if !t.Rating.IsEmpty() {
		resp.Rating = &RatingResponse{
			PassengerRating:  t.Rating.PassengerRating,
			DriverRating:     t.Rating.DriverRating,
			PassengerComment: t.Rating.PassengerComment,
			DriverComment:    t.Rating.DriverComment,
		}
	}
	return resp
}

func newTripResponses(trips []*domain.Trip, lang domain.Language) []TripResponse {
	out := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, newTripResponse(t, lang))
	}
	return out
}

func newSummaryResponses(summaries []domain.TripSummary, lang domain.Language) []TripSummaryResponse {
	out := make([]TripSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, TripSummaryResponse{
			ID:              s.ID,
			PassengerName:   s.PassengerName,
			PassengerPhone:  s.PassengerPhone,
			PassengerEmail:  s.PassengerEmail,
			CurrentLocation: s.CurrentLocation,
			Destination:     s.Destination,
			TripTime:        s.TripTime,
			ContactPhone:    s.ContactPhone,
			Status:          string(s.Status),
			StatusLabel:     s.Status.Label(lang),
		})
	}
	return out
}

// languageOf picks the label vocabulary from Accept-Language.
func languageOf(c *gin.Context) domain.Language {
	return domain.ParseLanguage(c.GetHeader("Accept-Language"))
}

// respondError sends an error response with the appropriate HTTP status code.
// Unclassified errors are logged and hidden from the caller.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: verr.Errors})
		return
	}

	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(code, ErrorResponse{Msg: msgServerError})
		return
	}
	c.JSON(code, ErrorResponse{Msg: errorMessage(err)})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case service.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotTripPassenger):
		return http.StatusForbidden
	case errors.Is(err, service.ErrTripNotPending),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "Trip not found"
	case errors.Is(err, service.ErrNotTripPassenger):
		return service.ErrNotTripPassenger.Error()
	case errors.Is(err, service.ErrTripNotPending), errors.Is(err, repository.ErrConflict):
		return service.ErrTripNotPending.Error()
	}
	return err.Error()
}
