package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"taara-rescue/internal/middleware"
	"taara-rescue/internal/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/events", func(er chi.Router) {
		er.Get("/", listEventsHandler(svc))
		er.Get("/{eventID}", getEventHandler(svc))

		// Calendario del panel admin
		er.Post("/", createEventHandler(svc))
		er.Put("/{eventID}", updateEventHandler(svc))
		er.Delete("/{eventID}", deleteEventHandler(svc))
	})
}

type createEventRequest struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=confirmed pending cancelled"`
}

type updateEventRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type eventResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// listEventsHandler devuelve todos los eventos ordenados por fecha asc.
//
// @Summary  List events
// @Produce  json
// @Success  200 {array} eventResponse
// @Router   /api/events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch events")
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// @Summary  Create an event
// @Accept   json
// @Produce  json
// @Success  201 {object} map[string]any
// @Failure  400 {object} map[string]any
// @Router   /api/events [post]
func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if errs := validation.Struct(req); errs != nil {
			writeValidationFailed(w, errs)
			return
		}

		date, err := parseEventDate(req.Date)
		if err != nil {
			writeValidationFailed(w, validation.Errors{"date": "Date must be YYYY-MM-DD or RFC3339"})
			return
		}

		e, err := svc.Create(r.Context(), CreateInput{
			Title:       req.Title,
			Date:        date,
			Time:        req.Time,
			Location:    req.Location,
			Description: req.Description,
			Status:      Status(req.Status),
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to create event")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Event created successfully",
			"event":   toEventResponse(e),
		})
	}
}

func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req updateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		in := UpdateInput{
			Title:       req.Title,
			Time:        req.Time,
			Location:    req.Location,
			Description: req.Description,
		}
		if req.Date != nil {
			date, err := parseEventDate(*req.Date)
			if err != nil {
				writeValidationFailed(w, validation.Errors{"date": "Date must be YYYY-MM-DD or RFC3339"})
				return
			}
			in.Date = &date
		}
		if req.Status != nil {
			st := Status(*req.Status)
			in.Status = &st
		}

		e, err := svc.Update(r.Context(), chi.URLParam(r, "eventID"), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "Event not found")
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "Failed to update event")
			default:
				writeError(w, http.StatusInternalServerError, "Failed to update event")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Event updated successfully",
			"event":   toEventResponse(e),
		})
	}
}

func deleteEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "eventID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "Event not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to delete event")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Event deleted successfully",
		})
	}
}

// parseEventDate acepta RFC3339 o YYYY-MM-DD (el calendario manda ambos).
func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}
	if !claims.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return false
	}
	return true
}

func toEventResponse(e Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Description: e.Description,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

func writeValidationFailed(w http.ResponseWriter, errs validation.Errors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}
