package applications

import (
	"encoding/json"
	"net/http"
	"time"

	"taara-rescue/internal/middleware"
	"taara-rescue/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/applications", func(ar chi.Router) {
		// Rate limit por IP solo en el formulario público.
		ar.With(httprate.LimitByIP(10, time.Minute)).Post("/", createApplicationHandler(svc))

		// Revisión desde el panel (las solicitudes ya no son write-only).
		ar.Get("/", listApplicationsHandler(svc))
	})
}

type createApplicationRequest struct {
	Name       string `json:"name" validate:"required"`
	Contact    string `json:"contact" validate:"required"`
	Address    string `json:"address" validate:"required"`
	PetType    string `json:"petType" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
	Experience string `json:"experience"`
	Notes      string `json:"notes"`
}

type applicationResponse struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Contact    string    `json:"contact"`
	Address    string    `json:"address"`
	PetType    string    `json:"petType"`
	Reason     string    `json:"reason"`
	Experience string    `json:"experience"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func createApplicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createApplicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if errs := validation.Struct(req); errs != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Validation failed",
				"errors":  errs,
			})
			return
		}

		_, err := svc.Create(r.Context(), CreateInput{
			Name:       req.Name,
			Contact:    req.Contact,
			Address:    req.Address,
			PetType:    req.PetType,
			Reason:     req.Reason,
			Experience: req.Experience,
			Notes:      req.Notes,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to submit application")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{
			"message": "Application submitted successfully",
		})
	}
}

func listApplicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !claims.IsAdmin() {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch applications")
			return
		}

		out := make([]applicationResponse, 0, len(items))
		for _, a := range items {
			out = append(out, applicationResponse{
				ID:         a.ID,
				Name:       a.Name,
				Contact:    a.Contact,
				Address:    a.Address,
				PetType:    a.PetType,
				Reason:     a.Reason,
				Experience: a.Experience,
				Notes:      a.Notes,
				CreatedAt:  a.CreatedAt,
				UpdatedAt:  a.UpdatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

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
