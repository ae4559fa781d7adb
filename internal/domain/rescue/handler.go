package rescue

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"taara-rescue/internal/middleware"
	"taara-rescue/internal/upload"
	"taara-rescue/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, svc *Service, uploads *upload.Store) {
	r.Route("/rescue-requests", func(rr chi.Router) {
		// Rate limit por IP solo en el intake público.
		rr.With(httprate.LimitByIP(10, time.Minute)).Post("/", submitRescueHandler(svc, uploads))
		rr.Get("/track/{code}", trackRescueHandler(svc))

		// Solo panel admin
		rr.Get("/", listRescueHandler(svc))
		rr.Get("/{requestID}", getRescueHandler(svc))
		rr.Patch("/{requestID}/status", setStatusHandler(svc))
		rr.Post("/{requestID}/notes", addNoteHandler(svc))
	})
}

type noteResponse struct {
	Text      string    `json:"text"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type rescueResponse struct {
	ID            string         `json:"_id"`
	TrackingCode  string         `json:"trackingCode"`
	FullName      string         `json:"fullName"`
	ContactNumber string         `json:"contactNumber"`
	Email         string         `json:"email"`
	Concern       string         `json:"concern"`
	LocationNote  string         `json:"locationNote"`
	Urgency       string         `json:"urgency,omitempty"`
	Tag           string         `json:"tag"`
	PhotoURL      string         `json:"photoUrl,omitempty"`
	Status        string         `json:"status"`
	AssignedTo    string         `json:"assignedTo,omitempty"`
	Notes         []noteResponse `json:"notes"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// trackResponse es la vista pública: sin datos de contacto ni notas
// internas, solo lo que el denunciante necesita para seguir su caso.
type trackResponse struct {
	TrackingCode string    `json:"trackingCode"`
	Status       string    `json:"status"`
	Tag          string    `json:"tag"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// submitRescueHandler recibe el formulario público: multipart con los
// campos del caso y una foto opcional (campo "photo", máx 5MB). Acepta
// un header Idempotency-Key para reintentos sin duplicar.
//
// @Summary  Submit a rescue request
// @Accept   multipart/form-data
// @Produce  json
// @Success  201 {object} map[string]string
// @Router   /api/rescue-requests [post]
func submitRescueHandler(svc *Service, uploads *upload.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, upload.MaxRescuePhotoBytes+1<<20)

		if err := r.ParseMultipartForm(4 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}

		in := SubmitInput{
			FullName:       r.FormValue("fullName"),
			ContactNumber:  r.FormValue("contactNumber"),
			Email:          r.FormValue("email"),
			Concern:        r.FormValue("concern"),
			LocationNote:   r.FormValue("locationNote"),
			Urgency:        r.FormValue("urgency"),
			Tag:            r.FormValue("tag"),
			IdempotencyKey: r.Header.Get("Idempotency-Key"),
		}

		// Validar antes de tocar el disco: un form inválido no deja
		// fotos huérfanas en uploads/.
		if errs := svc.validateSubmit(in); errs != nil {
			writeValidationFailed(w, errs)
			return
		}

		savedPhoto := ""
		if _, fh, err := r.FormFile("photo"); err == nil {
			saved, err := uploads.Save("rescue", fh, upload.MaxRescuePhotoBytes)
			if err != nil {
				switch {
				case errors.Is(err, upload.ErrTooLarge):
					writeError(w, http.StatusBadRequest, "Photo must be 5MB or smaller")
				case errors.Is(err, upload.ErrNotImage):
					writeError(w, http.StatusBadRequest, "Only image files are allowed")
				default:
					writeError(w, http.StatusInternalServerError, "Failed to store photo")
				}
				return
			}
			savedPhoto = saved.Filename
			in.PhotoURL = saved.URL
			in.PhotoCType = saved.ContentType
		}

		req, replayed, err := svc.Submit(r.Context(), in)
		if err != nil {
			// La foto ya quedó en disco; si el insert falló no hay
			// documento que la referencie.
			if savedPhoto != "" {
				_ = uploads.Remove(savedPhoto)
			}
			var verrs validation.Errors
			if errors.As(err, &verrs) {
				writeValidationFailed(w, verrs)
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to submit rescue request")
			return
		}

		status := http.StatusCreated
		if replayed {
			// El documento original conserva su foto; la recién subida
			// no queda referenciada.
			if savedPhoto != "" {
				_ = uploads.Remove(savedPhoto)
			}
			status = http.StatusOK
		}
		writeJSON(w, status, map[string]any{
			"success":   true,
			"message":   "Rescue request submitted successfully",
			"requestId": req.TrackingCode,
		})
	}
}

func trackRescueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := svc.Track(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Rescue request not found")
			return
		}
		writeJSON(w, http.StatusOK, trackResponse{
			TrackingCode: req.TrackingCode,
			Status:       string(req.Status),
			Tag:          string(req.Tag),
			CreatedAt:    req.CreatedAt,
			UpdatedAt:    req.UpdatedAt,
		})
	}
}

func listRescueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch rescue requests")
			return
		}

		out := make([]rescueResponse, 0, len(items))
		for _, req := range items {
			out = append(out, toRescueResponse(req))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getRescueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		req, err := svc.Get(r.Context(), chi.URLParam(r, "requestID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Rescue request not found")
			return
		}
		writeJSON(w, http.StatusOK, toRescueResponse(req))
	}
}

type setStatusRequest struct {
	Status     string  `json:"status" validate:"required,oneof=pending in-progress resolved closed"`
	AssignedTo *string `json:"assignedTo"`
}

func setStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if errs := validation.Struct(req); errs != nil {
			writeValidationFailed(w, errs)
			return
		}

		updated, err := svc.SetStatus(r.Context(), chi.URLParam(r, "requestID"), StatusInput{
			Status:     Status(req.Status),
			AssignedTo: req.AssignedTo,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "Rescue request not found")
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "Invalid status")
			default:
				writeError(w, http.StatusInternalServerError, "Failed to update rescue request")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Rescue request updated successfully",
			"request": toRescueResponse(updated),
		})
	}
}

type addNoteRequest struct {
	Text string `json:"text" validate:"required"`
}

func addNoteHandler(svc *Service) http.HandlerFunc {
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

		var req addNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if errs := validation.Struct(req); errs != nil {
			writeValidationFailed(w, errs)
			return
		}

		updated, err := svc.AddNote(r.Context(), chi.URLParam(r, "requestID"), req.Text, claims.Username)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "Rescue request not found")
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "Note text is required")
			default:
				writeError(w, http.StatusInternalServerError, "Failed to add note")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Note added successfully",
			"request": toRescueResponse(updated),
		})
	}
}

func toRescueResponse(req RescueRequest) rescueResponse {
	notes := make([]noteResponse, 0, len(req.Notes))
	for _, n := range req.Notes {
		notes = append(notes, noteResponse{
			Text:      n.Text,
			CreatedBy: n.CreatedBy,
			CreatedAt: n.CreatedAt,
		})
	}
	return rescueResponse{
		ID:            req.ID,
		TrackingCode:  req.TrackingCode,
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Concern:       req.Concern,
		LocationNote:  req.LocationNote,
		Urgency:       req.Urgency,
		Tag:           string(req.Tag),
		PhotoURL:      req.PhotoURL,
		Status:        string(req.Status),
		AssignedTo:    req.AssignedTo,
		Notes:         notes,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
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

func writeValidationFailed(w http.ResponseWriter, errs validation.Errors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}

// writeJSON está duplicado intencionalmente en cada paquete de dominio
// para no acoplar los handlers a un paquete compartido de helpers.
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
