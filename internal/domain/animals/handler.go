package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"taara-rescue/internal/middleware"
	"taara-rescue/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, svc *Service, uploads *upload.Store) {
	r.Route("/animals", func(ar chi.Router) {
		// Rate limit por IP solo en el reporte público.
		ar.With(httprate.LimitByIP(10, time.Minute)).Post("/", createAnimalHandler(svc, uploads))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/{animalID}", getAnimalHandler(svc))

		// Solo panel admin
		ar.Put("/{animalID}", updateAnimalHandler(svc))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc))
	})

	// Alias histórico: la vista de adopción lista los mismos animales.
	r.Get("/adopt", listAnimalsHandler(svc))
}

type animalResponse struct {
	ID        string    `json:"_id"`
	Date      string    `json:"date"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed"`
	Address   string    `json:"address"`
	Reporter  string    `json:"reporter"`
	Remarks   string    `json:"remarks"`
	ImageURL  string    `json:"imageUrl"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// createAnimalHandler recibe el reporte público: multipart con campos de
// texto y una imagen opcional (campo "image", máx 10MB, validado acá en
// el server y no solo en el cliente).
//
// @Summary  Submit an animal report
// @Accept   multipart/form-data
// @Produce  json
// @Success  201 {object} map[string]string
// @Router   /api/animals [post]
func createAnimalHandler(svc *Service, uploads *upload.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// margen de 1MB sobre el límite de la imagen para los campos de texto
		r.Body = http.MaxBytesReader(w, r.Body, upload.MaxAnimalImageBytes+1<<20)

		if err := r.ParseMultipartForm(4 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}

		imageURL := ""
		if _, fh, err := r.FormFile("image"); err == nil {
			saved, err := uploads.Save("animal", fh, upload.MaxAnimalImageBytes)
			if err != nil {
				switch {
				case errors.Is(err, upload.ErrTooLarge):
					writeError(w, http.StatusBadRequest, "Image must be 10MB or smaller")
				case errors.Is(err, upload.ErrNotImage):
					writeError(w, http.StatusBadRequest, "Only images are allowed")
				default:
					writeError(w, http.StatusInternalServerError, "Failed to store image")
				}
				return
			}
			imageURL = saved.URL
		}

		_, err := svc.Create(r.Context(), CreateInput{
			Date:     r.FormValue("date"),
			Name:     r.FormValue("name"),
			Breed:    r.FormValue("breed"),
			Address:  r.FormValue("address"),
			Reporter: r.FormValue("reporter"),
			Remarks:  r.FormValue("remarks"),
			ImageURL: imageURL,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{
			"message": "Animal report submitted successfully",
		})
	}
}

func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Animal not found")
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

type updateAnimalRequest struct {
	Date     *string `json:"date"`
	Name     *string `json:"name"`
	Breed    *string `json:"breed"`
	Address  *string `json:"address"`
	Reporter *string `json:"reporter"`
	Remarks  *string `json:"remarks"`
	Status   *string `json:"status"`
}

func updateAnimalHandler(svc *Service) http.HandlerFunc {
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

		var req updateAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "animalID"), UpdateInput{
			Date:     req.Date,
			Name:     req.Name,
			Breed:    req.Breed,
			Address:  req.Address,
			Reporter: req.Reporter,
			Remarks:  req.Remarks,
			Status:   req.Status,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "Animal not found")
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "Invalid status")
			default:
				writeError(w, http.StatusInternalServerError, "Server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Animal updated successfully",
			"animal":  toAnimalResponse(a),
		})
	}
}

func deleteAnimalHandler(svc *Service) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "Animal not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Animal deleted successfully",
		})
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:        a.ID,
		Date:      a.Date,
		Name:      a.Name,
		Breed:     a.Breed,
		Address:   a.Address,
		Reporter:  a.Reporter,
		Remarks:   a.Remarks,
		ImageURL:  a.ImageURL,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
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
