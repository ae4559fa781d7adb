// Package geocode expone un proxy fino sobre el proveedor de geocoding
// para que el front no hable con Nominatim directo (CORS y User-Agent).
package geocode

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"taara-rescue/internal/ports/geocoding"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, geo geocoding.Geocoder) {
	r.Route("/geocode", func(gr chi.Router) {
		gr.Get("/search", searchHandler(geo))
		gr.Get("/reverse", reverseHandler(geo))
	})
}

type placeResponse struct {
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

func searchHandler(geo geocoding.Geocoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			writeError(w, http.StatusBadRequest, "Query is required")
			return
		}

		places, err := geo.Search(r.Context(), q)
		if err != nil {
			writeError(w, http.StatusBadGateway, "Geocoding service unavailable")
			return
		}

		out := make([]placeResponse, 0, len(places))
		for _, p := range places {
			out = append(out, placeResponse{DisplayName: p.DisplayName, Lat: p.Lat, Lon: p.Lon})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func reverseHandler(geo geocoding.Geocoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		if errLat != nil || errLon != nil {
			writeError(w, http.StatusBadRequest, "lat and lon are required")
			return
		}

		p, err := geo.Reverse(r.Context(), lat, lon)
		if err != nil {
			if errors.Is(err, geocoding.ErrNoResult) {
				writeError(w, http.StatusNotFound, "No address found for this location")
				return
			}
			writeError(w, http.StatusBadGateway, "Geocoding service unavailable")
			return
		}
		writeJSON(w, http.StatusOK, placeResponse{DisplayName: p.DisplayName, Lat: p.Lat, Lon: p.Lon})
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
