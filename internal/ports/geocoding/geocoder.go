// Package geocoding define el contrato contra el proveedor de geocoding
// que usa el formulario público para ubicar la dirección del rescate.
package geocoding

import (
	"context"
	"errors"
)

var ErrNoResult = errors.New("geocoding: no result")

type Place struct {
	DisplayName string
	Lat         float64
	Lon         float64
}

type Geocoder interface {
	// Search resuelve texto libre a lugares candidatos.
	Search(ctx context.Context, query string) ([]Place, error)

	// Reverse resuelve coordenadas a una dirección legible.
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}
