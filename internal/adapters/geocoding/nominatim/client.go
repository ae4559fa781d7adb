// Package nominatim implementa geocoding.Geocoder contra la API pública
// de Nominatim (OpenStreetMap).
package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"taara-rescue/internal/platform/httpclient"
	"taara-rescue/internal/ports/geocoding"
)

// userAgent identifica la app ante Nominatim; su política de uso exige
// un User-Agent propio.
const userAgent = "taara-rescue/1.0"

type Client struct {
	http *httpclient.Client
}

func New(http *httpclient.Client) *Client {
	return &Client{http: http}
}

// placeDTO refleja el formato jsonv2 de Nominatim: lat/lon vienen como
// strings.
type placeDTO struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (d placeDTO) toPlace() (geocoding.Place, error) {
	lat, err := strconv.ParseFloat(d.Lat, 64)
	if err != nil {
		return geocoding.Place{}, fmt.Errorf("nominatim: bad lat %q: %w", d.Lat, err)
	}
	lon, err := strconv.ParseFloat(d.Lon, 64)
	if err != nil {
		return geocoding.Place{}, fmt.Errorf("nominatim: bad lon %q: %w", d.Lon, err)
	}
	return geocoding.Place{DisplayName: d.DisplayName, Lat: lat, Lon: lon}, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]geocoding.Place, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", "5")

	var dtos []placeDTO
	if err := c.http.GetJSON(ctx, "/search", q, map[string]string{"User-Agent": userAgent}, &dtos); err != nil {
		return nil, fmt.Errorf("nominatim: search: %w", err)
	}

	out := make([]geocoding.Place, 0, len(dtos))
	for _, d := range dtos {
		p, err := d.toPlace()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Client) Reverse(ctx context.Context, lat, lon float64) (geocoding.Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "jsonv2")

	var dto placeDTO
	if err := c.http.GetJSON(ctx, "/reverse", q, map[string]string{"User-Agent": userAgent}, &dto); err != nil {
		return geocoding.Place{}, fmt.Errorf("nominatim: reverse: %w", err)
	}
	if dto.DisplayName == "" {
		return geocoding.Place{}, geocoding.ErrNoResult
	}
	return dto.toPlace()
}
