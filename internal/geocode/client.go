// Package geocode provides a client for a Nominatim-style reverse-geocoding
// HTTP API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gramseva/gram-seva-backend/internal/config"
	"github.com/gramseva/gram-seva-backend/internal/geo"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// Client calls the reverse-geocoding provider.
type Client struct {
	apiURL    string
	userAgent string
	log       *logger.Logger
	http      *http.Client
}

// NewClient creates a new reverse-geocoding client.
func NewClient(cfg *config.GeocodeConfig, log *logger.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://nominatim.openstreetmap.org/reverse"
	}
	return &Client{
		apiURL:    apiURL,
		userAgent: cfg.UserAgent,
		log:       log,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type reverseResponse struct {
	DisplayName string      `json:"display_name"`
	Address     geo.Address `json:"address"`
}

// Reverse resolves coordinates to an address object.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*geo.Address, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("format", "jsonv2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}

	addr := body.Address
	addr.DisplayName = body.DisplayName

	c.log.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("display_name", body.DisplayName).
		Msg("Reverse geocoded position")

	return &addr, nil
}
