package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
)

// Client queries a reverse-geocoding service for a place-type hint near a
// centroid. Lookup errors are returned to the caller, which treats them as
// absence of signal; they never abort a detection run.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an enrichment client with the given endpoint and timeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// lookupResponse is the wire shape returned by the geocoding service
type lookupResponse struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Lookup fetches the place-type hint for a coordinate. A response with an
// unmappable type yields (nil, nil).
func (c *Client) Lookup(ctx context.Context, lat, lon float64) (*models.EnrichmentResult, error) {
	endpoint := fmt.Sprintf("%s/reverse?lat=%s&lon=%s",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%.6f", lat)),
		url.QueryEscape(fmt.Sprintf("%.6f", lon)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build enrichment request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrichment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("enrichment service returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode enrichment response: %w", err)
	}

	hint := MapPlaceType(body.Type)
	if hint == models.CategoryUnknown {
		return nil, nil
	}

	return &models.EnrichmentResult{
		CategoryHint:     hint,
		DisplayName:      body.Name,
		SourceConfidence: clamp01(body.Confidence),
	}, nil
}

// MapPlaceType maps geocoder place-type strings onto categories. Unmapped
// types yield UNKNOWN, which callers treat as no hint.
func MapPlaceType(placeType string) models.Category {
	switch strings.ToLower(strings.TrimSpace(placeType)) {
	case "residential", "house", "apartments":
		return models.CategoryHome
	case "office", "commercial", "coworking":
		return models.CategoryWork
	case "gym", "fitness_centre", "sports_centre":
		return models.CategoryGym
	case "restaurant", "cafe", "fast_food", "bar":
		return models.CategoryRestaurant
	case "shop", "mall", "supermarket", "marketplace":
		return models.CategoryShopping
	case "station", "bus_stop", "tram_stop", "subway_entrance":
		return models.CategoryTransit
	case "school", "university", "college", "kindergarten", "library":
		return models.CategoryEducation
	default:
		return models.CategoryUnknown
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
