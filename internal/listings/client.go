// Package listings provides the HTTP client for the external listings provider.
package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"deal_finder_backend/internal/deals/domain"
	"deal_finder_backend/platform/logger"
)

// Client is the HTTP client for the listings provider API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

// New creates a new listings provider client.
func New(baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		log:        log,
	}
}

// SearchNear fetches active listings within radiusKM of the given point.
// A point with no coverage returns an empty slice, not an error.
func (c *Client) SearchNear(ctx context.Context, lat, lng, radiusKM float64) ([]domain.ExternalCandidate, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("radius_km", strconv.FormatFloat(radiusKM, 'f', -1, 64))

	reqURL := fmt.Sprintf("%s/v1/listings/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("listings request failed", "error", err, "url", reqURL)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Success - continue to decode
	case http.StatusUnauthorized:
		c.log.Error("listings unauthorized", "status", resp.StatusCode)
		return nil, fmt.Errorf("unauthorized: invalid API key")
	case http.StatusNotFound:
		// No coverage for this area - not an error
		c.log.Debug("listings no coverage", "lat", lat, "lng", lng)
		return nil, nil
	case http.StatusTooManyRequests:
		c.log.Warn("listings rate limited", "status", resp.StatusCode)
		return nil, fmt.Errorf("rate limited")
	default:
		c.log.Error("listings upstream error", "status", resp.StatusCode, "url", reqURL)
		return nil, fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("listings decode failed", "error", err)
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]domain.ExternalCandidate, 0, len(payload.Listings))
	for _, l := range payload.Listings {
		candidates = append(candidates, l.toCandidate())
	}

	return candidates, nil
}

// Contact fetches agent and brokerage details for one listing. The search
// payload omits them; only accepted matches are worth the extra request.
func (c *Client) Contact(ctx context.Context, listingID string) (domain.AgentContact, error) {
	reqURL := fmt.Sprintf("%s/v1/listings/%s/contact", c.baseURL, url.PathEscape(listingID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.AgentContact{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("listings contact request failed", "error", err, "listing_id", listingID)
		return domain.AgentContact{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Success - continue to decode
	case http.StatusNotFound:
		// Listing without published contact info - not an error
		c.log.Debug("listings no contact info", "listing_id", listingID)
		return domain.AgentContact{}, nil
	default:
		c.log.Error("listings contact upstream error", "status", resp.StatusCode, "listing_id", listingID)
		return domain.AgentContact{}, fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	var payload apiContact
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("listings contact decode failed", "error", err)
		return domain.AgentContact{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.AgentContact{
		AgentName:  payload.Agent.Name,
		AgentPhone: payload.Agent.Phone,
		AgentEmail: payload.Agent.Email,
		Brokerage:  payload.Agent.Brokerage,
	}, nil
}

// searchResponse is the raw provider search payload.
type searchResponse struct {
	Listings []apiListing `json:"listings"`
}

type apiListing struct {
	ID    string  `json:"id"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Price float64 `json:"price"`
}

type apiContact struct {
	Agent struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		Email     string `json:"email"`
		Brokerage string `json:"brokerage"`
	} `json:"agent"`
}

func (a *apiListing) toCandidate() domain.ExternalCandidate {
	return domain.ExternalCandidate{
		ID:    a.ID,
		Lat:   a.Lat,
		Lng:   a.Lng,
		Price: a.Price,
	}
}
