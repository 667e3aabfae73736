// Spotify Web API implementation of [Searcher]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/search
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	defaultCatalogTimeout = 5 * time.Second
	maxErrorBody          = 512
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	PreviewURL *string         `json:"preview_url"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyTrackPage is one page of track search results.
type SpotifyTrackPage struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
	Limit int            `json:"limit"`
}

// SpotifySearchResponse is the body of GET /search?type=track.
type SpotifySearchResponse struct {
	Tracks *SpotifyTrackPage `json:"tracks"`
}

// Summary normalizes the track for clients.
func (t SpotifyTrack) Summary() models.TrackSummary {
	s := models.TrackSummary{
		ID:      t.ID,
		Name:    t.Name,
		Album:   t.Album.Name,
		URI:     t.URI,
		Artists: make([]string, 0, len(t.Artists)),
	}
	for _, a := range t.Artists {
		s.Artists = append(s.Artists, a.Name)
	}
	if len(t.Album.Images) > 0 {
		s.ImageURL = t.Album.Images[0].URL
	}
	if t.PreviewURL != nil {
		s.PreviewURL = *t.PreviewURL
	}
	if s.URI == "" && s.ID != "" {
		s.URI = models.TrackURIPrefix + s.ID
	}
	return s
}

// tokenInvalidator is a [TokenProvider] that can drop a token the catalog rejected.
type tokenInvalidator interface {
	Invalidate()
}

// SpotifySearcher queries the catalog search endpoint with an app-level bearer token.
type SpotifySearcher struct {
	tokens     TokenProvider
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// NewSpotifySearcher creates a searcher for cfg. A nil client uses [http.DefaultClient].
func NewSpotifySearcher(cfg shared.CatalogConfig, tokens TokenProvider, client *http.Client) *SpotifySearcher {
	if client == nil {
		client = http.DefaultClient
	}

	baseURL := strings.TrimRight(cfg.APIURL, "/")
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = defaultCatalogTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}

	return &SpotifySearcher{
		tokens:     tokens,
		baseURL:    baseURL,
		httpClient: client,
		limiter:    limiter,
		timeout:    timeout,
	}
}

func (s *SpotifySearcher) Name() string {
	return "Spotify"
}

// Search issues a single bounded request to the catalog and normalizes the results.
func (s *SpotifySearcher) Search(ctx context.Context, query string, limit int) ([]models.TrackSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", shared.ErrServiceUnavailable, err)
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(ClampLimit(limit)))

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, token, "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}
	if response.Tracks == nil {
		return nil, fmt.Errorf("%w: search response has no tracks", shared.ErrAPIRequest)
	}

	items := make([]models.TrackSummary, 0, len(response.Tracks.Items))
	for _, t := range response.Tracks.Items {
		items = append(items, t.Summary())
	}
	return items, nil
}

// doRequest performs an authenticated GET against the catalog API.
func (s *SpotifySearcher) doRequest(ctx context.Context, token, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		s.invalidateToken()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: spotify status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// invalidateToken evicts the cached token so the next search fetches a new one.
func (s *SpotifySearcher) invalidateToken() {
	if inv, ok := s.tokens.(tokenInvalidator); ok {
		inv.Invalidate()
	}
}
