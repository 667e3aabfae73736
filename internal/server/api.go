package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/services"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/WillyGrv/Wedding-M-W/internal/tasks"
	"github.com/charmbracelet/log"
)

const maxBodyBytes = 64 << 10

// TokenStatusReporter describes the catalog token cache without exposing the token.
type TokenStatusReporter interface {
	Status() services.TokenStatus
}

// APIHandler serves the guest and organizer JSON endpoints.
type APIHandler struct {
	Searcher    services.Searcher
	Submissions *tasks.Submissions
	Gateway     *tasks.AdminGateway
	Tokens      TokenStatusReporter
	Limiter     *RateLimiter
	Logger      *log.Logger
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type addTrackRequest struct {
	URI   string                `json:"uri"`
	Track *models.TrackSnapshot `json:"track,omitempty"`
}

type uriRequest struct {
	URI string `json:"uri"`
}

// Routes implements [Handler].
func (h *APIHandler) Routes() []Route {
	var searchLimit, submitLimit []Middleware
	if h.Limiter != nil {
		searchLimit = []Middleware{h.Limiter.Middleware(RouteSearch)}
		submitLimit = []Middleware{h.Limiter.Middleware(RouteSubmit)}
	}

	return []Route{
		{Method: http.MethodGet, Path: "/api/health", Handler: h.health},
		{Method: http.MethodGet, Path: "/api/debug/token-status", Handler: h.tokenStatus},
		{Method: http.MethodGet, Path: "/api/search", Handler: h.search, Middleware: searchLimit},
		{Method: http.MethodPost, Path: "/api/add-track", Handler: h.addTrack, Middleware: submitLimit},
		{Method: http.MethodGet, Path: "/api/admin/requests", Handler: h.listRequests},
		{Method: http.MethodPost, Path: "/api/admin/confirm", Handler: h.confirm},
		{Method: http.MethodPost, Path: "/api/admin/manual-added", Handler: h.manualAdded},
		{Method: http.MethodPost, Path: "/api/admin/delete", Handler: h.delete},
	}
}

func (h *APIHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *APIHandler) tokenStatus(w http.ResponseWriter, r *http.Request) {
	var status services.TokenStatus
	if h.Tokens != nil {
		status = h.Tokens.Status()
	}
	writeJSON(w, http.StatusOK, status)
}

// search handles GET /api/search?q=&limit=
func (h *APIHandler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.Searcher.Search(r.Context(), q.Get("q"), services.ParseLimit(q.Get("limit")))
	if err != nil {
		h.fail(w, r, "search failed", err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse[models.TrackSummary]{Items: items})
}

// addTrack handles POST /api/add-track {uri, track?}
func (h *APIHandler) addTrack(w http.ResponseWriter, r *http.Request) {
	var body addTrackRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.fail(w, r, "invalid body", err)
		return
	}

	if _, err := h.Submissions.Submit(r.Context(), body.URI, body.Track, ClientIP(r)); err != nil {
		h.fail(w, r, "submit failed", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// listRequests handles GET /api/admin/requests?status=
func (h *APIHandler) listRequests(w http.ResponseWriter, r *http.Request) {
	items, err := h.Gateway.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, "list failed", err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse[*models.TrackRequest]{Items: items})
}

func (h *APIHandler) confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Gateway.Confirm)
}

func (h *APIHandler) manualAdded(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Gateway.MarkManualAdded)
}

func (h *APIHandler) delete(w http.ResponseWriter, r *http.Request) {
	var body uriRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.fail(w, r, "invalid body", err)
		return
	}

	if err := h.Gateway.Delete(r.Context(), body.URI); err != nil {
		h.fail(w, r, "delete failed", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// transition decodes {uri} and responds with the updated entry.
func (h *APIHandler) transition(w http.ResponseWriter, r *http.Request, action func(context.Context, string) (*models.TrackRequest, error)) {
	var body uriRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.fail(w, r, "invalid body", err)
		return
	}

	req, err := action(r.Context(), body.URI)
	if err != nil {
		h.fail(w, r, "update failed", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// fail writes the error response; server-side failures are logged with their cause.
func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := httpError(w, err)
	if status >= http.StatusInternalServerError && h.Logger != nil {
		h.Logger.Error(msg, "path", r.URL.Path, "request_id", GetRequestID(r.Context()), "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", shared.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON: %v", shared.ErrInvalidInput, err)
	}
	return nil
}
