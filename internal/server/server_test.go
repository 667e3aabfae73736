package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/repositories"
	"github.com/WillyGrv/Wedding-M-W/internal/services"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/WillyGrv/Wedding-M-W/internal/tasks"
	tu "github.com/WillyGrv/Wedding-M-W/internal/testing"
)

type testAPI struct {
	handler http.Handler
	store   models.RequestStore
	limiter *RateLimiter
	clock   *tu.Clock
	logs    *bytes.Buffer
}

type apiOpts struct {
	dataset string
	primary services.Searcher
	tokens  TokenStatusReporter
	limits  shared.LimitsConfig
}

func newTestAPI(t *testing.T, opts apiOpts) *testAPI {
	t.Helper()

	store, err := repositories.NewJSONRequestRepository(filepath.Join(t.TempDir(), "playlist-log.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if opts.dataset == "" {
		opts.dataset = tu.WriteDataset(t, []services.DatasetTrack{
			{ID: "lennon1", Name: "Imagine", Artists: []string{"John Lennon"}},
			{ID: "abba1", Name: "Dancing Queen", Artists: []string{"ABBA"}},
		})
	}
	if opts.limits.Window.Duration == 0 {
		opts.limits = shared.LimitsConfig{Window: shared.Duration{Duration: time.Hour}, Search: 60, Mutation: 30}
	}

	var logs bytes.Buffer
	logger := shared.NewLogger(&logs)
	clock := tu.NewClock(time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC))

	submissions := tasks.NewSubmissions(store, true, logger)
	submissions.SetClock(clock.Now)
	gateway := tasks.NewAdminGateway(store, logger)
	gateway.SetClock(clock.Now)

	limiter := NewRateLimiter(opts.limits, logger)
	limiter.now = clock.Now

	api := &APIHandler{
		Searcher:    &services.FallbackSearcher{Primary: opts.primary, Fallback: services.NewLocalSearcher(opts.dataset), Logger: logger},
		Submissions: submissions,
		Gateway:     gateway,
		Tokens:      opts.tokens,
		Limiter:     limiter,
		Logger:      logger,
	}

	cfg := shared.DefaultConfig().Server
	return &testAPI{
		handler: NewAPIRouter(cfg, api, logger),
		store:   store,
		limiter: limiter,
		clock:   clock,
		logs:    &logs,
	}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	body := decode[errorBody](t, rec)
	if body.Success || body.Error != code {
		t.Errorf("expected error code %q, got %+v", code, body)
	}
}
