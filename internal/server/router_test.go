package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubHandler struct {
	routes []Route
}

func (s stubHandler) Routes() []Route { return s.routes }

func tagging(tag string, order *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*order = append(*order, tag)
			next.ServeHTTP(w, r)
		})
	}
}

func TestBasicRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		router := NewBasicRouter()
		router.Use(tagging("first", &order), tagging("second", &order))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Route Middleware Is Scoped", func(t *testing.T) {
		var order []string
		ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

		router := NewBasicRouter()
		router.Handler(stubHandler{routes: []Route{
			{Method: http.MethodGet, Path: "/limited", Handler: ok, Middleware: []Middleware{tagging("limited", &order)}},
			{Method: http.MethodGet, Path: "/open", Handler: ok},
		}})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/open", nil))
		if len(order) != 0 {
			t.Errorf("expected no route middleware on /open, got %v", order)
		}

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/limited", nil))
		if len(order) != 1 {
			t.Errorf("expected route middleware on /limited, got %v", order)
		}
	})

	t.Run("Route Middleware Runs Inside Router Middleware", func(t *testing.T) {
		var order []string
		router := NewBasicRouter()
		router.Use(tagging("router", &order))
		router.Handler(stubHandler{routes: []Route{
			{
				Method:     http.MethodPost,
				Path:       "/add",
				Handler:    func(w http.ResponseWriter, r *http.Request) { order = append(order, "handler") },
				Middleware: []Middleware{tagging("outer", &order), tagging("inner", &order)},
			},
		}})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/add", nil))

		if strings.Join(order, ",") != "router,outer,inner,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("JSON Errors", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodPost, "/submit", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		tests := []struct {
			name   string
			method string
			path   string
			status int
		}{
			{"Not Found", http.MethodGet, "/missing", http.StatusNotFound},
			{"Method Not Allowed", http.MethodGet, "/submit", http.StatusMethodNotAllowed},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

				if rec.Code != tt.status {
					t.Errorf("expected %d, got %d", tt.status, rec.Code)
				}
				if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
					t.Errorf("expected JSON error, got %q", rec.Header().Get("Content-Type"))
				}
				if !strings.Contains(rec.Body.String(), `"success":false`) {
					t.Errorf("unexpected body %s", rec.Body.String())
				}
			})
		}
	})
}
