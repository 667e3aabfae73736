package server

import (
	"net/http"

	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// BasicRouter implements the [Router] interface on top of [chi.Mux].
//
// Router-level middleware must be added with Use before any route is registered.
type BasicRouter struct {
	mux *chi.Mux
}

// NewBasicRouter creates a new [BasicRouter] instance with JSON 404 and 405 responses.
func NewBasicRouter() *BasicRouter {
	mux := chi.NewRouter()
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: codeNotFound, Message: "no route for " + r.URL.Path})
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: codeInvalidRequest, Message: "method not allowed"})
	})
	return &BasicRouter{mux: mux}
}

// Use adds [Middleware] to the router's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	for _, m := range middleware {
		r.mux.Use(m)
	}
}

// Handle registers a handler for the specified HTTP method and path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Method(method, path, handler)
}

// Handler registers every route returned by [Handler.Routes] through [BasicRouter.Handle],
// each wrapped with its own middleware so the first listed runs outermost.
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		var h http.Handler = route.Handler
		for i := len(route.Middleware) - 1; i >= 0; i-- {
			h = route.Middleware[i](h)
		}
		r.Handle(route.Method, route.Path, h)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// NewAPIRouter builds the full HTTP stack: recovery, client address, request IDs, access log, CORS, then api.
func NewAPIRouter(cfg shared.ServerConfig, api Handler, logger *log.Logger) *BasicRouter {
	r := NewBasicRouter()
	r.Use(middleware.Recoverer)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestID, AccessLog(logger), CORS(cfg.AllowedOrigin))
	r.Handler(api)
	return r
}
