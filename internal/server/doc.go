// Package server provides HTTP routing, middleware, rate limiting and the JSON API for guests and the organizer.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// The [BasicRouter] implementation wraps a chi mux; router-level [Middleware] runs in the order added and
// must be registered before any route.
//
// Custom handlers implement the [Handler] interface and return their [Route] list, so a group of endpoints
// with per-route middleware (rate limits) is registered in one call.
//
// # Middleware
//
//   - [RequestID] : X-Request-ID propagation (UUID when absent)
//   - [AccessLog] : one log line per request with status and duration
//   - [CORS] : configurable origin, answers OPTIONS preflight with 204
//   - [RateLimiter.Middleware] : fixed-window budget per client IP and route, 429 when exceeded
//
// # Endpoints
//
//	GET  /api/health               {ok:true}
//	GET  /api/debug/token-status   {configured, cached, expiresInSec}
//	GET  /api/search?q=&limit=     {items:[TrackSummary]}
//	POST /api/add-track            {uri, track?} -> {success:true}
//	GET  /api/admin/requests       ?status=pending|confirmed -> {items:[TrackRequest]}
//	POST /api/admin/confirm        {uri} -> TrackRequest
//	POST /api/admin/manual-added   {uri} -> TrackRequest
//	POST /api/admin/delete         {uri} -> {success:true}
//
// # Errors
//
// Failures use {"success":false,"error":code,"message":...}. Sentinel errors from the shared package map to
// status codes in one place:
//
//	ErrInvalidInput, ErrMissingArgument  400 invalid_request
//	ErrConflict                          409 conflict
//	ErrNotFound                          404 not_found
//	ErrRateLimited                       429 rate_limited
//	ErrStorage                           500 storage_error
package server
