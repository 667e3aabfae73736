// Package services implements track search for guests.
//
// # Searchers
//
// All backends implement [Searcher]. [FallbackSearcher] composes two of them: the Spotify catalog as
// primary and a local JSON dataset as fallback. Any primary failure (token, network, non-2xx, malformed
// body, timeout) is logged and answered from the fallback, so guests always get results.
//
// # Token Cache
//
// [TokenCache] holds one app-level bearer token obtained with the OAuth2 client-credentials grant.
// A token is handed out while now < expiresAt - skew, where skew is 10% of its lifetime clamped to
// [60s, 300s]. Concurrent callers that find no valid token share one refresh through
// [singleflight.Group].
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotConfigured] : no client credentials
//   - [shared.ErrAuthFailed] : the token exchange failed
//   - [shared.ErrAPIRequest] : catalog request failed or returned an unusable body
//   - [shared.ErrTimeout] : catalog request exceeded its deadline
//   - [shared.ErrStorage] : the fallback dataset is missing or corrupt
package services
