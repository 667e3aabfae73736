package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

const (
	minSkew    = 60 * time.Second
	maxSkew    = 300 * time.Second
	defaultTTL = time.Hour
)

// TokenFetcher performs one client-credentials exchange. [clientcredentials.Config] satisfies it.
type TokenFetcher interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// CachedToken is a bearer token and its absolute expiry. It is never persisted.
type CachedToken struct {
	AccessToken string
	ExpiresAt   time.Time
	Skew        time.Duration
}

// RefreshAt is the moment after which the token is no longer handed out.
func (t CachedToken) RefreshAt() time.Time {
	return t.ExpiresAt.Add(-t.Skew)
}

// TokenStatus describes the cache without exposing the token value.
type TokenStatus struct {
	Configured   bool `json:"configured"`
	Cached       bool `json:"cached"`
	ExpiresInSec int  `json:"expiresInSec"`
}

// Skew returns the refresh margin for a token lifetime: 10% of ttl, clamped to [60s, 300s].
func Skew(ttl time.Duration) time.Duration {
	return min(max(ttl/10, minSkew), maxSkew)
}

// TokenCache hands out a catalog bearer token, refreshing it before expiry.
//
// Concurrent callers that find no valid token share a single in-flight refresh.
type TokenCache struct {
	fetcher TokenFetcher
	timeout time.Duration
	now     func() time.Time

	mu     sync.RWMutex
	cached *CachedToken
	group  singleflight.Group
}

// NewTokenCache builds a cache that exchanges cfg's client credentials at cfg.TokenURL.
//
// When credentials are missing the cache is unconfigured and [TokenCache.Token] returns [shared.ErrNotConfigured].
func NewTokenCache(cfg shared.CatalogConfig, client *http.Client) *TokenCache {
	c := &TokenCache{timeout: cfg.Timeout.Duration, now: time.Now}
	if !cfg.Configured() {
		return c
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}

	c.fetcher = &clientFetcher{
		config: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		client: client,
	}
	return c
}

// NewTokenCacheWithFetcher builds a cache around an arbitrary fetcher.
func NewTokenCacheWithFetcher(f TokenFetcher, timeout time.Duration) *TokenCache {
	return &TokenCache{fetcher: f, timeout: timeout, now: time.Now}
}

// Configured reports whether the cache can fetch tokens at all.
func (c *TokenCache) Configured() bool {
	return c.fetcher != nil
}

// Token returns a bearer token valid for at least the skew margin.
//
// Failures are wrapped in [shared.ErrNotConfigured] or [shared.ErrAuthFailed] and are not retried.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if c.fetcher == nil {
		return "", shared.ErrNotConfigured
	}

	if tok, ok := c.valid(); ok {
		return tok, nil
	}

	ch := c.group.DoChan("token", func() (any, error) {
		if tok, ok := c.valid(); ok {
			return tok, nil
		}
		return c.refresh(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, ctx.Err())
	}
}

// Status reports whether a usable token is cached and how long it remains usable.
func (c *TokenCache) Status() TokenStatus {
	status := TokenStatus{Configured: c.Configured()}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cached == nil {
		return status
	}

	remaining := c.cached.RefreshAt().Sub(c.now())
	if remaining > 0 {
		status.Cached = true
		status.ExpiresInSec = int(remaining / time.Second)
	}
	return status
}

// Invalidate drops the cached token so the next call refreshes.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}

func (c *TokenCache) valid() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cached != nil && c.now().Before(c.cached.RefreshAt()) {
		return c.cached.AccessToken, true
	}
	return "", false
}

// refresh runs detached from the first caller's cancellation, since other callers may be waiting on it.
func (c *TokenCache) refresh(ctx context.Context) (string, error) {
	fctx := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(fctx, c.timeout)
		defer cancel()
	}

	tok, err := c.fetcher.Token(fctx)
	if err != nil {
		return "", fmt.Errorf("%w: token request failed: %v", shared.ErrAuthFailed, err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", shared.ErrAuthFailed)
	}

	now := c.now()
	ttl := defaultTTL
	if !tok.Expiry.IsZero() {
		ttl = max(tok.Expiry.Sub(now), 0)
	}

	c.mu.Lock()
	c.cached = &CachedToken{
		AccessToken: tok.AccessToken,
		ExpiresAt:   now.Add(ttl),
		Skew:        Skew(ttl),
	}
	c.mu.Unlock()

	return tok.AccessToken, nil
}

// clientFetcher runs the exchange with a specific [http.Client].
type clientFetcher struct {
	config *clientcredentials.Config
	client *http.Client
}

func (f *clientFetcher) Token(ctx context.Context) (*oauth2.Token, error) {
	if f.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.client)
	}
	return f.config.Token(ctx)
}
