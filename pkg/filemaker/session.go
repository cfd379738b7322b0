package filemaker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TokenCache amortizes the session handshake across calls within the token's
// validity window. Refreshes are single-flighted: concurrent callers on a cold
// cache share one login instead of each opening a session.
type TokenCache struct {
	login  func(ctx context.Context) (string, error)
	logout func(ctx context.Context, token string) error
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewTokenCache(login func(ctx context.Context) (string, error), logout func(ctx context.Context, token string) error, ttl time.Duration) *TokenCache {
	return &TokenCache{
		login:  login,
		logout: logout,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Token returns the cached token when still valid, otherwise performs the
// login handshake and caches the result.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	if token, ok := tc.cached(); ok {
		return token, nil
	}

	v, err, _ := tc.group.Do("session", func() (interface{}, error) {
		// A concurrent refresh may have landed while we queued.
		if token, ok := tc.cached(); ok {
			return token, nil
		}

		token, err := tc.login(ctx)
		if err != nil {
			return "", err
		}

		tc.mu.Lock()
		tc.token = token
		tc.expiry = tc.now().Add(tc.ttl)
		tc.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (tc *TokenCache) cached() (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.token != "" && tc.now().Before(tc.expiry) {
		return tc.token, true
	}
	return "", false
}

// Invalidate drops the cached token without touching the server, forcing the
// next Token call to re-login.
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	tc.token = ""
	tc.expiry = time.Time{}
	tc.mu.Unlock()
}

// Release invalidates the server-side session and clears the cache. A no-op
// when nothing is cached.
func (tc *TokenCache) Release(ctx context.Context) error {
	tc.mu.Lock()
	token := tc.token
	tc.token = ""
	tc.expiry = time.Time{}
	tc.mu.Unlock()

	if token == "" || tc.logout == nil {
		return nil
	}
	return tc.logout(ctx, token)
}
