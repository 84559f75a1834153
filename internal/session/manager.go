// Package session owns the authentication token and the current-user
// identity. It is the only component that reads or writes the persisted
// session cookie; everything else receives the resolved identity from it.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/api"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/config"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

// sessionClaims wrap the opaque API token inside the signed cookie. The
// role claim lets navigation render without resolving the full profile.
type sessionClaims struct {
	APIToken string `json:"tok"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	cfg    *config.Config
	client *api.Client
	cache  IdentityCache
}

func NewManager(cfg *config.Config, client *api.Client, cache IdentityCache) *Manager {
	return &Manager{
		cfg:    cfg,
		client: client,
		cache:  cache,
	}
}

// Login exchanges credentials for an API token, resolves the profile behind
// it, and mints the session cookie. On any failure no cookie is issued and
// the error keeps its api taxonomy (AuthError for rejected credentials,
// TransportError for an unreachable endpoint).
func (m *Manager) Login(ctx context.Context, username, password string) (*domain.User, *http.Cookie, error) {
	res, err := m.client.Login(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}

	user, err := m.client.Me(ctx, res.Token)
	if err != nil {
		return nil, nil, err
	}

	m.cache.Set(ctx, cacheKey(res.Token), user)

	expiration := time.Now().Add(time.Duration(m.cfg.Session.Expiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		APIToken: res.Token,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   user.Username,
		},
	})
	ss, err := token.SignedString([]byte(m.cfg.Session.Secret))
	if err != nil {
		return nil, nil, err
	}

	return user, m.newCookie(ss, expiration), nil
}

// CurrentUser resolves the identity behind a session cookie value: cached
// profile first, upstream /auth/me otherwise. It returns the unwrapped API
// token alongside so handlers can issue authorized calls. A missing,
// tampered or expired cookie yields an AuthError; so does a token the
// server no longer accepts, which is the automatic-logout signal.
func (m *Manager) CurrentUser(ctx context.Context, cookieValue string) (*domain.User, string, error) {
	claims, err := m.parse(cookieValue)
	if err != nil {
		return nil, "", &api.AuthError{Message: "invalid session"}
	}

	key := cacheKey(claims.APIToken)
	if user, ok := m.cache.Get(ctx, key); ok {
		return user, claims.APIToken, nil
	}

	user, err := m.client.Me(ctx, claims.APIToken)
	if err != nil {
		return nil, "", err
	}

	m.cache.Set(ctx, key, user)

	return user, claims.APIToken, nil
}

// Logout drops the cached identity and returns the expired cookie that
// clears the persisted token. It never fails and is idempotent: a bogus or
// absent cookie value just means there is nothing to drop.
func (m *Manager) Logout(ctx context.Context, cookieValue string) *http.Cookie {
	if claims, err := m.parse(cookieValue); err == nil {
		m.cache.Delete(ctx, cacheKey(claims.APIToken))
	}

	return m.expiredCookie()
}

// CookieName exposes the single persisted key for the auth middleware.
func (m *Manager) CookieName() string {
	return m.cfg.Session.CookieName
}

func (m *Manager) parse(cookieValue string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(cookieValue, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(m.cfg.Session.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func (m *Manager) newCookie(value string, expiration time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     m.cfg.Session.CookieName,
		Value:    value,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if m.cfg.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	return cookie
}

func (m *Manager) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:    m.cfg.Session.CookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	}
}
