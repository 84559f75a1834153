package api

import (
	"context"
	"net/http"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

type LoginResult struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Login exchanges credentials for an opaque bearer token. Rejected
// credentials surface as AuthError.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	req := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	res := &LoginResult{}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, res); err != nil {
		return nil, err
	}

	return res, nil
}

// Me resolves the identity behind a token. An invalid or expired token
// surfaces as AuthError.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	user := &domain.User{}
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, user); err != nil {
		return nil, err
	}

	return user, nil
}
