package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

// ListUsers returns all staff the caller is allowed to see. The server
// restricts the list by role; bakers receive an empty list.
func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	var res struct {
		Users []domain.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", token, nil, &res); err != nil {
		return nil, err
	}

	return res.Users, nil
}

func (c *Client) GetUser(ctx context.Context, token string, id int64) (*domain.User, error) {
	user := &domain.User{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), token, nil, user); err != nil {
		return nil, err
	}

	return user, nil
}

type CreateUserRequest struct {
	Username string      `json:"username" validate:"required"`
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     domain.Role `json:"role" validate:"required,oneof=admin manager baker"`
}

func (c *Client) CreateUser(ctx context.Context, token string, req *CreateUserRequest) (*domain.User, error) {
	user := &domain.User{}
	if err := c.do(ctx, http.MethodPost, "/users", token, req, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUserRequest carries only the fields to change; nil means untouched.
type UpdateUserRequest struct {
	Name     *string      `json:"name,omitempty"`
	Email    *string      `json:"email,omitempty" validate:"omitempty,email"`
	Password *string      `json:"password,omitempty" validate:"omitempty,min=8"`
	Role     *domain.Role `json:"role,omitempty" validate:"omitempty,oneof=admin manager baker"`
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, req *UpdateUserRequest) (*domain.User, error) {
	user := &domain.User{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), token, req, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), token, nil, nil)
}
