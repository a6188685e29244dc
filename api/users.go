package api

import (
	"context"
	"fmt"
	"net/http"

	"netcafe/models"
)

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	return call[models.AuthResponse](ctx, c, http.MethodPost, "/auth/login", req)
}

// Register creates a self-service account; it needs no token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	return call[models.User](ctx, c, http.MethodPost, "/user", req)
}

func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	return call[models.User](ctx, c, http.MethodPost, "/user", req)
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	return call[[]models.User](ctx, c, http.MethodGet, "/user", nil)
}

// CurrentUser resolves the caller from the bearer token.
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	return call[models.User](ctx, c, http.MethodGet, "/user/current", nil)
}

func (c *Client) GetUser(ctx context.Context, id uint) (models.User, error) {
	return call[models.User](ctx, c, http.MethodGet, fmt.Sprintf("/user/%d", id), nil)
}

func (c *Client) UpdateUser(ctx context.Context, id uint, req models.UpdateUserRequest) (models.User, error) {
	return call[models.User](ctx, c, http.MethodPut, fmt.Sprintf("/user/%d", id), req)
}

func (c *Client) ChangePassword(ctx context.Context, id uint, req models.ChangePasswordRequest) (bool, error) {
	return call[bool](ctx, c, http.MethodPut, fmt.Sprintf("/user/%d/change-password", id), req)
}

func (c *Client) ChangeUserStatus(ctx context.Context, id uint, status models.UserStatus) error {
	_, err := call[Empty](ctx, c, http.MethodPut, fmt.Sprintf("/user/%d/status", id), models.UserStatusUpdate{Status: status})
	return err
}
