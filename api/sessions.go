package api

import (
	"context"
	"fmt"
	"net/http"

	"netcafe/models"
)

func (c *Client) StartSession(ctx context.Context, req models.StartSessionRequest) (models.Session, error) {
	return call[models.Session](ctx, c, http.MethodPost, "/session/start", req)
}

func (c *Client) EndSession(ctx context.Context, sessionID uint) (models.Session, error) {
	return call[models.Session](ctx, c, http.MethodPost, "/session/end", models.EndSessionRequest{SessionID: sessionID})
}

// TerminateSession force-ends a session; the reason goes as a bare JSON string.
func (c *Client) TerminateSession(ctx context.Context, sessionID uint, reason string) (models.Session, error) {
	return call[models.Session](ctx, c, http.MethodPost, fmt.Sprintf("/session/%d/terminate", sessionID), reason)
}

func (c *Client) GetSession(ctx context.Context, id uint) (models.Session, error) {
	return call[models.Session](ctx, c, http.MethodGet, fmt.Sprintf("/session/%d", id), nil)
}

func (c *Client) ActiveSessions(ctx context.Context) ([]models.Session, error) {
	return call[[]models.Session](ctx, c, http.MethodGet, "/session/active", nil)
}

func (c *Client) SessionsByUser(ctx context.Context, userID uint) ([]models.Session, error) {
	return call[[]models.Session](ctx, c, http.MethodGet, fmt.Sprintf("/session/user/%d", userID), nil)
}

func (c *Client) ActiveSessionByComputer(ctx context.Context, computerID uint) (models.Session, error) {
	return call[models.Session](ctx, c, http.MethodGet, fmt.Sprintf("/session/computer/%d/active", computerID), nil)
}

func (c *Client) SessionCost(ctx context.Context, sessionID uint) (float64, error) {
	return call[float64](ctx, c, http.MethodGet, fmt.Sprintf("/session/%d/cost", sessionID), nil)
}

// RemainingTime is how long the user's balance lasts on the computer, as H:MM:SS.
func (c *Client) RemainingTime(ctx context.Context, userID, computerID uint) (string, error) {
	return call[string](ctx, c, http.MethodGet, fmt.Sprintf("/session/user/%d/computer/%d/remaining-time", userID, computerID), nil)
}

func (c *Client) HasActiveSession(ctx context.Context, userID uint) (bool, error) {
	return call[bool](ctx, c, http.MethodGet, fmt.Sprintf("/session/user/%d/has-active", userID), nil)
}

func (c *Client) ComputerStatusSummary(ctx context.Context) (models.ComputerStatusSummary, error) {
	return call[models.ComputerStatusSummary](ctx, c, http.MethodGet, "/session/computer-status-summary", nil)
}
