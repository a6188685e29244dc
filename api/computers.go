package api

import (
	"context"
	"fmt"
	"net/http"

	"netcafe/models"
)

func (c *Client) ListComputers(ctx context.Context) ([]models.Computer, error) {
	return call[[]models.Computer](ctx, c, http.MethodGet, "/computer", nil)
}

func (c *Client) AvailableComputers(ctx context.Context) ([]models.Computer, error) {
	return call[[]models.Computer](ctx, c, http.MethodGet, "/computer/available", nil)
}

func (c *Client) GetComputer(ctx context.Context, id uint) (models.Computer, error) {
	return call[models.Computer](ctx, c, http.MethodGet, fmt.Sprintf("/computer/%d", id), nil)
}

func (c *Client) ComputersByStatus(ctx context.Context, status models.ComputerStatus) ([]models.Computer, error) {
	return call[[]models.Computer](ctx, c, http.MethodGet, fmt.Sprintf("/computer/status/%d", status), nil)
}

func (c *Client) CreateComputer(ctx context.Context, req models.CreateComputerRequest) (models.Computer, error) {
	return call[models.Computer](ctx, c, http.MethodPost, "/computer", req)
}

func (c *Client) UpdateComputer(ctx context.Context, id uint, req models.UpdateComputerRequest) (models.Computer, error) {
	return call[models.Computer](ctx, c, http.MethodPut, fmt.Sprintf("/computer/%d", id), req)
}

func (c *Client) UpdateComputerStatus(ctx context.Context, id uint, req models.ComputerStatusUpdate) error {
	_, err := call[Empty](ctx, c, http.MethodPut, fmt.Sprintf("/computer/%d/status", id), req)
	return err
}

// SetMaintenance sends the reason as a bare JSON string body.
func (c *Client) SetMaintenance(ctx context.Context, id uint, reason string) error {
	_, err := call[Empty](ctx, c, http.MethodPut, fmt.Sprintf("/computer/%d/maintenance", id), reason)
	return err
}
