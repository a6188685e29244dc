package api

import (
	"context"
	"net/http"

	"netcafe/models"
)

func (c *Client) StatisticsSummary(ctx context.Context) (models.StatisticsSummary, error) {
	return call[models.StatisticsSummary](ctx, c, http.MethodGet, "/statistics/summary", nil)
}
