package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"netcafe/models"
)

func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return call[[]models.Account](ctx, c, http.MethodGet, "/account", nil)
}

// CreateAccount opens the balance account of userID; the body is the bare id.
func (c *Client) CreateAccount(ctx context.Context, userID uint) (models.Account, error) {
	return call[models.Account](ctx, c, http.MethodPost, "/account", userID)
}

func (c *Client) GetAccount(ctx context.Context, id uint) (models.Account, error) {
	return call[models.Account](ctx, c, http.MethodGet, fmt.Sprintf("/account/%d", id), nil)
}

func (c *Client) AccountByUser(ctx context.Context, userID uint) (models.Account, error) {
	return call[models.Account](ctx, c, http.MethodGet, fmt.Sprintf("/account/user/%d", userID), nil)
}

func (c *Client) AccountDetails(ctx context.Context, id uint) (models.AccountDetails, error) {
	return call[models.AccountDetails](ctx, c, http.MethodGet, fmt.Sprintf("/account/%d/details", id), nil)
}

func (c *Client) BalanceByUser(ctx context.Context, userID uint) (float64, error) {
	return call[float64](ctx, c, http.MethodGet, fmt.Sprintf("/account/user/%d/balance", userID), nil)
}

// Transactions returns one page of the ledger, newest first. Pages start at 1.
func (c *Client) Transactions(ctx context.Context, accountID uint, page, pageSize int) ([]models.Transaction, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	return call[[]models.Transaction](ctx, c, http.MethodGet, fmt.Sprintf("/account/%d/transactions?%s", accountID, q.Encode()), nil)
}

func (c *Client) HasSufficientBalance(ctx context.Context, accountID uint, amount float64) (bool, error) {
	path := fmt.Sprintf("/account/%d/has-sufficient-balance?amount=%s", accountID, strconv.FormatFloat(amount, 'f', -1, 64))
	return call[bool](ctx, c, http.MethodGet, path, nil)
}

func (c *Client) Deposit(ctx context.Context, req models.DepositRequest) (models.Transaction, error) {
	return call[models.Transaction](ctx, c, http.MethodPost, "/account/deposit", req)
}

func (c *Client) Withdraw(ctx context.Context, req models.WithdrawRequest) (models.Transaction, error) {
	return call[models.Transaction](ctx, c, http.MethodPost, "/account/withdraw", req)
}

// OnlineDeposit starts a payment-gateway top-up; the balance changes only
// once the gateway confirms the payment.
func (c *Client) OnlineDeposit(ctx context.Context, req models.OnlineDepositRequest) (models.OnlineDepositResponse, error) {
	return call[models.OnlineDepositResponse](ctx, c, http.MethodPost, "/account/deposit/online", req)
}

// TopUpStatus returns "pending", "success" or "failed" for an online top-up.
func (c *Client) TopUpStatus(ctx context.Context, orderID string) (string, error) {
	return call[string](ctx, c, http.MethodGet, "/payment/"+url.PathEscape(orderID)+"/status", nil)
}
