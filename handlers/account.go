package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"netcafe/api"
	"netcafe/auth"
	"netcafe/format"
	"netcafe/models"
)

// MyAccount shows the logged-in user's own account.
func (h *ClientHandler) MyAccount(c *gin.Context) {
	p := auth.MustCurrent(c)
	account, err := h.client(c).AccountByUser(c.Request.Context(), p.Claims.ID)
	if api.IsNotFound(err) {
		h.render(c, http.StatusOK, "account.html", gin.H{"Title": "Tài khoản"})
		return
	}
	if err != nil {
		data := gin.H{"Title": "Tài khoản"}
		if h.loadError(c, err, data, "Không thể tải tài khoản") {
			h.render(c, http.StatusOK, "account.html", data)
		}
		return
	}
	h.showAccount(c, account.ID, "/account")
}

// showAccount renders one account with a page of its ledger. self is the
// page's own path, used for paging links and post redirects.
func (d *Deps) showAccount(c *gin.Context, accountID uint, self string) {
	client := d.client(c)
	ctx := c.Request.Context()
	page := queryPage(c)
	data := gin.H{"Title": "Tài khoản", "Self": self, "Page": page, "Transactions": []models.Transaction{}}

	details, err := client.AccountDetails(ctx, accountID)
	if err == nil {
		data["Title"] = fmt.Sprintf("Tài khoản #%d", details.ID)
		data["Details"] = &details
		var lines []models.Transaction
		lines, err = client.Transactions(ctx, accountID, page, historyPageSize)
		data["Transactions"] = lines
		data["HasNext"] = len(lines) == historyPageSize
	}
	if err != nil && !d.loadError(c, err, data, "Không thể tải tài khoản") {
		return
	}
	d.render(c, http.StatusOK, "account.html", data)
}

// returnPath keeps post redirects on account pages.
func returnPath(c *gin.Context) string {
	r := c.PostForm("return")
	if r == "/account" || strings.HasPrefix(r, "/admin/accounts/") {
		return r
	}
	return "/account"
}

func (d *Deps) Deposit(c *gin.Context) {
	back := returnPath(c)
	accountID := formUint(c, "account_id")
	amount, ok := formAmount(c, "amount")
	if !ok {
		addFlash(c, flashError, "Số tiền nạp phải lớn hơn 0")
		c.Redirect(http.StatusFound, back)
		return
	}
	method, _ := formInt(c, "payment_method")
	req := models.DepositRequest{
		AccountID:       accountID,
		Amount:          amount,
		PaymentMethod:   models.PaymentMethod(method),
		ReferenceNumber: strings.TrimSpace(c.PostForm("reference_number")),
	}
	_, err := d.client(c).Deposit(c.Request.Context(), req)
	d.record(c, "account.deposit", fmt.Sprintf("account #%d", accountID), format.Currency(amount), err)
	d.done(c, err, "Nạp tiền thành công: "+format.Currency(amount), "Không thể nạp tiền", back)
}

// Withdraw refuses amounts above the balance before calling the API.
func (d *Deps) Withdraw(c *gin.Context) {
	back := returnPath(c)
	accountID := formUint(c, "account_id")
	amount, ok := formAmount(c, "amount")
	if !ok {
		addFlash(c, flashError, "Số tiền rút phải lớn hơn 0")
		c.Redirect(http.StatusFound, back)
		return
	}
	client := d.client(c)
	account, err := client.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		d.done(c, err, "", "Không thể tải tài khoản", back)
		return
	}
	if amount > account.Balance {
		addFlash(c, flashError, "Số tiền rút không được vượt quá số dư hiện tại ("+format.Currency(account.Balance)+")")
		c.Redirect(http.StatusFound, back)
		return
	}
	_, err = client.Withdraw(c.Request.Context(), models.WithdrawRequest{
		AccountID: accountID,
		Amount:    amount,
		Reason:    strings.TrimSpace(c.PostForm("reason")),
	})
	d.record(c, "account.withdraw", fmt.Sprintf("account #%d", accountID), format.Currency(amount), err)
	d.done(c, err, "Rút tiền thành công: "+format.Currency(amount), "Không thể rút tiền", back)
}

// TopUp sends the user to the payment gateway's checkout page.
func (h *ClientHandler) TopUp(c *gin.Context) {
	accountID := formUint(c, "account_id")
	amount, ok := formAmount(c, "amount")
	if !ok {
		addFlash(c, flashError, "Số tiền nạp phải lớn hơn 0")
		c.Redirect(http.StatusFound, "/account")
		return
	}
	resp, err := h.client(c).OnlineDeposit(c.Request.Context(), models.OnlineDepositRequest{AccountID: accountID, Amount: amount})
	h.record(c, "account.topup", fmt.Sprintf("account #%d", accountID), format.Currency(amount), err)
	if err != nil || resp.RedirectURL == "" {
		h.done(c, err, "Đã tạo giao dịch "+resp.OrderID, "Không thể tạo giao dịch thanh toán", "/account")
		return
	}
	c.Redirect(http.StatusSeeOther, resp.RedirectURL)
}

// TopUpStatus is where the gateway sends the user back to.
func (h *ClientHandler) TopUpStatus(c *gin.Context) {
	orderID := c.Param("orderId")
	status, err := h.client(c).TopUpStatus(c.Request.Context(), orderID)
	if err != nil {
		h.done(c, err, "", "Không thể kiểm tra giao dịch", "/account")
		return
	}
	switch status {
	case "success":
		addFlash(c, flashSuccess, "Thanh toán thành công, số dư đã được cập nhật")
	case "failed":
		addFlash(c, flashError, "Thanh toán không thành công")
	default:
		addFlash(c, flashSuccess, "Giao dịch "+orderID+" đang chờ xác nhận")
	}
	c.Redirect(http.StatusFound, "/account")
}

func (d *Deps) AdminAccount(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	d.showAccount(c, id, "/admin/accounts/"+strconv.FormatUint(uint64(id), 10))
}
