package backend

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"netcafe/models"
)

const recentTransactions = 10

type AccountHandler struct {
	DB      *gorm.DB
	Billing *Billing
}

// load fetches the account named by the :id param and checks the caller may see it.
func (h *AccountHandler) load(c *gin.Context) (Account, bool) {
	id, valid := paramID(c, "id")
	if !valid {
		return Account{}, false
	}
	return h.loadWhere(c, h.DB.Where("id = ?", id))
}

func (h *AccountHandler) loadByUser(c *gin.Context) (Account, bool) {
	userID, valid := paramID(c, "userId")
	if !valid || !selfOrAdmin(c, userID) {
		return Account{}, false
	}
	return h.loadWhere(c, h.DB.Where("user_id = ?", userID))
}

func (h *AccountHandler) loadWhere(c *gin.Context, query *gorm.DB) (Account, bool) {
	var account Account
	if err := query.Preload("User").First(&account).Error; err != nil {
		failErr(c, notFound(err, ErrAccountNotFound))
		return Account{}, false
	}
	if !selfOrAdmin(c, account.UserID) {
		return Account{}, false
	}
	return account, true
}

func (h *AccountHandler) List(c *gin.Context) {
	var accounts []Account
	if err := h.DB.Preload("User").Order("id").Find(&accounts).Error; err != nil {
		failErr(c, err)
		return
	}
	out := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountDTO(a))
	}
	ok(c, http.StatusOK, "", out)
}

// Create opens the account of the user id sent as a bare JSON number.
func (h *AccountHandler) Create(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	var userID uint
	if err == nil {
		err = json.Unmarshal(raw, &userID)
	}
	if err != nil || userID == 0 {
		fail(c, http.StatusBadRequest, "Mã người dùng không hợp lệ")
		return
	}

	var user User
	if err := h.DB.First(&user, userID).Error; err != nil {
		failErr(c, notFound(err, ErrUserNotFound))
		return
	}
	var count int64
	if err := h.DB.Model(&Account{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		failErr(c, err)
		return
	}
	if count > 0 {
		failErr(c, ErrAccountExists)
		return
	}
	account := Account{UserID: userID}
	if err := h.DB.Omit("User").Create(&account).Error; err != nil {
		failErr(c, err)
		return
	}
	account.User = user
	ok(c, http.StatusCreated, "Tạo tài khoản thành công", accountDTO(account))
}

func (h *AccountHandler) Get(c *gin.Context) {
	if account, found := h.load(c); found {
		ok(c, http.StatusOK, "", accountDTO(account))
	}
}

func (h *AccountHandler) ByUser(c *gin.Context) {
	if account, found := h.loadByUser(c); found {
		ok(c, http.StatusOK, "", accountDTO(account))
	}
}

func (h *AccountHandler) BalanceByUser(c *gin.Context) {
	if account, found := h.loadByUser(c); found {
		ok(c, http.StatusOK, "", account.Balance)
	}
}

func (h *AccountHandler) Details(c *gin.Context) {
	account, found := h.load(c)
	if !found {
		return
	}
	var lines []Transaction
	if err := h.DB.Where("account_id = ?", account.ID).Order("id desc").Limit(recentTransactions).Find(&lines).Error; err != nil {
		failErr(c, err)
		return
	}
	details := models.AccountDetails{Account: accountDTO(account), RecentTransactions: make([]models.Transaction, 0, len(lines))}
	for _, t := range lines {
		details.RecentTransactions = append(details.RecentTransactions, transactionDTO(t))
	}
	ok(c, http.StatusOK, "", details)
}

// Transactions pages through the ledger newest first. pageNumber starts at 1.
func (h *AccountHandler) Transactions(c *gin.Context) {
	account, found := h.load(c)
	if !found {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	var lines []Transaction
	err := h.DB.Where("account_id = ?", account.ID).Order("id desc").
		Offset((page - 1) * size).Limit(size).Find(&lines).Error
	if err != nil {
		failErr(c, err)
		return
	}
	out := make([]models.Transaction, 0, len(lines))
	for _, t := range lines {
		out = append(out, transactionDTO(t))
	}
	ok(c, http.StatusOK, "", out)
}

func (h *AccountHandler) HasSufficientBalance(c *gin.Context) {
	account, found := h.load(c)
	if !found {
		return
	}
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount < 0 {
		fail(c, http.StatusBadRequest, "Số tiền không hợp lệ")
		return
	}
	ok(c, http.StatusOK, "", account.Balance >= amount)
}

func (h *AccountHandler) owner(c *gin.Context, accountID uint) bool {
	var account Account
	if err := h.DB.First(&account, accountID).Error; err != nil {
		failErr(c, notFound(err, ErrAccountNotFound))
		return false
	}
	return selfOrAdmin(c, account.UserID)
}

// Deposit records money taken at the counter, so only staff may post it.
// Account owners top up through the payment gateway.
func (h *AccountHandler) Deposit(c *gin.Context) {
	var req models.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	if req.PaymentMethod < models.PayCash || req.PaymentMethod > models.PayEWallet {
		fail(c, http.StatusBadRequest, "Phương thức thanh toán không hợp lệ")
		return
	}
	line, err := h.Billing.Deposit(req.AccountID, req.Amount, req.PaymentMethod, req.ReferenceNumber, "")
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Nạp tiền thành công", transactionDTO(line))
}

func (h *AccountHandler) Withdraw(c *gin.Context) {
	var req models.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	if !h.owner(c, req.AccountID) {
		return
	}
	line, err := h.Billing.Withdraw(req.AccountID, req.Amount, req.Reason)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Rút tiền thành công", transactionDTO(line))
}
