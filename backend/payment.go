package backend

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"netcafe/models"
)

// Gateway is the hosted checkout that collects online top-ups.
type Gateway interface {
	Checkout(orderID string, amount int64, user User) (token, redirectURL string, err error)
	// Status returns the gateway's transaction status for orderID, e.g.
	// "pending", "settlement", "capture", "expire".
	Status(orderID string) (string, error)
}

// Midtrans is a Gateway backed by Snap for checkout and the Core API for status.
type Midtrans struct {
	Snap *snap.Client
	Core *coreapi.Client
}

func (m *Midtrans) Checkout(orderID string, amount int64, user User) (string, string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.FullName,
			Email: user.Email,
			Phone: user.PhoneNumber,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "TOPUP",
				Name:  "Nạp tiền tài khoản",
				Price: amount,
				Qty:   1,
			},
		},
	}
	resp, merr := m.Snap.CreateTransaction(req)
	if merr != nil {
		return "", "", fmt.Errorf("create snap transaction: %s", merr.Error())
	}
	return resp.Token, resp.RedirectURL, nil
}

func (m *Midtrans) Status(orderID string) (string, error) {
	resp, merr := m.Core.CheckTransaction(orderID)
	if merr != nil {
		return "", fmt.Errorf("check transaction: %s", merr.Error())
	}
	if resp == nil {
		return "pending", nil
	}
	return resp.TransactionStatus, nil
}

func paid(status string) bool {
	return status == "capture" || status == "settlement"
}

func declined(status string) bool {
	return status == "deny" || status == "expire" || status == "cancel"
}

type PaymentHandler struct {
	DB      *gorm.DB
	Billing *Billing
	Gateway Gateway
}

// CreateTopUp starts an online deposit and returns the checkout token.
func (h *PaymentHandler) CreateTopUp(c *gin.Context) {
	if h.Gateway == nil {
		failErr(c, ErrPaymentsDisabled)
		return
	}
	var req models.OnlineDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	var account Account
	if err := h.DB.Preload("User").First(&account, req.AccountID).Error; err != nil {
		failErr(c, notFound(err, ErrAccountNotFound))
		return
	}
	if !selfOrAdmin(c, account.UserID) {
		return
	}
	amount := int64(math.Round(req.Amount))
	if amount <= 0 {
		failErr(c, ErrInvalidAmount)
		return
	}

	topUp := TopUp{
		OrderID:   "TOPUP-" + uuid.NewString(),
		AccountID: account.ID,
		Amount:    float64(amount),
		Status:    topUpPending,
	}
	token, redirectURL, err := h.Gateway.Checkout(topUp.OrderID, amount, account.User)
	if err != nil {
		log.Printf("[backend] %v", err)
		fail(c, http.StatusBadGateway, "Không thể tạo giao dịch thanh toán")
		return
	}
	topUp.Token = token
	topUp.RedirectURL = redirectURL
	if err := h.DB.Create(&topUp).Error; err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Đã tạo giao dịch thanh toán", models.OnlineDepositResponse{
		OrderID:     topUp.OrderID,
		Token:       token,
		RedirectURL: redirectURL,
	})
}

// Notification handles the gateway webhook. The payload is only trusted for
// the order id; the status is fetched from the gateway.
func (h *PaymentHandler) Notification(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
		return
	}
	orderID, _ := payload["order_id"].(string)
	if orderID == "" || h.Gateway == nil {
		fail(c, http.StatusBadRequest, "Thiếu mã đơn hàng")
		return
	}
	status, err := h.refresh(orderID)
	if err != nil {
		log.Printf("[backend] notification %s: %v", orderID, err)
	}
	ok(c, http.StatusOK, "", status)
}

// Status reports "pending", "success" or "failed" for one of the caller's top-ups.
func (h *PaymentHandler) Status(c *gin.Context) {
	orderID := c.Param("orderId")
	var topUp TopUp
	if err := h.DB.Where("order_id = ?", orderID).First(&topUp).Error; err != nil {
		failErr(c, err)
		return
	}
	var account Account
	if err := h.DB.First(&account, topUp.AccountID).Error; err != nil {
		failErr(c, notFound(err, ErrAccountNotFound))
		return
	}
	if !selfOrAdmin(c, account.UserID) {
		return
	}
	if topUp.Status != topUpPending || h.Gateway == nil {
		ok(c, http.StatusOK, "", publicStatus(topUp.Status))
		return
	}
	status, err := h.refresh(orderID)
	if err != nil {
		log.Printf("[backend] status %s: %v", orderID, err)
	}
	ok(c, http.StatusOK, "", status)
}

// refresh asks the gateway about orderID and settles or fails the pending
// top-up accordingly.
func (h *PaymentHandler) refresh(orderID string) (string, error) {
	status, err := h.Gateway.Status(orderID)
	if err != nil {
		return publicStatus(topUpPending), err
	}
	switch {
	case paid(status):
		if _, err := h.Billing.Settle(orderID, orderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return publicStatus(topUpFailed), err
			}
			return publicStatus(topUpPending), err
		}
		return publicStatus(topUpSettled), nil
	case declined(status):
		res := h.DB.Model(&TopUp{}).Where("order_id = ? AND status = ?", orderID, topUpPending).Update("status", topUpFailed)
		if res.Error != nil {
			return publicStatus(topUpPending), res.Error
		}
		var topUp TopUp
		if err := h.DB.Where("order_id = ?", orderID).First(&topUp).Error; err != nil {
			return publicStatus(topUpFailed), err
		}
		return publicStatus(topUp.Status), nil
	default:
		return publicStatus(topUpPending), nil
	}
}

func publicStatus(s string) string {
	switch s {
	case topUpSettled:
		return "success"
	case topUpFailed:
		return "failed"
	default:
		return "pending"
	}
}
