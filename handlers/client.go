package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"netcafe/api"
	"netcafe/auth"
	"netcafe/format"
	"netcafe/models"
)

type ClientHandler struct {
	*Deps
}

// ClientStatus is the refreshable part of the client dashboard.
type ClientStatus struct {
	Account   *models.Account
	Active    *models.Session
	Remaining string
	Computers []models.Computer
}

func loadClientStatus(ctx context.Context, client *api.Client, userID uint) (ClientStatus, error) {
	var st ClientStatus
	account, err := client.AccountByUser(ctx, userID)
	switch {
	case err == nil:
		st.Account = &account
	case api.IsNotFound(err):
	default:
		return st, err
	}

	sessions, err := client.SessionsByUser(ctx, userID)
	if err != nil {
		return st, err
	}
	for i := range sessions {
		if sessions[i].Status == models.SessionActive {
			st.Active = &sessions[i]
			break
		}
	}

	if st.Active != nil {
		if st.Account != nil {
			st.Remaining, err = client.RemainingTime(ctx, userID, st.Active.ComputerID)
			if err != nil {
				return st, err
			}
		}
		return st, nil
	}
	st.Computers, err = client.AvailableComputers(ctx)
	return st, err
}

func (h *ClientHandler) Dashboard(c *gin.Context) {
	p := auth.MustCurrent(c)
	client := h.client(c)
	ctx := c.Request.Context()
	data := gin.H{"Title": "Bảng điều khiển", "User": models.User{Username: p.Claims.Username}, "Status": ClientStatus{}}

	user, err := client.CurrentUser(ctx)
	if err == nil {
		data["User"] = user
		var st ClientStatus
		st, err = loadClientStatus(ctx, client, p.Claims.ID)
		data["Status"] = st
	}
	if err != nil && !h.loadError(c, err, data, "Không thể tải dữ liệu bảng điều khiển") {
		return
	}
	h.render(c, http.StatusOK, "client_dashboard.html", data)
}

// Live streams the dashboard status block.
func (h *ClientHandler) Live(c *gin.Context) {
	p := auth.MustCurrent(c)
	client := h.client(c)
	h.stream(c, "client_status", func(ctx context.Context) (any, error) {
		return loadClientStatus(ctx, client, p.Claims.ID)
	})
}

func (h *ClientHandler) StartSession(c *gin.Context) {
	p := auth.MustCurrent(c)
	computerID := formUint(c, "computer_id")
	if computerID == 0 {
		addFlash(c, flashError, "Vui lòng chọn máy tính")
		c.Redirect(http.StatusFound, "/client/dashboard")
		return
	}
	s, err := h.client(c).StartSession(c.Request.Context(), models.StartSessionRequest{UserID: p.Claims.ID, ComputerID: computerID})
	target := fmt.Sprintf("computer #%d", computerID)
	if err == nil {
		target = s.ComputerName
	}
	h.record(c, "session.start", target, "", err)
	h.done(c, err, "Đã bắt đầu phiên sử dụng trên máy "+target, "Không thể bắt đầu phiên sử dụng", "/client/dashboard")
}

func (h *ClientHandler) EndSession(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	s, err := h.client(c).EndSession(c.Request.Context(), id)
	msg := "Đã kết thúc phiên sử dụng"
	if err == nil {
		msg = fmt.Sprintf("Đã kết thúc phiên sử dụng. Thời gian: %s, chi phí: %s", format.Duration(s.Duration), format.Currency(s.TotalCost))
	}
	h.record(c, "session.end", fmt.Sprintf("session #%d", id), "", err)
	h.done(c, err, msg, "Không thể kết thúc phiên sử dụng", "/client/dashboard")
}
