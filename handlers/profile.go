package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"netcafe/api"
	"netcafe/auth"
	"netcafe/format"
	"netcafe/models"
)

const historyPageSize = 10

func (h *ClientHandler) Profile(c *gin.Context) {
	p := auth.MustCurrent(c)
	client := h.client(c)
	ctx := c.Request.Context()
	data := gin.H{
		"Title":        "Hồ sơ cá nhân",
		"User":         models.User{Username: p.Claims.Username},
		"Sessions":     []models.Session{},
		"Transactions": []models.Transaction{},
		"UsageHours":   0.0,
	}

	err := func() error {
		user, err := client.CurrentUser(ctx)
		if err != nil {
			return err
		}
		data["User"] = user

		sessions, err := client.SessionsByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		data["Sessions"] = sessions
		data["UsageHours"] = format.UsageHours(sessions)

		account, err := client.AccountByUser(ctx, user.ID)
		if api.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		data["Account"] = &account
		lines, err := client.Transactions(ctx, account.ID, 1, historyPageSize)
		if err != nil {
			return err
		}
		data["Transactions"] = lines
		return nil
	}()
	if err != nil && !h.loadError(c, err, data, "Không thể tải hồ sơ") {
		return
	}
	h.render(c, http.StatusOK, "profile.html", data)
}

func (h *ClientHandler) UpdateProfile(c *gin.Context) {
	p := auth.MustCurrent(c)
	req := models.UpdateUserRequest{
		Email:       strings.TrimSpace(c.PostForm("email")),
		FullName:    strings.TrimSpace(c.PostForm("full_name")),
		PhoneNumber: strings.TrimSpace(c.PostForm("phone_number")),
		Address:     strings.TrimSpace(c.PostForm("address")),
		DateOfBirth: formDate(c, "date_of_birth"),
	}
	_, err := h.client(c).UpdateUser(c.Request.Context(), p.Claims.ID, req)
	h.record(c, "user.update", p.Claims.Username, "", err)
	h.done(c, err, "Cập nhật thông tin thành công", "Không thể cập nhật thông tin", "/profile")
}

func (h *ClientHandler) ChangePassword(c *gin.Context) {
	p := auth.MustCurrent(c)
	req := models.ChangePasswordRequest{
		CurrentPassword: c.PostForm("current_password"),
		NewPassword:     c.PostForm("new_password"),
		ConfirmPassword: c.PostForm("confirm_password"),
	}
	if req.NewPassword != req.ConfirmPassword {
		addFlash(c, flashError, "Mật khẩu mới và xác nhận mật khẩu không khớp")
		c.Redirect(http.StatusFound, "/profile")
		return
	}
	_, err := h.client(c).ChangePassword(c.Request.Context(), p.Claims.ID, req)
	h.record(c, "user.password", p.Claims.Username, "", err)
	h.done(c, err, "Đổi mật khẩu thành công", "Không thể đổi mật khẩu", "/profile")
}
