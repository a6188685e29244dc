package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"netcafe/activity"
	"netcafe/api"
	"netcafe/models"
)

const (
	defaultMaintenanceReason = "Bảo trì định kỳ"
	activityPageSize         = 200
)

type AdminHandler struct {
	*Deps
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	client := h.client(c)
	ctx := c.Request.Context()
	data := gin.H{
		"Title":    "Tổng quan",
		"Stats":    models.StatisticsSummary{},
		"Summary":  models.ComputerStatusSummary{},
		"Sessions": []models.Session{},
	}
	err := func() error {
		stats, err := client.StatisticsSummary(ctx)
		if err != nil {
			return err
		}
		data["Stats"] = stats
		summary, err := client.ComputerStatusSummary(ctx)
		if err != nil {
			return err
		}
		data["Summary"] = summary
		sessions, err := client.ActiveSessions(ctx)
		data["Sessions"] = sessions
		return err
	}()
	if err != nil && !h.loadError(c, err, data, "Không thể tải số liệu thống kê") {
		return
	}
	h.render(c, http.StatusOK, "admin_dashboard.html", data)
}

// Users

func (h *AdminHandler) Users(c *gin.Context) {
	client := h.client(c)
	ctx := c.Request.Context()
	data := gin.H{"Title": "Người dùng", "Users": []models.User{}, "Accounts": map[uint]*models.Account{}}

	err := func() error {
		users, err := client.ListUsers(ctx)
		if err != nil {
			return err
		}
		data["Users"] = users
		accounts, err := client.ListAccounts(ctx)
		if err != nil {
			return err
		}
		byUser := make(map[uint]*models.Account, len(accounts))
		for i := range accounts {
			byUser[accounts[i].UserID] = &accounts[i]
		}
		data["Accounts"] = byUser

		if edit, _ := strconv.ParseUint(c.Query("edit"), 10, 32); edit > 0 {
			for i := range users {
				if users[i].ID == uint(edit) {
					data["Editing"] = &users[i]
				}
			}
		}
		return nil
	}()
	if err != nil && !h.loadError(c, err, data, "Không thể tải danh sách người dùng") {
		return
	}
	h.render(c, http.StatusOK, "users.html", data)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	role, _ := formInt(c, "role")
	req := models.CreateUserRequest{
		RegisterRequest: models.RegisterRequest{
			Username:    strings.TrimSpace(c.PostForm("username")),
			Email:       strings.TrimSpace(c.PostForm("email")),
			Password:    c.PostForm("password"),
			FullName:    strings.TrimSpace(c.PostForm("full_name")),
			PhoneNumber: strings.TrimSpace(c.PostForm("phone_number")),
			Address:     strings.TrimSpace(c.PostForm("address")),
			DateOfBirth: formDate(c, "date_of_birth"),
		},
		Role: models.Role(role),
	}
	_, err := h.client(c).CreateUser(c.Request.Context(), req)
	h.record(c, "user.create", req.Username, req.Role.Label(), err)
	h.done(c, err, "Đã thêm người dùng "+req.Username, "Không thể thêm người dùng", "/admin/users")
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	req := models.UpdateUserRequest{
		Email:       strings.TrimSpace(c.PostForm("email")),
		FullName:    strings.TrimSpace(c.PostForm("full_name")),
		PhoneNumber: strings.TrimSpace(c.PostForm("phone_number")),
		Address:     strings.TrimSpace(c.PostForm("address")),
		DateOfBirth: formDate(c, "date_of_birth"),
	}
	if role, ok := formInt(c, "role"); ok {
		r := models.Role(role)
		req.Role = &r
	}
	user, err := h.client(c).UpdateUser(c.Request.Context(), id, req)
	h.record(c, "user.update", fmt.Sprintf("user #%d", id), "", err)
	h.done(c, err, "Đã cập nhật người dùng "+user.Username, "Không thể cập nhật người dùng", "/admin/users")
}

func (h *AdminHandler) UserStatus(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	n, _ := formInt(c, "status")
	status := models.UserStatus(n)
	err := h.client(c).ChangeUserStatus(c.Request.Context(), id, status)
	h.record(c, "user.status", fmt.Sprintf("user #%d", id), status.Label(), err)
	h.done(c, err, "Đã chuyển trạng thái người dùng sang "+status.Label(), "Không thể thay đổi trạng thái", "/admin/users")
}

func (h *AdminHandler) CreateAccount(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	account, err := h.client(c).CreateAccount(c.Request.Context(), id)
	h.record(c, "account.create", fmt.Sprintf("user #%d", id), "", err)
	h.done(c, err, fmt.Sprintf("Đã tạo tài khoản #%d", account.ID), "Không thể tạo tài khoản", "/admin/users")
}

// Computers

func (h *AdminHandler) Computers(c *gin.Context) {
	client := h.client(c)
	ctx := c.Request.Context()
	filter := c.Query("status")
	data := gin.H{"Title": "Máy tính", "Computers": []models.Computer{}, "Filter": filter, "Blank": models.Computer{},
		"InUseBy": map[uint]string{}}

	var (
		computers []models.Computer
		err       error
	)
	if n, convErr := strconv.Atoi(filter); convErr == nil {
		computers, err = client.ComputersByStatus(ctx, models.ComputerStatus(n))
	} else {
		computers, err = client.ListComputers(ctx)
	}
	if err == nil {
		data["Computers"] = computers
		data["InUseBy"], err = inUseBy(ctx, client, computers)
	}
	if err == nil {
		if edit, _ := strconv.ParseUint(c.Query("edit"), 10, 32); edit > 0 {
			var pc models.Computer
			if pc, err = client.GetComputer(ctx, uint(edit)); err == nil {
				data["Editing"] = &pc
			}
		}
	}
	if err != nil && !h.loadError(c, err, data, "Không thể tải danh sách máy tính") {
		return
	}
	h.render(c, http.StatusOK, "computers.html", data)
}

// inUseBy maps each in-use computer to the user of its active session.
func inUseBy(ctx context.Context, client *api.Client, computers []models.Computer) (map[uint]string, error) {
	users := make(map[uint]string)
	for _, pc := range computers {
		if pc.Status != models.ComputerInUse {
			continue
		}
		s, err := client.ActiveSessionByComputer(ctx, pc.ID)
		if api.IsNotFound(err) {
			continue
		}
		if err != nil {
			return users, err
		}
		users[pc.ID] = s.UserName
	}
	return users, nil
}

func computerForm(c *gin.Context) (models.CreateComputerRequest, bool) {
	rate, ok := formAmount(c, "hourly_rate")
	return models.CreateComputerRequest{
		Name:           strings.TrimSpace(c.PostForm("name")),
		IPAddress:      strings.TrimSpace(c.PostForm("ip_address")),
		Location:       strings.TrimSpace(c.PostForm("location")),
		Specifications: strings.TrimSpace(c.PostForm("specifications")),
		HourlyRate:     rate,
	}, ok
}

func (h *AdminHandler) CreateComputer(c *gin.Context) {
	req, ok := computerForm(c)
	if !ok {
		addFlash(c, flashError, "Giá mỗi giờ phải lớn hơn 0")
		c.Redirect(http.StatusFound, "/admin/computers")
		return
	}
	_, err := h.client(c).CreateComputer(c.Request.Context(), req)
	h.record(c, "computer.create", req.Name, "", err)
	h.done(c, err, "Đã thêm máy "+req.Name, "Không thể thêm máy tính", "/admin/computers")
}

func (h *AdminHandler) UpdateComputer(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	req, ok := computerForm(c)
	if !ok {
		addFlash(c, flashError, "Giá mỗi giờ phải lớn hơn 0")
		c.Redirect(http.StatusFound, fmt.Sprintf("/admin/computers?edit=%d", id))
		return
	}
	_, err := h.client(c).UpdateComputer(c.Request.Context(), id, req)
	h.record(c, "computer.update", req.Name, "", err)
	h.done(c, err, "Đã cập nhật máy "+req.Name, "Không thể cập nhật máy tính", "/admin/computers")
}

func (h *AdminHandler) ComputerStatus(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	n, _ := formInt(c, "status")
	status := models.ComputerStatus(n)
	err := h.client(c).UpdateComputerStatus(c.Request.Context(), id, models.ComputerStatusUpdate{ComputerID: id, Status: status})
	h.record(c, "computer.status", fmt.Sprintf("computer #%d", id), status.Label(), err)
	h.done(c, err, "Đã chuyển trạng thái máy sang "+status.Label(), "Không thể thay đổi trạng thái máy", "/admin/computers")
}

func (h *AdminHandler) Maintenance(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	reason := strings.TrimSpace(c.PostForm("reason"))
	if reason == "" {
		reason = defaultMaintenanceReason
	}
	err := h.client(c).SetMaintenance(c.Request.Context(), id, reason)
	h.record(c, "computer.maintenance", fmt.Sprintf("computer #%d", id), reason, err)
	h.done(c, err, "Đã chuyển máy sang bảo trì", "Không thể chuyển máy sang bảo trì", "/admin/computers")
}

// Sessions

func (h *AdminHandler) Sessions(c *gin.Context) {
	data := gin.H{"Title": "Phiên sử dụng", "Sessions": []models.Session{}}
	sessions, err := h.client(c).ActiveSessions(c.Request.Context())
	if err == nil {
		data["Sessions"] = sessions
	} else if !h.loadError(c, err, data, "Không thể tải danh sách phiên") {
		return
	}
	h.render(c, http.StatusOK, "sessions.html", data)
}

// SessionsLive streams the active session rows.
func (h *AdminHandler) SessionsLive(c *gin.Context) {
	client := h.client(c)
	h.stream(c, "session_rows", func(ctx context.Context) (any, error) {
		return client.ActiveSessions(ctx)
	})
}

func (h *AdminHandler) Terminate(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	reason := strings.TrimSpace(c.PostForm("reason"))
	if reason == "" {
		addFlash(c, flashError, "Vui lòng nhập lý do chấm dứt phiên")
		c.Redirect(http.StatusFound, "/admin/sessions")
		return
	}
	_, err := h.client(c).TerminateSession(c.Request.Context(), id, reason)
	h.record(c, "session.terminate", fmt.Sprintf("session #%d", id), reason, err)
	h.done(c, err, "Đã chấm dứt phiên sử dụng", "Không thể chấm dứt phiên sử dụng", "/admin/sessions")
}

// Accounts

func (h *AdminHandler) Accounts(c *gin.Context) {
	data := gin.H{"Title": "Tài khoản", "Accounts": []models.Account{}}
	accounts, err := h.client(c).ListAccounts(c.Request.Context())
	if err == nil {
		data["Accounts"] = accounts
	} else if !h.loadError(c, err, data, "Không thể tải danh sách tài khoản") {
		return
	}
	h.render(c, http.StatusOK, "accounts.html", data)
}

func (h *AdminHandler) ActivityLog(c *gin.Context) {
	data := gin.H{"Title": "Nhật ký thao tác"}
	if h.Activity == nil {
		data["Entries"] = []activity.Entry{}
		h.render(c, http.StatusOK, "activity.html", data)
		return
	}
	entries, err := h.Activity.List(activityPageSize)
	if err != nil {
		data["Error"] = "Không thể đọc nhật ký: " + err.Error()
	}
	data["Entries"] = entries
	h.render(c, http.StatusOK, "activity.html", data)
}
