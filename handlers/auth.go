package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"netcafe/api"
	"netcafe/auth"
	"netcafe/models"
)

type AuthHandler struct {
	*Deps
}

func (h *AuthHandler) Home(c *gin.Context) {
	data := gin.H{"Title": "Trang chủ"}
	if v := auth.Load(c); v.Decision == auth.Allow {
		data["Landing"] = auth.LandingPath(v.Principal.Claims.Role)
	}
	h.render(c, http.StatusOK, "home.html", data)
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if v := auth.Load(c); v.Decision == auth.Allow {
		c.Redirect(http.StatusFound, auth.LandingPath(v.Principal.Claims.Role))
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Đăng nhập"})
}

// Login stores the token and claims, then sends the user to the landing
// page for their role.
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	data := gin.H{"Title": "Đăng nhập", "Username": username}

	if username == "" || password == "" {
		data["Error"] = "Vui lòng nhập tên đăng nhập và mật khẩu"
		h.render(c, http.StatusBadRequest, "login.html", data)
		return
	}

	resp, err := h.API.Login(c.Request.Context(), models.LoginRequest{Username: username, Password: password})
	if err != nil {
		h.recordAs(username, "login", username, "", err)
		data["Error"] = api.Message(err, "Đăng nhập thất bại, vui lòng thử lại")
		h.render(c, http.StatusUnauthorized, "login.html", data)
		return
	}
	if err := auth.Save(c, resp); err != nil {
		log.Printf("[console] saving session: %v", err)
		data["Error"] = "Không thể lưu phiên đăng nhập"
		h.render(c, http.StatusInternalServerError, "login.html", data)
		return
	}
	h.recordAs(resp.Username, "login", resp.Username, "", nil)
	c.Redirect(http.StatusFound, auth.LandingPath(resp.Role))
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Đăng ký", "Form": models.RegisterRequest{}})
}

func (h *AuthHandler) Register(c *gin.Context) {
	req := models.RegisterRequest{
		Username:    strings.TrimSpace(c.PostForm("username")),
		Email:       strings.TrimSpace(c.PostForm("email")),
		Password:    c.PostForm("password"),
		FullName:    strings.TrimSpace(c.PostForm("full_name")),
		PhoneNumber: strings.TrimSpace(c.PostForm("phone_number")),
		Address:     strings.TrimSpace(c.PostForm("address")),
		DateOfBirth: formDate(c, "date_of_birth"),
	}
	data := gin.H{"Title": "Đăng ký", "Form": req}

	if req.Password != c.PostForm("confirm_password") {
		data["Error"] = "Mật khẩu xác nhận không khớp"
		h.render(c, http.StatusBadRequest, "register.html", data)
		return
	}

	user, err := h.API.Register(c.Request.Context(), req)
	h.recordAs(req.Username, "register", req.Username, "", err)
	if err != nil {
		data["Error"] = api.Message(err, "Đăng ký thất bại, vui lòng thử lại")
		h.render(c, http.StatusBadRequest, "register.html", data)
		return
	}
	addFlash(c, flashSuccess, "Đăng ký thành công tài khoản "+user.Username+", vui lòng đăng nhập")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if v := auth.Load(c); v.Decision == auth.Allow {
		h.recordAs(v.Principal.Claims.Username, "logout", v.Principal.Claims.Username, "", nil)
	}
	auth.Clear(c)
	c.Redirect(http.StatusFound, "/")
}
