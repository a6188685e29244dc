package backend

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"netcafe/models"
)

type AuthHandler struct {
	DB     *gorm.DB
	Tokens *Tokens
}

// Login verifies the credentials and issues a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}

	var user User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			failErr(c, ErrInvalidCredentials)
			return
		}
		failErr(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		failErr(c, ErrInvalidCredentials)
		return
	}
	if user.Status != models.UserActive {
		failErr(c, ErrUserLocked)
		return
	}

	token, ttl, err := h.Tokens.Issue(user)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Đăng nhập thành công", models.AuthResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		Token:     token,
		ExpiresIn: int64(ttl.Seconds()),
	})
}
