package backend

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"netcafe/models"
)

type UserHandler struct {
	DB *gorm.DB
}

func validRole(r models.Role) bool {
	return r >= models.RoleGuest && r <= models.RoleAdmin
}

// Create registers a user. Anonymous callers always get the student role;
// an admin may pick any role.
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	role := models.RoleStudent
	if claims := caller(c); claims != nil && claims.Role == models.RoleAdmin {
		if !validRole(req.Role) {
			failErr(c, ErrInvalidRole)
			return
		}
		role = req.Role
	}

	var count int64
	if err := h.DB.Model(&User{}).Where("username = ? OR email = ?", req.Username, strings.ToLower(req.Email)).
		Count(&count).Error; err != nil {
		failErr(c, err)
		return
	}
	if count > 0 {
		failErr(c, ErrUserExists)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		failErr(c, err)
		return
	}
	user := User{
		Username:    req.Username,
		Email:       strings.ToLower(req.Email),
		Password:    string(hashed),
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		DateOfBirth: req.DateOfBirth,
		Role:        role,
		Status:      models.UserActive,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, "Tạo người dùng thành công", userDTO(user))
}

func (h *UserHandler) List(c *gin.Context) {
	var users []User
	if err := h.DB.Order("id").Find(&users).Error; err != nil {
		failErr(c, err)
		return
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, userDTO(u))
	}
	ok(c, http.StatusOK, "", out)
}

func (h *UserHandler) Current(c *gin.Context) {
	h.respondUser(c, caller(c).UserID)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid || !selfOrAdmin(c, id) {
		return
	}
	h.respondUser(c, id)
}

func (h *UserHandler) respondUser(c *gin.Context, id uint) {
	var user User
	if err := h.DB.First(&user, id).Error; err != nil {
		failErr(c, notFound(err, ErrUserNotFound))
		return
	}
	ok(c, http.StatusOK, "", userDTO(user))
}

// Update edits the profile. Only an admin may change the role.
func (h *UserHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid || !selfOrAdmin(c, id) {
		return
	}
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}

	var user User
	if err := h.DB.First(&user, id).Error; err != nil {
		failErr(c, notFound(err, ErrUserNotFound))
		return
	}
	email := strings.ToLower(req.Email)
	if email != user.Email {
		var count int64
		if err := h.DB.Model(&User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
			failErr(c, err)
			return
		}
		if count > 0 {
			failErr(c, ErrUserExists)
			return
		}
	}
	if req.Role != nil && *req.Role != user.Role {
		if caller(c).Role != models.RoleAdmin {
			failErr(c, ErrForbidden)
			return
		}
		if !validRole(*req.Role) {
			failErr(c, ErrInvalidRole)
			return
		}
		user.Role = *req.Role
	}

	user.Email = email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.Address = req.Address
	if !req.DateOfBirth.IsZero() {
		user.DateOfBirth = req.DateOfBirth
	}
	if err := h.DB.Omit("Account").Save(&user).Error; err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Cập nhật thông tin thành công", userDTO(user))
}

// ChangePassword is only open to the user themselves.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if caller(c).UserID != id {
		failErr(c, ErrForbidden)
		return
	}
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		failErr(c, ErrPasswordMismatch)
		return
	}

	var user User
	if err := h.DB.First(&user, id).Error; err != nil {
		failErr(c, notFound(err, ErrUserNotFound))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		failErr(c, ErrWrongPassword)
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		failErr(c, err)
		return
	}
	if err := h.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Đổi mật khẩu thành công", true)
}

func (h *UserHandler) ChangeStatus(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req models.UserStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	if req.Status < models.UserActive || req.Status > models.UserLocked {
		fail(c, http.StatusBadRequest, "Trạng thái không hợp lệ")
		return
	}
	if id == caller(c).UserID && req.Status != models.UserActive {
		fail(c, http.StatusBadRequest, "Không thể khóa tài khoản đang đăng nhập")
		return
	}
	res := h.DB.Model(&User{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		failErr(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		failErr(c, ErrUserNotFound)
		return
	}
	ok(c, http.StatusOK, "Cập nhật trạng thái thành công", true)
}
