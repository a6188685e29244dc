package backend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"netcafe/api"
)

// Domain refusals. The messages are shown to console users verbatim.
var (
	ErrInvalidCredentials   = errors.New("Tên đăng nhập hoặc mật khẩu không đúng")
	ErrUserLocked           = errors.New("Tài khoản người dùng đã bị khóa hoặc ngừng hoạt động")
	ErrUserNotFound         = errors.New("Không tìm thấy người dùng")
	ErrUserExists           = errors.New("Tên đăng nhập hoặc email đã tồn tại")
	ErrWrongPassword        = errors.New("Mật khẩu hiện tại không đúng")
	ErrPasswordMismatch     = errors.New("Mật khẩu mới và xác nhận mật khẩu không khớp")
	ErrComputerNotFound     = errors.New("Không tìm thấy máy tính")
	ErrComputerUnavailable  = errors.New("Máy tính không khả dụng")
	ErrComputerBusy         = errors.New("Máy tính đang có phiên sử dụng")
	ErrComputerExists       = errors.New("Tên máy tính đã tồn tại")
	ErrUserHasActiveSession = errors.New("Người dùng đã có phiên đang hoạt động")
	ErrSessionNotFound      = errors.New("Không tìm thấy phiên sử dụng")
	ErrSessionNotActive     = errors.New("Phiên sử dụng đã kết thúc")
	ErrAccountNotFound      = errors.New("Không tìm thấy tài khoản")
	ErrAccountExists        = errors.New("Người dùng đã có tài khoản")
	ErrInsufficientBalance  = errors.New("Số dư không đủ để thực hiện giao dịch này")
	ErrInvalidAmount        = errors.New("Số tiền phải lớn hơn 0")
	ErrForbidden            = errors.New("Bạn không có quyền thực hiện thao tác này")
	ErrPaymentsDisabled     = errors.New("Thanh toán trực tuyến chưa được cấu hình")
	ErrInvalidRole          = errors.New("Vai trò không hợp lệ")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrUserLocked):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrComputerNotFound),
		errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrAccountNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserExists), errors.Is(err, ErrComputerExists),
		errors.Is(err, ErrAccountExists), errors.Is(err, ErrComputerBusy),
		errors.Is(err, ErrUserHasActiveSession):
		return http.StatusConflict
	case errors.Is(err, ErrPaymentsDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func ok[T any](c *gin.Context, status int, message string, data T) {
	c.JSON(status, api.Envelope[T]{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, api.Envelope[any]{Success: false, Message: message})
}

// failErr maps a domain refusal to its status; anything unknown is a 500
// with a generic message.
func failErr(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusBadRequest && !isDomain(err) {
		c.Error(err)
		fail(c, http.StatusInternalServerError, "Đã xảy ra lỗi máy chủ")
		return
	}
	msg := err.Error()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		msg = "Không tìm thấy dữ liệu"
	}
	fail(c, status, msg)
}

func isDomain(err error) bool {
	for _, d := range []error{ErrInvalidCredentials, ErrWrongPassword, ErrPasswordMismatch, ErrComputerUnavailable,
		ErrSessionNotActive, ErrInsufficientBalance, ErrInvalidAmount, ErrInvalidRole} {
		if errors.Is(err, d) {
			return true
		}
	}
	return false
}

// bindFail reports request validation errors field by field.
func bindFail(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fail(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
		return
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := lowerFirst(fe.Field())
		fields[name] = append(fields[name], fieldMessage(fe))
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, api.Envelope[any]{
		Success: false,
		Message: fieldMessage(verrs[0]),
		Errors:  fields,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " là bắt buộc"
	case "email":
		return "Email không hợp lệ"
	case "min":
		return fe.Field() + " phải có ít nhất " + fe.Param() + " ký tự"
	case "gt":
		return fe.Field() + " phải lớn hơn " + fe.Param()
	default:
		return fe.Field() + " không hợp lệ"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "Mã không hợp lệ")
		return 0, false
	}
	return uint(id), true
}
