package backend

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"netcafe/models"
)

type ComputerHandler struct {
	DB      *gorm.DB
	Billing *Billing
}

func (h *ComputerHandler) list(c *gin.Context, query *gorm.DB) {
	var computers []Computer
	if err := query.Order("name").Find(&computers).Error; err != nil {
		failErr(c, err)
		return
	}
	out := make([]models.Computer, 0, len(computers))
	for _, pc := range computers {
		out = append(out, computerDTO(pc))
	}
	ok(c, http.StatusOK, "", out)
}

func (h *ComputerHandler) List(c *gin.Context) {
	h.list(c, h.DB)
}

func (h *ComputerHandler) Available(c *gin.Context) {
	h.list(c, h.DB.Where("status = ?", models.ComputerAvailable))
}

func (h *ComputerHandler) ByStatus(c *gin.Context) {
	status, err := strconv.Atoi(c.Param("status"))
	if err != nil || status < int(models.ComputerAvailable) || status > int(models.ComputerBroken) {
		fail(c, http.StatusBadRequest, "Trạng thái không hợp lệ")
		return
	}
	h.list(c, h.DB.Where("status = ?", status))
}

func (h *ComputerHandler) Get(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var pc Computer
	if err := h.DB.First(&pc, id).Error; err != nil {
		failErr(c, notFound(err, ErrComputerNotFound))
		return
	}
	ok(c, http.StatusOK, "", computerDTO(pc))
}

func (h *ComputerHandler) nameTaken(name string) (bool, error) {
	var count int64
	err := h.DB.Model(&Computer{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (h *ComputerHandler) Create(c *gin.Context) {
	var req models.CreateComputerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	taken, err := h.nameTaken(req.Name)
	if err != nil {
		failErr(c, err)
		return
	}
	if taken {
		failErr(c, ErrComputerExists)
		return
	}
	pc := Computer{
		Name:           req.Name,
		IPAddress:      req.IPAddress,
		Location:       req.Location,
		Specifications: req.Specifications,
		HourlyRate:     req.HourlyRate,
		Status:         models.ComputerAvailable,
	}
	if err := h.DB.Create(&pc).Error; err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, "Thêm máy tính thành công", computerDTO(pc))
}

func (h *ComputerHandler) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req models.UpdateComputerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	pc, err := h.Billing.EditComputer(id, Computer{
		Name:           strings.TrimSpace(req.Name),
		IPAddress:      req.IPAddress,
		Location:       req.Location,
		Specifications: req.Specifications,
		HourlyRate:     req.HourlyRate,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Cập nhật máy tính thành công", computerDTO(pc))
}

// UpdateStatus is refused while a session runs on the computer, unless the
// requested status is in-use.
func (h *ComputerHandler) UpdateStatus(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req models.ComputerStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	if req.Status < models.ComputerAvailable || req.Status > models.ComputerBroken {
		fail(c, http.StatusBadRequest, "Trạng thái không hợp lệ")
		return
	}
	if err := h.Billing.SetComputerStatus(id, req.Status, strings.TrimSpace(req.Reason)); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Cập nhật trạng thái thành công", true)
}

// SetMaintenance takes the reason as a bare JSON string body.
func (h *ComputerHandler) SetMaintenance(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, "Dữ liệu không hợp lệ")
		return
	}
	var reason string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &reason); err != nil {
			fail(c, http.StatusBadRequest, "Lý do bảo trì không hợp lệ")
			return
		}
	}
	if err := h.Billing.Maintenance(id, strings.TrimSpace(reason)); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Đã chuyển máy sang trạng thái bảo trì", true)
}
