package backend

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"netcafe/models"
)

type SessionHandler struct {
	DB      *gorm.DB
	Billing *Billing
}

func (h *SessionHandler) withParties() *gorm.DB {
	return h.DB.Preload("User").Preload("Computer")
}

func (h *SessionHandler) respondList(c *gin.Context, sessions []Session) {
	now := time.Now()
	out := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionDTO(s, now))
	}
	ok(c, http.StatusOK, "", out)
}

func (h *SessionHandler) load(c *gin.Context) (Session, bool) {
	id, valid := paramID(c, "id")
	if !valid {
		return Session{}, false
	}
	var s Session
	if err := h.withParties().First(&s, id).Error; err != nil {
		failErr(c, notFound(err, ErrSessionNotFound))
		return Session{}, false
	}
	if !selfOrAdmin(c, s.UserID) {
		return Session{}, false
	}
	return s, true
}

func (h *SessionHandler) Start(c *gin.Context) {
	var req models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	if !selfOrAdmin(c, req.UserID) {
		return
	}
	s, err := h.Billing.Start(req.UserID, req.ComputerID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Bắt đầu phiên sử dụng thành công", sessionDTO(s, time.Now()))
}

func (h *SessionHandler) End(c *gin.Context) {
	var req models.EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	var s Session
	if err := h.DB.First(&s, req.SessionID).Error; err != nil {
		failErr(c, notFound(err, ErrSessionNotFound))
		return
	}
	if !selfOrAdmin(c, s.UserID) {
		return
	}
	ended, err := h.Billing.End(s.ID, models.SessionCompleted, "")
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Kết thúc phiên sử dụng thành công", sessionDTO(ended, time.Now()))
}

// Terminate takes the reason as a bare JSON string body.
func (h *SessionHandler) Terminate(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var reason string
	if raw, err := io.ReadAll(c.Request.Body); err == nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, &reason); err != nil {
			fail(c, http.StatusBadRequest, "Lý do không hợp lệ")
			return
		}
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Chấm dứt bởi quản trị viên"
	}
	ended, err := h.Billing.End(id, models.SessionTerminated, reason)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "Đã chấm dứt phiên sử dụng", sessionDTO(ended, time.Now()))
}

func (h *SessionHandler) Get(c *gin.Context) {
	if s, found := h.load(c); found {
		ok(c, http.StatusOK, "", sessionDTO(s, time.Now()))
	}
}

func (h *SessionHandler) Cost(c *gin.Context) {
	if s, found := h.load(c); found {
		ok(c, http.StatusOK, "", sessionDTO(s, time.Now()).TotalCost)
	}
}

func (h *SessionHandler) Active(c *gin.Context) {
	var sessions []Session
	if err := h.withParties().Where("status = ?", models.SessionActive).Order("start_time").Find(&sessions).Error; err != nil {
		failErr(c, err)
		return
	}
	h.respondList(c, sessions)
}

func (h *SessionHandler) ByUser(c *gin.Context) {
	userID, valid := paramID(c, "userId")
	if !valid || !selfOrAdmin(c, userID) {
		return
	}
	var sessions []Session
	if err := h.withParties().Where("user_id = ?", userID).Order("start_time desc").Find(&sessions).Error; err != nil {
		failErr(c, err)
		return
	}
	h.respondList(c, sessions)
}

func (h *SessionHandler) ActiveByComputer(c *gin.Context) {
	computerID, valid := paramID(c, "computerId")
	if !valid {
		return
	}
	var s Session
	if err := h.withParties().Where("computer_id = ? AND status = ?", computerID, models.SessionActive).First(&s).Error; err != nil {
		failErr(c, notFound(err, ErrSessionNotFound))
		return
	}
	ok(c, http.StatusOK, "", sessionDTO(s, time.Now()))
}

func (h *SessionHandler) RemainingTime(c *gin.Context) {
	userID, valid := paramID(c, "userId")
	if !valid || !selfOrAdmin(c, userID) {
		return
	}
	computerID, valid := paramID(c, "computerId")
	if !valid {
		return
	}
	left, err := h.Billing.Remaining(userID, computerID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", timeSpan(left))
}

func (h *SessionHandler) HasActive(c *gin.Context) {
	userID, valid := paramID(c, "userId")
	if !valid || !selfOrAdmin(c, userID) {
		return
	}
	var count int64
	if err := h.DB.Model(&Session{}).Where("user_id = ? AND status = ?", userID, models.SessionActive).Count(&count).Error; err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", count > 0)
}

// StatusSummary counts computers per status plus running sessions.
func (h *SessionHandler) StatusSummary(c *gin.Context) {
	summary, err := computerSummary(h.DB)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", summary)
}

func computerSummary(db *gorm.DB) (models.ComputerStatusSummary, error) {
	var rows []struct {
		Status models.ComputerStatus
		Count  int
	}
	var summary models.ComputerStatusSummary
	if err := db.Model(&Computer{}).Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return summary, err
	}
	for _, r := range rows {
		summary.TotalComputers += r.Count
		switch r.Status {
		case models.ComputerAvailable:
			summary.Available = r.Count
		case models.ComputerInUse:
			summary.InUse = r.Count
		case models.ComputerMaintenance:
			summary.Maintenance = r.Count
		case models.ComputerBroken:
			summary.Broken = r.Count
		}
	}
	var active int64
	if err := db.Model(&Session{}).Where("status = ?", models.SessionActive).Count(&active).Error; err != nil {
		return summary, err
	}
	summary.ActiveSessions = int(active)
	return summary, nil
}
