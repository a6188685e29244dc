package backend

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"netcafe/models"
)

type StatisticsHandler struct {
	DB *gorm.DB
}

func (h *StatisticsHandler) Summary(c *gin.Context) {
	summary, err := statistics(h.DB, time.Now())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, "", summary)
}

// statistics reports revenue as the usage debits booked since the start of
// today and of the current month.
func statistics(db *gorm.DB, now time.Time) (models.StatisticsSummary, error) {
	var s models.StatisticsSummary
	var n int64

	if err := db.Model(&User{}).Count(&n).Error; err != nil {
		return s, err
	}
	s.TotalUsers = int(n)

	if err := db.Model(&Session{}).Where("status = ?", models.SessionActive).
		Distinct("user_id").Count(&n).Error; err != nil {
		return s, err
	}
	s.ActiveUsers = int(n)

	if err := db.Model(&Computer{}).Count(&n).Error; err != nil {
		return s, err
	}
	s.TotalComputers = int(n)

	if err := db.Model(&Computer{}).Where("status = ?", models.ComputerInUse).Count(&n).Error; err != nil {
		return s, err
	}
	s.ComputersInUse = int(n)

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var err error
	if s.TodayRevenue, err = usageSince(db, day); err != nil {
		return s, err
	}
	if s.MonthRevenue, err = usageSince(db, month); err != nil {
		return s, err
	}
	return s, nil
}

func usageSince(db *gorm.DB, since time.Time) (float64, error) {
	var amounts []float64
	err := db.Model(&Transaction{}).Where("type = ? AND created_at >= ?", models.TxUsage, since).
		Pluck("amount", &amounts).Error
	if err != nil {
		return 0, err
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a).Abs())
	}
	return total.InexactFloat64(), nil
}
