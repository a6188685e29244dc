// Package web holds the console's HTML templates.
package web

import (
	"embed"
	"html/template"
	"time"

	"netcafe/format"
	"netcafe/models"
)

//go:embed templates/*.html
var files embed.FS

// Funcs exposes the display formatters to templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"currency": format.Currency,
		"number":   format.Number,
		"duration": format.Duration,
		"hours":    format.Hours,
		"datetime": format.DateTime,
		"date":     format.Date,
		"datetimep": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return format.DateTime(*t)
		},
		"inputDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		// canAfford mirrors the backend's start rule: a quarter hour up front.
		"canAfford": func(balance, rate float64) bool {
			return balance >= rate/4
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"roles": func() []models.Role {
			return []models.Role{models.RoleGuest, models.RoleStudent, models.RoleAdmin}
		},
		"userStatuses": func() []models.UserStatus {
			return []models.UserStatus{models.UserActive, models.UserInactive, models.UserLocked}
		},
		"computerStatuses": func() []models.ComputerStatus {
			return []models.ComputerStatus{models.ComputerAvailable, models.ComputerInUse, models.ComputerMaintenance, models.ComputerBroken}
		},
		"paymentMethods": func() []models.PaymentMethod { return models.PaymentMethods },
	}
}

// Templates parses every page and partial. It panics on a malformed
// template, which can only happen at build time.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html"))
}
