// Package backend is the reference billing REST API the console talks to.
package backend

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	DB          *gorm.DB
	Tokens      *Tokens
	Billing     *Billing
	Gateway     Gateway // nil disables online top-up
	CORSOrigins []string
}

func NewRouter(s Server) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.CORSOrigins) == 0 || (len(s.CORSOrigins) == 1 && s.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.CORSOrigins
	}
	r.Use(cors.New(corsConfig))

	authH := &AuthHandler{DB: s.DB, Tokens: s.Tokens}
	userH := &UserHandler{DB: s.DB}
	computerH := &ComputerHandler{DB: s.DB, Billing: s.Billing}
	sessionH := &SessionHandler{DB: s.DB, Billing: s.Billing}
	accountH := &AccountHandler{DB: s.DB, Billing: s.Billing}
	paymentH := &PaymentHandler{DB: s.DB, Billing: s.Billing, Gateway: s.Gateway}
	statsH := &StatisticsHandler{DB: s.DB}

	api := r.Group("/api")

	// Public
	api.POST("/auth/login", authH.Login)
	api.POST("/user", OptionalAuth(s.Tokens), userH.Create)
	api.POST("/payment/notification", paymentH.Notification)

	authed := api.Group("/")
	authed.Use(AuthMiddleware(s.Tokens))
	admin := authed.Group("/")
	admin.Use(AdminRequired())

	authed.GET("/user/current", userH.Current)
	authed.GET("/user/:id", userH.Get)
	authed.PUT("/user/:id", userH.Update)
	authed.PUT("/user/:id/change-password", userH.ChangePassword)
	admin.GET("/user", userH.List)
	admin.PUT("/user/:id/status", userH.ChangeStatus)

	authed.GET("/computer", computerH.List)
	authed.GET("/computer/available", computerH.Available)
	authed.GET("/computer/:id", computerH.Get)
	authed.GET("/computer/status/:status", computerH.ByStatus)
	admin.POST("/computer", computerH.Create)
	admin.PUT("/computer/:id", computerH.Update)
	admin.PUT("/computer/:id/status", computerH.UpdateStatus)
	admin.PUT("/computer/:id/maintenance", computerH.SetMaintenance)

	authed.POST("/session/start", sessionH.Start)
	authed.POST("/session/end", sessionH.End)
	admin.POST("/session/:id/terminate", sessionH.Terminate)
	admin.GET("/session/active", sessionH.Active)
	authed.GET("/session/computer-status-summary", sessionH.StatusSummary)
	authed.GET("/session/:id", sessionH.Get)
	authed.GET("/session/:id/cost", sessionH.Cost)
	authed.GET("/session/user/:userId", sessionH.ByUser)
	authed.GET("/session/user/:userId/has-active", sessionH.HasActive)
	authed.GET("/session/user/:userId/computer/:computerId/remaining-time", sessionH.RemainingTime)
	authed.GET("/session/computer/:computerId/active", sessionH.ActiveByComputer)

	admin.GET("/account", accountH.List)
	admin.POST("/account", accountH.Create)
	authed.GET("/account/:id", accountH.Get)
	authed.GET("/account/:id/details", accountH.Details)
	authed.GET("/account/:id/transactions", accountH.Transactions)
	authed.GET("/account/:id/has-sufficient-balance", accountH.HasSufficientBalance)
	authed.GET("/account/user/:userId", accountH.ByUser)
	authed.GET("/account/user/:userId/balance", accountH.BalanceByUser)
	admin.POST("/account/deposit", accountH.Deposit)
	authed.POST("/account/withdraw", accountH.Withdraw)
	authed.POST("/account/deposit/online", paymentH.CreateTopUp)
	authed.GET("/payment/:orderId/status", paymentH.Status)

	admin.GET("/statistics/summary", statsH.Summary)

	return r
}
