package handlers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"netcafe/activity"
	"netcafe/auth"
	"netcafe/models"
)

// NewRouter wires every console screen. sessionSecret signs the cookie
// that carries the token and user claims.
func NewRouter(d *Deps, sessionSecret string) *gin.Engine {
	if d.Activity == nil {
		d.Activity = activity.Discard{}
	}
	r := gin.Default()
	r.SetHTMLTemplate(d.Templates)

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 8 * 3600, HttpOnly: true})
	r.Use(sessions.Sessions("netcafe", store))

	authH := &AuthHandler{Deps: d}
	clientH := &ClientHandler{Deps: d}
	adminH := &AdminHandler{Deps: d}

	r.GET("/", authH.Home)
	r.GET("/login", authH.ShowLogin)
	r.POST("/login", authH.Login)
	r.GET("/register", authH.ShowRegister)
	r.POST("/register", authH.Register)
	r.GET("/logout", authH.Logout)

	// Any logged-in user
	authorized := r.Group("/")
	authorized.Use(auth.Required())
	{
		authorized.GET("/client/dashboard", clientH.Dashboard)
		authorized.GET("/client/dashboard/live", clientH.Live)
		authorized.POST("/client/sessions/start", clientH.StartSession)
		authorized.POST("/client/sessions/:id/end", clientH.EndSession)

		authorized.GET("/profile", clientH.Profile)
		authorized.POST("/profile", clientH.UpdateProfile)
		authorized.POST("/profile/password", clientH.ChangePassword)

		authorized.GET("/account", clientH.MyAccount)
		authorized.POST("/account/withdraw", d.Withdraw)
		authorized.POST("/account/topup", clientH.TopUp)
		authorized.GET("/account/topup/:orderId", clientH.TopUpStatus)
	}

	admin := r.Group("/admin")
	admin.Use(auth.Required(models.RoleAdmin))
	{
		admin.GET("/dashboard", adminH.Dashboard)

		admin.GET("/users", adminH.Users)
		admin.POST("/users", adminH.CreateUser)
		admin.POST("/users/:id", adminH.UpdateUser)
		admin.POST("/users/:id/status", adminH.UserStatus)
		admin.POST("/users/:id/account", adminH.CreateAccount)

		admin.GET("/computers", adminH.Computers)
		admin.POST("/computers", adminH.CreateComputer)
		admin.POST("/computers/:id", adminH.UpdateComputer)
		admin.POST("/computers/:id/status", adminH.ComputerStatus)
		admin.POST("/computers/:id/maintenance", adminH.Maintenance)

		admin.GET("/sessions", adminH.Sessions)
		admin.GET("/sessions/live", adminH.SessionsLive)
		admin.POST("/sessions/:id/terminate", adminH.Terminate)

		admin.GET("/accounts", adminH.Accounts)
		admin.GET("/accounts/:id", d.AdminAccount)
		admin.POST("/accounts/deposit", d.Deposit)

		admin.GET("/activity", adminH.ActivityLog)
	}

	return r
}
