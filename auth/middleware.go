package auth

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"netcafe/models"
)

const principalKey = "auth.principal"

// Save stores the login result as the current principal.
func Save(c *gin.Context, resp models.AuthResponse) error {
	claims, err := json.Marshal(Claims{ID: resp.ID, Username: resp.Username, Role: resp.Role})
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set(TokenKey, resp.Token)
	session.Set(UserKey, string(claims))
	return session.Save()
}

// Clear erases both keys together.
func Clear(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(TokenKey)
	session.Delete(UserKey)
	if err := session.Save(); err != nil {
		log.Printf("[console] clearing session: %v", err)
	}
}

// Load reads the stored pair without enforcing anything.
func Load(c *gin.Context) Verdict {
	session := sessions.Default(c)
	token, _ := session.Get(TokenKey).(string)
	user, _ := session.Get(UserKey).(string)
	return Check(token, user)
}

// Required gates a route group. With no roles any logged-in user passes.
func Required(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(TokenKey).(string)
		user, _ := session.Get(UserKey).(string)

		v := Check(token, user, roles...)
		if v.Clear {
			Clear(c)
		}
		switch v.Decision {
		case RedirectLogin:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		case RedirectHome:
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Set(principalKey, v.Principal)
		c.Next()
	}
}

// Current returns the principal set by Required.
func Current(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// MustCurrent is Current for handlers mounted behind Required.
func MustCurrent(c *gin.Context) Principal {
	p, ok := Current(c)
	if !ok {
		panic("auth: handler mounted without auth.Required")
	}
	return p
}
