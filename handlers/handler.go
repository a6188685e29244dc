// Package handlers renders the console screens and forwards every change to
// the billing API.
package handlers

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"netcafe/activity"
	"netcafe/api"
	"netcafe/auth"
)

// Deps is shared by every console handler.
type Deps struct {
	API          *api.Client
	Activity     activity.Log
	Templates    *template.Template
	PollInterval time.Duration
}

const (
	flashError   = "error"
	flashSuccess = "success"
)

type Flash struct {
	Kind    string
	Message string
}

func addFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, kind)
	if err := session.Save(); err != nil {
		log.Printf("[console] saving flash: %v", err)
	}
}

func popFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	var out []Flash
	for _, kind := range []string{flashError, flashSuccess} {
		for _, f := range session.Flashes(kind) {
			if msg, ok := f.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		session.Save()
	}
	return out
}

// render adds the navigation context and pending flashes to data.
func (d *Deps) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	p, loggedIn := auth.Current(c)
	if !loggedIn {
		if v := auth.Load(c); v.Decision == auth.Allow {
			p, loggedIn = v.Principal, true
		}
	}
	data["Principal"] = p
	data["LoggedIn"] = loggedIn
	data["IsAdmin"] = loggedIn && p.IsAdmin()
	data["Flashes"] = popFlashes(c)
	c.HTML(status, name, data)
}

func (d *Deps) renderPartial(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := d.Templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// client returns the API client acting as the logged-in user.
func (d *Deps) client(c *gin.Context) *api.Client {
	return d.API.WithToken(auth.MustCurrent(c).Token)
}

// expire ends the console session after the API rejected its token.
func (d *Deps) expire(c *gin.Context) {
	auth.Clear(c)
	addFlash(c, flashError, "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại")
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// done finishes a form post: a flash describing the outcome, then redirect.
func (d *Deps) done(c *gin.Context, err error, success, fallback, redirect string) {
	if api.IsKind(err, api.KindUnauthorized) {
		d.expire(c)
		return
	}
	if err != nil {
		addFlash(c, flashError, api.Message(err, fallback))
	} else {
		addFlash(c, flashSuccess, success)
	}
	c.Redirect(http.StatusFound, redirect)
}

// loadError turns a failed page fetch into the inline error text. It
// returns false when the request was already answered with a redirect.
func (d *Deps) loadError(c *gin.Context, err error, data gin.H, fallback string) bool {
	if api.IsKind(err, api.KindUnauthorized) {
		d.expire(c)
		return false
	}
	log.Printf("[console] %s: %v", c.Request.URL.Path, err)
	data["Error"] = api.Message(err, fallback)
	return true
}

func (d *Deps) record(c *gin.Context, action, target, detail string, err error) {
	actor := ""
	if p, ok := auth.Current(c); ok {
		actor = p.Claims.Username
	}
	d.recordAs(actor, action, target, detail, err)
}

func (d *Deps) recordAs(actor, action, target, detail string, err error) {
	if d.Activity == nil {
		return
	}
	if err != nil && detail == "" {
		detail = api.Message(err, err.Error())
	}
	entry := activity.Entry{Actor: actor, Action: action, Target: target, Detail: detail, OK: err == nil}
	if rerr := d.Activity.Record(entry); rerr != nil {
		log.Printf("[console] activity: %v", rerr)
	}
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "Mã không hợp lệ")
		return 0, false
	}
	return uint(id), true
}

func formUint(c *gin.Context, key string) uint {
	id, _ := strconv.ParseUint(strings.TrimSpace(c.PostForm(key)), 10, 32)
	return uint(id)
}

func formInt(c *gin.Context, key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(c.PostForm(key)))
	return n, err == nil
}

// formAmount parses a positive money amount.
func formAmount(c *gin.Context, key string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm(key)), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func formDate(c *gin.Context, key string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(c.PostForm(key)), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func queryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
