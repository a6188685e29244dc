package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"netcafe/activity"
	"netcafe/api"
	"netcafe/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryLog keeps activity entries in memory.
type memoryLog struct {
	mu      sync.Mutex
	entries []activity.Entry
}

func (m *memoryLog) Record(e activity.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryLog) List(int) ([]activity.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]activity.Entry(nil), m.entries...), nil
}

// console drives the router like a browser, carrying the session cookie
// from one request to the next.
type console struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
	log     *memoryLog
}

func newConsole(t *testing.T, backend http.HandlerFunc) *console {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	log := &memoryLog{}
	deps := &Deps{
		API:          api.New(srv.URL + "/api"),
		Activity:     log,
		Templates:    web.Templates(),
		PollInterval: time.Second,
	}
	return &console{t: t, router: NewRouter(deps, "test-secret"), cookies: map[string]*http.Cookie{}, log: log}
}

func (c *console) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *console) login(username, password string) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {password}})
}

// fakeBackend answers login for admin and sv01 and rejects every token on
// /user/current when expired is set.
func fakeBackend(expired *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			body, _ := io.ReadAll(r.Body)
			switch {
			case strings.Contains(string(body), `"username":"admin"`):
				io.WriteString(w, `{"success":true,"data":{"id":1,"username":"admin","role":2,"token":"admin-token","expiresIn":28800}}`)
			case strings.Contains(string(body), `"username":"sv01"`):
				io.WriteString(w, `{"success":true,"data":{"id":2,"username":"sv01","role":1,"token":"student-token","expiresIn":28800}}`)
			default:
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"success":false,"message":"Sai thông tin đăng nhập"}`)
			}
		case "/api/user/current":
			if expired != nil && *expired {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"success":false,"message":"Token không hợp lệ"}`)
				return
			}
			io.WriteString(w, `{"success":true,"data":{"id":2,"username":"sv01","role":1}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"success":false,"message":"Không tìm thấy"}`)
		}
	}
}

func TestLoginRedirectsByRole(t *testing.T) {
	cases := []struct {
		username string
		want     string
	}{
		{"admin", "/admin/dashboard"},
		{"sv01", "/client/dashboard"},
	}
	for _, tc := range cases {
		t.Run(tc.username, func(t *testing.T) {
			c := newConsole(t, fakeBackend(nil))
			w := c.login(tc.username, "secret")
			if w.Code != http.StatusFound {
				t.Fatalf("status = %d", w.Code)
			}
			if got := w.Header().Get("Location"); got != tc.want {
				t.Fatalf("Location = %q, want %q", got, tc.want)
			}
			// Visiting the login page again goes straight to the landing page.
			w = c.do(http.MethodGet, "/login", nil)
			if w.Code != http.StatusFound || w.Header().Get("Location") != tc.want {
				t.Fatalf("second visit: %d %q", w.Code, w.Header().Get("Location"))
			}
		})
	}
}

func TestLoginFailureShowsBackendMessage(t *testing.T) {
	c := newConsole(t, fakeBackend(nil))
	w := c.login("ghost", "nope")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Sai thông tin đăng nhập") {
		t.Fatalf("body lacks backend message:\n%s", w.Body.String())
	}
	entries, _ := c.log.List(0)
	if len(entries) != 1 || entries[0].OK || entries[0].Action != "login" {
		t.Fatalf("activity = %+v", entries)
	}
}

func TestEmptyLoginFormIsRejectedLocally(t *testing.T) {
	c := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend called for %s", r.URL.Path)
	})
	if w := c.login("", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGuardsRedirect(t *testing.T) {
	c := newConsole(t, fakeBackend(nil))

	w := c.do(http.MethodGet, "/client/dashboard", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("anonymous: %d %q", w.Code, w.Header().Get("Location"))
	}

	c.login("sv01", "secret")
	w = c.do(http.MethodGet, "/admin/users", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("student on admin page: %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestUnauthorizedResponseEndsSession(t *testing.T) {
	expired := true
	c := newConsole(t, fakeBackend(&expired))
	c.login("sv01", "secret")

	w := c.do(http.MethodGet, "/client/dashboard", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("dashboard with expired token: %d %q", w.Code, w.Header().Get("Location"))
	}

	// The stored token is gone, so the guard itself now sends us to login
	// even though the backend would accept the next call.
	expired = false
	w = c.do(http.MethodGet, "/client/dashboard", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("after expiry: %d %q", w.Code, w.Header().Get("Location"))
	}

	w = c.do(http.MethodGet, "/login", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Phiên đăng nhập đã hết hạn") {
		t.Fatalf("login page lacks expiry flash: %d", w.Code)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	c := newConsole(t, fakeBackend(nil))
	c.login("admin", "secret")
	if w := c.do(http.MethodGet, "/logout", nil); w.Code != http.StatusFound {
		t.Fatalf("logout status = %d", w.Code)
	}
	w := c.do(http.MethodGet, "/admin/dashboard", nil)
	if w.Header().Get("Location") != "/login" {
		t.Fatalf("after logout: %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestChangeFilterSkipsRepeats(t *testing.T) {
	var f changeFilter
	steps := []struct {
		html string
		want bool
	}{
		{"", true},
		{"", false},
		{"<tr>1</tr>", true},
		{"<tr>1</tr>", false},
		{"<tr>2</tr>", true},
		{"<tr>1</tr>", true},
	}
	for i, s := range steps {
		if got := f.changed(s.html); got != s.want {
			t.Errorf("step %d: changed(%q) = %v, want %v", i, s.html, got, s.want)
		}
	}
}
