package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"netcafe/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api")
}

func TestCallDecodesEnvelopeAndSendsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/session/active" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		io.WriteString(w, `{"success":true,"message":"","data":[{"id":7,"computerName":"PC-07","duration":"00:10:00","status":0}]}`)
	})

	sessions, err := c.WithToken("tok").ActiveSessions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != 7 || sessions[0].ComputerName != "PC-07" {
		t.Fatalf("sessions = %+v", sessions)
	}
}

func TestWithTokenDoesNotLeak(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("base client sent a token")
		}
		io.WriteString(w, `{"success":true,"data":{"id":1,"token":"x","role":2}}`)
	})
	_ = c.WithToken("secret")
	if _, err := c.Login(context.Background(), models.LoginRequest{Username: "a", Password: "b"}); err != nil {
		t.Fatal(err)
	}
}

func TestBusinessFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":false,"message":"Máy tính đang được sử dụng","data":null}`)
	})
	_, err := c.StartSession(context.Background(), models.StartSessionRequest{UserID: 1, ComputerID: 2})
	if !IsKind(err, KindBusiness) {
		t.Fatalf("err = %v", err)
	}
	if got := Message(err, "fallback"); got != "Máy tính đang được sử dụng" {
		t.Fatalf("Message = %q", got)
	}
}

func TestHTTPErrorWithEnvelopeIsBusiness(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"success":false,"message":"","errors":{"amount":["Số tiền phải lớn hơn 0"]}}`)
	})
	_, err := c.Deposit(context.Background(), models.DepositRequest{AccountID: 1})
	if !IsKind(err, KindBusiness) {
		t.Fatalf("err = %v", err)
	}
	if got := Message(err, "fallback"); got != "Số tiền phải lớn hơn 0" {
		t.Fatalf("Message = %q", got)
	}
}

func TestUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"success":false,"message":"token expired"}`)
	})
	_, err := c.CurrentUser(context.Background())
	if !IsKind(err, KindUnauthorized) {
		t.Fatalf("err = %v", err)
	}
}

func TestTransportFailures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	_, err := c.ListComputers(context.Background())
	if !IsKind(err, KindTransport) {
		t.Fatalf("err = %v", err)
	}
	if got := Message(err, "fallback"); got != "fallback" {
		t.Fatalf("Message = %q", got)
	}

	dead := New("http://127.0.0.1:1/api")
	_, err = dead.ListComputers(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindTransport || apiErr.Status != 0 {
		t.Fatalf("err = %v", err)
	}
}

func TestDecodeFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>not json</html>`)
	})
	_, err := c.StatisticsSummary(context.Background())
	if !IsKind(err, KindDecode) {
		t.Fatalf("err = %v", err)
	}
}

func TestBareStringBodies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.TrimSpace(string(body)) != `"quạt hỏng"` {
			t.Errorf("body = %s", body)
		}
		if r.URL.Path != "/api/computer/3/maintenance" || r.Method != http.MethodPut {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"success":true,"message":"ok","data":true}`)
	})
	if err := c.SetMaintenance(context.Background(), 3, "quạt hỏng"); err != nil {
		t.Fatal(err)
	}
}

func TestTransactionsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageNumber") != "1" || r.URL.Query().Get("pageSize") != "10" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"success":true,"data":[]}`)
	})
	if _, err := c.Transactions(context.Background(), 4, 0, 0); err != nil {
		t.Fatal(err)
	}
}

func TestLookupEndpoints(t *testing.T) {
	cases := []struct {
		name string
		path string
		data string
		call func(c *Client) (any, error)
		want any
	}{
		{"GetUser", "/api/user/5", `{"id":5,"username":"sv05","role":1}`,
			func(c *Client) (any, error) {
				u, err := c.GetUser(context.Background(), 5)
				return u.Username, err
			}, "sv05"},
		{"GetSession", "/api/session/9", `{"id":9,"computerName":"PC-02","status":1}`,
			func(c *Client) (any, error) {
				s, err := c.GetSession(context.Background(), 9)
				return s.ComputerName, err
			}, "PC-02"},
		{"ActiveSessionByComputer", "/api/session/computer/3/active", `{"id":4,"userName":"sv01","status":0}`,
			func(c *Client) (any, error) {
				s, err := c.ActiveSessionByComputer(context.Background(), 3)
				return s.UserName, err
			}, "sv01"},
		{"SessionCost", "/api/session/9/cost", `4000`,
			func(c *Client) (any, error) { return c.SessionCost(context.Background(), 9) }, 4000.0},
		{"HasActiveSession", "/api/session/user/2/has-active", `true`,
			func(c *Client) (any, error) { return c.HasActiveSession(context.Background(), 2) }, true},
		{"BalanceByUser", "/api/account/user/2/balance", `55000`,
			func(c *Client) (any, error) { return c.BalanceByUser(context.Background(), 2) }, 55000.0},
		{"HasSufficientBalance", "/api/account/1/has-sufficient-balance", `false`,
			func(c *Client) (any, error) { return c.HasSufficientBalance(context.Background(), 1, 3750) }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != tc.path {
					t.Errorf("%s %s, want GET %s", r.Method, r.URL.Path, tc.path)
				}
				if tc.name == "HasSufficientBalance" && r.URL.Query().Get("amount") != "3750" {
					t.Errorf("amount = %q", r.URL.Query().Get("amount"))
				}
				io.WriteString(w, `{"success":true,"message":"","data":`+tc.data+`}`)
			})
			got, err := tc.call(c)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
