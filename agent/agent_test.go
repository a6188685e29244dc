package agent

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func TestNotifyPostsAction(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lock" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		got <- body["action"]
	}))
	defer srv.Close()

	host, port, _ := net.SplitHostPort(srv.Listener.Addr().String())
	c := New(port)
	if err := c.Notify(context.Background(), host, Unlock); err != nil {
		t.Fatal(err)
	}
	if a := <-got; a != Unlock {
		t.Fatalf("action = %q", a)
	}
}

func TestNotifyReportsAgentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	host, port, _ := net.SplitHostPort(srv.Listener.Addr().String())
	if err := New(port).Notify(context.Background(), host, Lock); err == nil {
		t.Fatal("expected error")
	}
}

func TestNotifyWithoutPortOnlyLogs(t *testing.T) {
	if err := New("").Notify(context.Background(), "192.168.1.101", Lock); err != nil {
		t.Fatal(err)
	}
	if err := New("").Notify(context.Background(), "192.168.1.101", "open"); err == nil {
		t.Fatal("unknown command accepted")
	}
}
