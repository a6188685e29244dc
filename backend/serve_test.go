package backend

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestServeStopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve kept running after the context was cancelled")
	}
}

func TestServeReportsListenFailure(t *testing.T) {
	if err := Serve(context.Background(), "bad-address", http.NotFoundHandler()); err == nil {
		t.Fatal("Serve on an invalid address returned nil")
	}
}
