// Package agent tells workstation agents to lock or unlock their screen.
package agent

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const (
	Unlock = "unlock"
	Lock   = "lock"
)

// Client sends lock commands to the agent listening on each workstation.
// With an empty Port it only logs the command.
type Client struct {
	Port string
	HTTP *http.Client
}

func New(port string) *Client {
	return &Client{Port: port, HTTP: &http.Client{Timeout: 5 * time.Second}}
}

// Notify sends action to the agent at ip.
func (c *Client) Notify(ctx context.Context, ip, action string) error {
	if action != Lock && action != Unlock {
		return fmt.Errorf("unknown command %q", action)
	}
	if ip == "" {
		return fmt.Errorf("no address for %s command", action)
	}
	if c == nil || c.Port == "" {
		log.Printf("[agent] %s -> %s (simulated)", action, ip)
		return nil
	}

	body, err := json.Marshal(map[string]string{"action": action})
	if err != nil {
		return err
	}
	url := "http://" + net.JoinHostPort(ip, c.Port) + "/lock"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[agent] connecting to %s", url)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("agent %s: %w", ip, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("agent %s: %s", ip, resp.Status)
	}
	return nil
}

// Fire runs Notify in the background and logs failures.
func (c *Client) Fire(ip, action string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Notify(ctx, ip, action); err != nil {
			log.Printf("[agent] %s failed: %v", action, err)
		}
	}()
}
