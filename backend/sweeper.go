package backend

import (
	"context"
	"log"
	"time"
)

// Sweep expires exhausted sessions every interval until ctx is done.
func Sweep(ctx context.Context, billing *Billing, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("[sweeper] stopped")
			return
		case <-ticker.C:
			n, err := billing.ExpireExhausted()
			if err != nil {
				log.Printf("[sweeper] %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[sweeper] expired %d session(s)", n)
			}
		}
	}
}
