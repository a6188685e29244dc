package handlers

import (
	"io"
	"log"

	"github.com/gin-gonic/gin"

	"netcafe/api"
	"netcafe/poll"
)

// changeFilter passes a render through only when it differs from the last one.
type changeFilter struct {
	last string
	seen bool
}

func (f *changeFilter) changed(html string) bool {
	if f.seen && html == f.last {
		return false
	}
	f.last, f.seen = html, true
	return true
}

// stream polls fetch for as long as the request lives and pushes the
// rendered partial as a "rows" server-sent event whenever it changes.
func (d *Deps) stream(c *gin.Context, partial string, fetch poll.FetchFunc[any]) {
	sub := poll.Subscribe(c.Request.Context(), d.PollInterval, fetch)
	defer sub.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	var filter changeFilter
	c.Stream(func(w io.Writer) bool {
		snap, open := <-sub.Updates()
		if !open {
			return false
		}
		if snap.Err != nil {
			if api.IsKind(snap.Err, api.KindUnauthorized) {
				c.SSEvent("logout", "")
				return false
			}
			// Keep showing the last good rows; the next tick may succeed.
			log.Printf("[console] live %s: %v", partial, snap.Err)
			return true
		}
		html, err := d.renderPartial(partial, snap.Value)
		if err != nil {
			log.Printf("[console] render %s: %v", partial, err)
			return false
		}
		if filter.changed(html) {
			c.SSEvent("rows", html)
		}
		return true
	})
}
