package web

import "time"

// SetClock replaces the controller clock.
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

// SetClock replaces the handler clock.
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}
