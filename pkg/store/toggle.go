package store

import "sync/atomic"

// Toggle is the process-wide switch gating whether a new scam detection may
// start an engagement. It never affects sessions that are already active.
// Constructed once at startup and injected, so tests can run isolated copies.
type Toggle struct {
	enabled atomic.Bool
}

func NewToggle(enabled bool) *Toggle {
	t := &Toggle{}
	t.enabled.Store(enabled)
	return t
}

func (t *Toggle) Enable()  { t.enabled.Store(true) }
func (t *Toggle) Disable() { t.enabled.Store(false) }

func (t *Toggle) Enabled() bool { return t.enabled.Load() }
