package engine

// VirtualTime is the simulation's own clock, in milliseconds. It advances by
// scaled real-time deltas and freezes completely while paused, so cooldowns
// and AI delays never burst after a resume.
type VirtualTime float64

// Clock accumulates scaled real time into a virtual timestamp.
type Clock struct {
	now    VirtualTime
	scale  float64
	paused bool
}

// NewClock returns a running clock at t=0 with scale 1.
func NewClock() Clock {
	return Clock{scale: 1.0}
}

// Advance adds realDtMs*scale to the virtual timestamp. A paused clock or a
// non-positive scale advances nothing.
func (c *Clock) Advance(realDtMs float64) {
	if c.paused || c.scale <= 0 || realDtMs <= 0 {
		return
	}
	c.now += VirtualTime(realDtMs * c.scale)
}

// Now returns the current virtual timestamp.
func (c *Clock) Now() VirtualTime {
	return c.now
}

// SetScale sets the time-scale factor (1 = realtime, 2 = fast-forward, 0.5 =
// slow motion). Values <= 0 are treated as a hard pause by Advance.
func (c *Clock) SetScale(scale float64) {
	c.scale = scale
}

// Scale returns the current time-scale factor.
func (c *Clock) Scale() float64 {
	return c.scale
}

// SetPaused hard-pauses or resumes the clock without losing the scale.
func (c *Clock) SetPaused(paused bool) {
	c.paused = paused
}

// Paused reports whether the clock is hard-paused.
func (c *Clock) Paused() bool {
	return c.paused
}
