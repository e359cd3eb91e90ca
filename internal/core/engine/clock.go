package engine

import "time"

// Clock paces the frame loop.
type Clock interface {
	// Tick waits until at least 1/maxFPS seconds passed since the previous tick and
	// returns the elapsed seconds. maxFPS <= 0 disables the cap. The first tick returns 0.
	Tick(maxFPS int) float64
}

// FrameClock is the wall clock implementation.
type FrameClock struct {
	last  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

func NewFrameClock() *FrameClock {
	return &FrameClock{now: time.Now, sleep: time.Sleep}
}

func (c *FrameClock) Tick(maxFPS int) float64 {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}

	elapsed := now.Sub(c.last)
	if maxFPS > 0 {
		if budget := time.Second / time.Duration(maxFPS); elapsed < budget {
			c.sleep(budget - elapsed)
			now = c.now()
			elapsed = now.Sub(c.last)
		}
	}
	c.last = now
	return elapsed.Seconds()
}

// FixedClock returns the same step every tick without sleeping.
// Tests and replays use it, and so does the window backend whose loop ebiten paces.
type FixedClock struct {
	Step  float64
	Ticks int
}

func NewFixedClock(step float64) *FixedClock {
	return &FixedClock{Step: step}
}

func (c *FixedClock) Tick(int) float64 {
	c.Ticks++
	return c.Step
}
