package app

import "time"

// fpsCounter measures frames per wall-clock second.
type fpsCounter struct {
	start  time.Time
	frames int
	rate   float64
}

func (c *fpsCounter) tick(now time.Time) {
	if c.start.IsZero() {
		c.start = now
		return
	}
	c.frames++
	if el := now.Sub(c.start); el >= time.Second {
		c.rate = float64(c.frames) / el.Seconds()
		c.frames = 0
		c.start = now
	}
}
