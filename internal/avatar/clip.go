package avatar

import "github.com/DekyCS/bagelhacks/internal/bus"

type fadeDirection int

const (
	fadeNone fadeDirection = iota
	fadeIn
	fadeOut
)

// clip is one base animation (Idle, Greeting, Thinking, Talking) with
// its current crossfade weight. Only one clip is authoritative at a
// time; overlap during a transition is the deliberate crossfade.
type clip struct {
	name    bus.AnimationState
	weight  float64
	fade    fadeDirection
	elapsed float64 // seconds into the playing clip, reset on fade-in
}

// advance moves the crossfade by dt seconds at the given fade rate
// (1/fadeDuration) and accumulates playback time.
func (c *clip) advance(dt, rate float64) {
	switch c.fade {
	case fadeIn:
		c.weight += rate * dt
		if c.weight >= 1 {
			c.weight = 1
			c.fade = fadeNone
		}
	case fadeOut:
		c.weight -= rate * dt
		if c.weight <= 0 {
			c.weight = 0
			c.fade = fadeNone
		}
	}
	if c.weight > 0 {
		c.elapsed += dt
	}
}

// beginFadeIn restarts the clip from its first frame and fades it in.
func (c *clip) beginFadeIn() {
	c.elapsed = 0
	c.fade = fadeIn
}

func (c *clip) beginFadeOut() {
	if c.weight > 0 || c.fade == fadeIn {
		c.fade = fadeOut
	}
}
