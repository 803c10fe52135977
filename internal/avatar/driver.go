package avatar

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/DekyCS/bagelhacks/internal/bus"
	"github.com/DekyCS/bagelhacks/internal/logging"
	"github.com/DekyCS/bagelhacks/internal/viseme"
)

// Config holds the animation timing knobs. Durations are wall-clock;
// rates are per-second.
type Config struct {
	// FadeDuration is the crossfade length between base clips.
	FadeDuration time.Duration
	// StabilizeDelay is the pause between starting the fade-out of the
	// old clips and resetting the new one. Resetting immediately makes
	// the incoming clip pop on its first frame.
	StabilizeDelay time.Duration
	// SmoothingRate controls exponential decay of mouth morphs toward
	// their targets, per second.
	SmoothingRate float64
	// StrongWeight is the peak weight of the active viseme shape.
	StrongWeight float64

	BlinkMinGap time.Duration
	BlinkMaxGap time.Duration
	BlinkHold   time.Duration
}

// DefaultConfig returns the timings used in production.
func DefaultConfig() Config {
	return Config{
		FadeDuration:   300 * time.Millisecond,
		StabilizeDelay: 20 * time.Millisecond,
		SmoothingRate:  12,
		StrongWeight:   0.8,
		BlinkMinGap:    1 * time.Second,
		BlinkMaxGap:    5 * time.Second,
		BlinkHold:      100 * time.Millisecond,
	}
}

// Driver owns the avatar's animation state: the base clip state
// machine, the blink cycle, and the per-frame morph target weights
// driven by the current utterance's viseme sequence.
//
// All mutation happens under d.mu. Update is expected to be called
// from a single render loop goroutine; Attach, SetState and
// SetUtterance may be called from any goroutine.
type Driver struct {
	mu  sync.Mutex
	cfg Config
	log zerolog.Logger

	model *Model
	clips map[bus.AnimationState]*clip
	state bus.AnimationState

	weights map[string]float64
	blink   *blinker

	seq       viseme.Sequence
	anchor    time.Time
	hasAnchor bool

	pending *Task
	subs    []*bus.Subscription

	now func() time.Time
}

// New builds a Driver for the given model. A nil model falls back to
// DefaultModel so headless runs still exercise the full pipeline.
func New(model *Model, cfg Config, log zerolog.Logger) *Driver {
	if model == nil {
		model = DefaultModel()
	}
	d := &Driver{
		cfg:     cfg,
		log:     logging.Component(log, "avatar"),
		model:   model,
		clips:   make(map[bus.AnimationState]*clip),
		state:   bus.StateIdle,
		weights: make(map[string]float64),
		blink:   newBlinker(rand.New(rand.NewSource(time.Now().UnixNano())), cfg.BlinkMinGap, cfg.BlinkMaxGap, cfg.BlinkHold, time.Now()),
		now:     time.Now,
	}
	for _, name := range model.Clips {
		s := bus.AnimationState(name)
		d.clips[s] = &clip{name: s}
	}
	if idle, ok := d.clips[bus.StateIdle]; ok {
		idle.weight = 1
	}
	return d
}

// Attach subscribes the driver to the session bus. The returned
// driver reacts to state changes and new utterances until Detach.
func (d *Driver) Attach(b *bus.Bus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs,
		b.AnimationStateChanged.Subscribe(func(s bus.AnimationState) {
			d.SetState(s)
		}),
		b.UtteranceReady.Subscribe(func(u bus.Utterance) {
			d.SetUtterance(u)
		}),
	)
}

// Detach cancels the bus subscriptions and any scheduled transition.
func (d *Driver) Detach() {
	d.mu.Lock()
	subs := d.subs
	d.subs = nil
	d.pending.Cancel()
	d.pending = nil
	d.mu.Unlock()
	for _, s := range subs {
		s.Cancel()
	}
}

// SetState transitions the base clip state machine. Repeating the
// current state is a no-op. All other clips fade out immediately; the
// target clip is reset and faded in after a short stabilization delay
// so the outgoing pose settles first.
func (d *Driver) SetState(target bus.AnimationState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if target == d.state {
		return
	}
	d.log.Debug().Str("from", string(d.state)).Str("to", string(target)).Msg("animation state change")
	d.state = target

	for name, c := range d.clips {
		if name != target {
			c.beginFadeOut()
		}
	}
	d.pending.Cancel()
	d.pending = After(d.cfg.StabilizeDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		// The state may have moved on while we waited.
		if d.state != target {
			return
		}
		if c, ok := d.clips[target]; ok {
			c.beginFadeIn()
		}
	})
}

// SetUtterance installs a new viseme sequence anchored to the moment
// the audio started playing. It replaces any sequence in progress.
func (d *Driver) SetUtterance(u bus.Utterance) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq = u.Visemes
	d.anchor = u.Anchor
	d.hasAnchor = !u.Anchor.IsZero()
	if !d.hasAnchor {
		d.anchor = d.now()
		d.hasAnchor = true
	}
}

// State reports the current base animation state.
func (d *Driver) State() bus.AnimationState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Weights returns a copy of the current morph target weights.
func (d *Driver) Weights() map[string]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]float64, len(d.weights))
	for k, v := range d.weights {
		out[k] = v
	}
	return out
}

// ClipWeights returns the crossfade weight of each base clip.
func (d *Driver) ClipWeights() map[bus.AnimationState]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[bus.AnimationState]float64, len(d.clips))
	for name, c := range d.clips {
		out[name] = c.weight
	}
	return out
}

// Update advances the animation by dt. Call once per rendered frame.
func (d *Driver) Update(dt time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	sec := dt.Seconds()
	fadeRate := 1.0
	if d.cfg.FadeDuration > 0 {
		fadeRate = 1 / d.cfg.FadeDuration.Seconds()
	}
	for _, c := range d.clips {
		c.advance(sec, fadeRate)
	}

	d.updateBlink(now, sec)
	d.updateMouth(now, sec)
}

func (d *Driver) updateBlink(now time.Time, sec float64) {
	target := 0.0
	if d.blink.closed(now) {
		target = 1
	}
	alpha := 1 - math.Exp(-d.cfg.SmoothingRate*sec)
	for _, name := range []string{MorphEyeBlinkLeft, MorphEyeBlinkRight} {
		if !d.model.Has(name) {
			continue
		}
		next := lerp(d.weights[name], target, alpha)
		if next < 1e-4 {
			next = 0
		}
		d.weights[name] = clamp(next, 0, 1)
	}
}

func (d *Driver) updateMouth(now time.Time, sec float64) {
	targets := make(map[string]float64, 4)

	// Greeting is spoken too, so it drives the mouth the same way.
	speaking := d.state == bus.StateTalking || d.state == bus.StateGreeting
	if speaking && d.hasAnchor && len(d.seq) > 0 {
		elapsed := int(now.Sub(d.anchor) / time.Millisecond)
		cue, ok := d.seq.At(elapsed)
		switch {
		case ok && cue.Exhausted:
			// Sequence fully played out, release it so the mouth
			// settles back to neutral.
			d.seq = nil
			d.hasAnchor = false
		case ok:
			for _, mc := range shapeToMorphs[cue.Current.Shape] {
				targets[mc.Name] = math.Max(targets[mc.Name], mc.Weight*d.cfg.StrongWeight)
			}
			if cue.HasNext && cue.Blend > 0.5 {
				for _, mc := range shapeToMorphs[cue.Next.Shape] {
					w := mc.Weight * d.cfg.StrongWeight * cue.Blend
					targets[mc.Name] = math.Max(targets[mc.Name], w)
				}
			}
		}
	}

	// Exponential smoothing toward the target, which is 0 for every
	// mouth morph not named by the current cue.
	alpha := 1 - math.Exp(-d.cfg.SmoothingRate*sec)
	for _, name := range mouthMorphNames {
		if !d.model.Has(name) {
			continue
		}
		cur := d.weights[name]
		next := lerp(cur, targets[name], alpha)
		if next < 1e-4 {
			next = 0
		}
		d.weights[name] = clamp(next, 0, 1)
	}
}
