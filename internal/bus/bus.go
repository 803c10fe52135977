// Package bus provides the in-process publish/subscribe channels that
// decouple the voice session layer from the avatar driver and scene
// navigation. Each signal carries an explicit payload type; delivery is
// synchronous and in registration order.
package bus

import (
	"sync"
	"time"

	"github.com/DekyCS/bagelhacks/internal/viseme"
)

// AnimationState names the authoritative base animation clip.
type AnimationState string

const (
	StateIdle     AnimationState = "Idle"
	StateGreeting AnimationState = "Greeting"
	StateThinking AnimationState = "Thinking"
	StateTalking  AnimationState = "Talking"
)

// ScenePanel identifies which interview panel should be focal.
type ScenePanel string

const (
	PanelModel ScenePanel = "model"
	PanelInput ScenePanel = "input"
)

// Utterance carries one recognized agent utterance: its text, the viseme
// sequence generated for it, and the wall-clock anchor at which its audio
// playback began.
type Utterance struct {
	Text    string
	Visemes viseme.Sequence
	Anchor  time.Time
}

// Bus aggregates the four application signals. Components receive it by
// injection; none of the topics are package globals.
type Bus struct {
	UtteranceReady        Topic[Utterance]
	AnimationStateChanged Topic[AnimationState]
	SceneFocusChanged     Topic[ScenePanel]
	InterviewComplete     Topic[struct{}]
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Subscription is a handle to a registered subscriber. Cancel detaches
// it; a subscriber cancelled during a publish is skipped for the
// remainder of that publish.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Cancel removes the subscriber. Safe to call more than once and from
// inside a notification callback.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

type subscriber[T any] struct {
	mu     sync.Mutex
	fn     func(T)
	active bool
}

func (s *subscriber[T]) invoke(v T) {
	s.mu.Lock()
	fn := s.fn
	active := s.active
	s.mu.Unlock()
	if active {
		fn(v)
	}
}

func (s *subscriber[T]) deactivate() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// Topic is a single typed signal. The zero value is ready to use.
type Topic[T any] struct {
	mu   sync.Mutex
	subs []*subscriber[T]
}

// Subscribe registers fn to be called on every subsequent publish, after
// all previously registered subscribers. There is no replay of earlier
// publishes.
func (t *Topic[T]) Subscribe(fn func(T)) *Subscription {
	sub := &subscriber[T]{fn: fn, active: true}

	t.mu.Lock()
	t.subs = append(t.subs, sub)
	t.mu.Unlock()

	return &Subscription{cancel: func() {
		sub.deactivate()
		t.remove(sub)
	}}
}

// Publish synchronously notifies every currently registered subscriber in
// registration order. It returns once all callbacks have run.
func (t *Topic[T]) Publish(v T) {
	t.mu.Lock()
	snapshot := make([]*subscriber[T], len(t.subs))
	copy(snapshot, t.subs)
	t.mu.Unlock()

	for _, sub := range snapshot {
		sub.invoke(v)
	}
}

func (t *Topic[T]) remove(sub *subscriber[T]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subs {
		if s == sub {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			return
		}
	}
}
