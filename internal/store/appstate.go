package store

import "github.com/DekyCS/bagelhacks/internal/bus"

// AppState is the observable session state visually distant components
// share: the latest agent utterance, the candidate's draft answer, the
// focal scene panel and the avatar's animation state. The cells mirror
// bus signals into queryable values so late readers see current state
// without replaying events.
type AppState struct {
	// Utterance holds the latest finalized agent utterance text.
	Utterance *Observable[string]
	// Draft holds the candidate's in-progress input panel text.
	Draft     *Observable[string]
	Panel     *Observable[bus.ScenePanel]
	Animation *Observable[bus.AnimationState]
}

// NewAppState returns an AppState in the initial scene.
func NewAppState() *AppState {
	return &AppState{
		Utterance: NewObservable(""),
		Draft:     NewObservable(""),
		Panel:     NewObservable(bus.PanelModel),
		Animation: NewObservable(bus.StateIdle),
	}
}

// Bind keeps the state cells in sync with the session bus. Draft has
// no bus source; the input panel writes it directly.
func (s *AppState) Bind(b *bus.Bus) {
	b.UtteranceReady.Subscribe(func(u bus.Utterance) { s.Utterance.Set(u.Text) })
	b.SceneFocusChanged.Subscribe(s.Panel.Set)
	b.AnimationStateChanged.Subscribe(s.Animation.Set)
}
