package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DekyCS/bagelhacks/internal/bus"
)

func TestAppStateMirrorsBus(t *testing.T) {
	b := bus.New()
	s := NewAppState()
	s.Bind(b)

	assert.Equal(t, bus.PanelModel, s.Panel.Get())
	assert.Equal(t, bus.StateIdle, s.Animation.Get())
	assert.Empty(t, s.Utterance.Get())

	b.SceneFocusChanged.Publish(bus.PanelInput)
	b.AnimationStateChanged.Publish(bus.StateTalking)
	b.UtteranceReady.Publish(bus.Utterance{Text: "Tell me about yourself."})

	assert.Equal(t, bus.PanelInput, s.Panel.Get())
	assert.Equal(t, bus.StateTalking, s.Animation.Get())
	assert.Equal(t, "Tell me about yourself.", s.Utterance.Get())
}

func TestAppStateDraftIsWriterOwned(t *testing.T) {
	s := NewAppState()

	var seen []string
	cancel := s.Draft.Subscribe(func(v string) { seen = append(seen, v) })
	defer cancel()

	s.Draft.Set("func main() {")
	s.Draft.Set("func main() {}")

	assert.Equal(t, []string{"func main() {", "func main() {}"}, seen)
	assert.Equal(t, "func main() {}", s.Draft.Get())
}

func TestAppStateLateSubscriberSeesCurrentValue(t *testing.T) {
	b := bus.New()
	s := NewAppState()
	s.Bind(b)

	b.SceneFocusChanged.Publish(bus.PanelInput)

	var notified []bus.ScenePanel
	cancel := s.Panel.Subscribe(func(p bus.ScenePanel) { notified = append(notified, p) })
	defer cancel()

	assert.Empty(t, notified, "no replay on subscribe")
	assert.Equal(t, bus.PanelInput, s.Panel.Get(), "current value via Get")
}
