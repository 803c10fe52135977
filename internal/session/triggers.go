package session

import (
	"strings"

	"github.com/DekyCS/bagelhacks/internal/bus"
)

// Triggers watches finalized agent utterances for interview flow cues
// and raises the matching bus signals. Matching is a case-insensitive
// substring check so minor punctuation or casing from the agent does
// not break detection.
type Triggers struct {
	bus       *bus.Bus
	technical []string
	closing   []string

	complete bool
}

// NewTriggers builds a Triggers for the given phrase lists.
func NewTriggers(b *bus.Bus, technical, closing []string) *Triggers {
	return &Triggers{
		bus:       b,
		technical: lowered(technical),
		closing:   lowered(closing),
	}
}

// Scan inspects one finalized agent utterance. A technical question
// phrase moves scene focus to the code input panel; a closing phrase
// completes the interview. Completion fires at most once.
func (t *Triggers) Scan(text string) {
	lower := strings.ToLower(text)

	for _, phrase := range t.technical {
		if strings.Contains(lower, phrase) {
			t.bus.SceneFocusChanged.Publish(bus.PanelInput)
			break
		}
	}

	if t.complete {
		return
	}
	for _, phrase := range t.closing {
		if strings.Contains(lower, phrase) {
			t.complete = true
			t.bus.InterviewComplete.Publish(struct{}{})
			return
		}
	}
}

func lowered(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
