package bus

import (
	"testing"
	"time"

	"github.com/DekyCS/bagelhacks/internal/viseme"
)

func TestTopic_PublishNotifiesInRegistrationOrder(t *testing.T) {
	var topic Topic[int]
	var order []string

	topic.Subscribe(func(int) { order = append(order, "first") })
	topic.Subscribe(func(int) { order = append(order, "second") })
	topic.Subscribe(func(int) { order = append(order, "third") })

	topic.Publish(1)

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("notification %d = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestTopic_CancelledSubscriberNotInvoked(t *testing.T) {
	var topic Topic[string]
	called := false

	sub := topic.Subscribe(func(string) { called = true })
	sub.Cancel()
	topic.Publish("hello")

	if called {
		t.Error("cancelled subscriber was invoked")
	}
}

func TestTopic_CancelDuringNotification(t *testing.T) {
	var topic Topic[int]
	var secondCalled bool

	var second *Subscription
	topic.Subscribe(func(int) { second.Cancel() })
	second = topic.Subscribe(func(int) { secondCalled = true })

	topic.Publish(1)
	if secondCalled {
		t.Error("subscriber cancelled mid-publish still received the event")
	}

	// A fresh registration picks up the next publish.
	var again bool
	topic.Subscribe(func(int) { again = true })
	topic.Publish(2)
	if !again {
		t.Error("new subscriber missed the next publish")
	}
}

func TestTopic_PublishIsSynchronous(t *testing.T) {
	var topic Topic[int]
	delivered := 0
	topic.Subscribe(func(int) { delivered++ })
	topic.Subscribe(func(int) { delivered++ })

	topic.Publish(42)
	if delivered != 2 {
		t.Errorf("publish returned before all callbacks ran: %d of 2", delivered)
	}
}

func TestTopic_NoReplayForLateSubscribers(t *testing.T) {
	var topic Topic[int]
	topic.Publish(1)

	got := 0
	topic.Subscribe(func(v int) { got = v })
	if got != 0 {
		t.Error("late subscriber received an earlier publish")
	}
}

func TestBus_TypedSignals(t *testing.T) {
	b := New()

	var gotState AnimationState
	b.AnimationStateChanged.Subscribe(func(s AnimationState) { gotState = s })
	b.AnimationStateChanged.Publish(StateTalking)
	if gotState != StateTalking {
		t.Errorf("state = %s, want %s", gotState, StateTalking)
	}

	var gotUtterance Utterance
	b.UtteranceReady.Subscribe(func(u Utterance) { gotUtterance = u })
	anchor := time.Now()
	b.UtteranceReady.Publish(Utterance{
		Text:    "hello",
		Visemes: viseme.Sequence{{OffsetMS: 0, Shape: viseme.AA}, {OffsetMS: 100, Shape: viseme.Sil}},
		Anchor:  anchor,
	})
	if gotUtterance.Text != "hello" || len(gotUtterance.Visemes) != 2 || !gotUtterance.Anchor.Equal(anchor) {
		t.Errorf("unexpected utterance payload: %+v", gotUtterance)
	}

	done := false
	b.InterviewComplete.Subscribe(func(struct{}) { done = true })
	b.InterviewComplete.Publish(struct{}{})
	if !done {
		t.Error("interview-complete signal not delivered")
	}
}
