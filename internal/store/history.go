package store

import (
	"sync"
	"time"
)

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is one chat transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Candidate is the interviewee metadata captured before the session.
type Candidate struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Position string `json:"position"`
}

// History accumulates the interview transcript as transcription segments
// arrive and persists it after every update so the report step can read
// it back later. Transcription services re-emit a segment as it grows,
// so updates are idempotent: a message with a known (id, role) pair is
// replaced in place, never duplicated.
type History struct {
	mu       sync.Mutex
	messages []Message
	kv       *KV
	now      func() time.Time
}

// NewHistory creates a History persisted through kv. Any previously
// persisted transcript is loaded; a missing one starts empty.
func NewHistory(kv *KV) (*History, error) {
	h := &History{kv: kv, now: time.Now}
	var persisted []Message
	switch err := kv.Get(KeyTranscript, &persisted); err {
	case nil:
		h.messages = persisted
	case ErrNotFound:
	default:
		return nil, err
	}
	return h, nil
}

// Upsert records a transcript segment. Last write wins per (id, role);
// a new id appends. The transcript is persisted before returning.
func (h *History) Upsert(id string, role Role, content string) error {
	h.mu.Lock()

	updated := false
	for i := range h.messages {
		if h.messages[i].ID == id && h.messages[i].Role == role {
			h.messages[i].Content = content
			h.messages[i].Timestamp = h.now()
			updated = true
			break
		}
	}
	if !updated {
		h.messages = append(h.messages, Message{
			ID:        id,
			Role:      role,
			Content:   content,
			Timestamp: h.now(),
		})
	}

	snapshot := make([]Message, len(h.messages))
	copy(snapshot, h.messages)
	h.mu.Unlock()

	return h.kv.Put(KeyTranscript, snapshot)
}

// Messages returns a copy of the transcript in arrival order.
func (h *History) Messages() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of transcript entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

// Clear drops the transcript, in memory and on disk.
func (h *History) Clear() error {
	h.mu.Lock()
	h.messages = nil
	h.mu.Unlock()
	return h.kv.Delete(KeyTranscript)
}
