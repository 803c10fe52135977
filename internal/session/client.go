package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/DekyCS/bagelhacks/internal/bus"
	"github.com/DekyCS/bagelhacks/internal/logging"
	"github.com/DekyCS/bagelhacks/internal/store"
	"github.com/DekyCS/bagelhacks/internal/viseme"
)

// agentEvent is one message from the agent data channel. Two kinds
// arrive on the same socket: agent state changes and transcription
// segments for either participant.
type agentEvent struct {
	Type  string `json:"type"` // "agent_state" or "transcription"
	State string `json:"state,omitempty"`

	ID    string `json:"id,omitempty"`
	Role  string `json:"role,omitempty"`
	Text  string `json:"text,omitempty"`
	Final bool   `json:"final,omitempty"`
}

// Client connects to the interview agent's event socket and fans its
// messages out: state changes drive the avatar, transcription segments
// land in history, and finalized agent speech produces an utterance
// with its viseme timeline.
type Client struct {
	url            string
	log            zerolog.Logger
	bus            *bus.Bus
	history        *store.History
	gen            viseme.Strategy
	triggers       *Triggers
	reconnectDelay time.Duration
	maxReconnects  int

	conn   *websocket.Conn
	connMu sync.Mutex

	// Connected reflects the socket state for anything that wants to
	// show or log connectivity.
	Connected *store.Observable[bool]

	greeted    bool
	speakState bus.AnimationState
	anchor     time.Time

	now func() time.Time
}

// ClientOptions carries the collaborators a Client needs.
type ClientOptions struct {
	URL            string
	Bus            *bus.Bus
	History        *store.History
	Generator      viseme.Strategy
	Triggers       *Triggers
	ReconnectDelay time.Duration
	MaxReconnects  int
}

// NewClient builds a Client. It does not connect; call Run.
func NewClient(opts ClientOptions, log zerolog.Logger) *Client {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 5 * time.Second
	}
	return &Client{
		url:            opts.URL,
		log:            logging.Component(log, "session"),
		bus:            opts.Bus,
		history:        opts.History,
		gen:            opts.Generator,
		triggers:       opts.Triggers,
		reconnectDelay: opts.ReconnectDelay,
		maxReconnects:  opts.MaxReconnects,
		Connected:      store.NewObservable(false),
		now:            time.Now,
	}
}

// Run connects and processes events until ctx is cancelled or the
// reconnect budget is spent.
func (c *Client) Run(ctx context.Context) error {
	attempts := 0
	for {
		if err := c.connect(ctx); err != nil {
			attempts++
			if c.maxReconnects > 0 && attempts > c.maxReconnects {
				return fmt.Errorf("giving up after %d connection attempts: %w", attempts, err)
			}
			c.log.Warn().Err(err).Int("attempt", attempts).Msg("connection failed, retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.reconnectDelay):
			}
			continue
		}
		attempts = 0

		// ReadMessage only unblocks when the socket closes, so tear it
		// down as soon as the context ends.
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				c.closeConn()
			case <-done:
			}
		}()
		err := c.readLoop()
		close(done)
		c.closeConn()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Err(err).Msg("event socket dropped, reconnecting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnectDelay):
		}
	}
}

func (c *Client) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			c.log.Error().Int("status", resp.StatusCode).Err(err).Msg("event socket dial failed")
		}
		return fmt.Errorf("websocket dial: %w", err)
	}
	c.conn = conn
	c.Connected.Set(true)
	c.log.Info().Str("url", c.url).Msg("connected to agent event socket")
	return nil
}

func (c *Client) closeConn() {
	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.connMu.Unlock()
	if conn != nil {
		conn.Close()
		c.Connected.Set(false)
	}
}

func (c *Client) readLoop() error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var ev agentEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			c.log.Warn().Err(err).Msg("dropping malformed agent event")
			continue
		}
		c.Handle(ev)
	}
}

// Handle dispatches one agent event. Exported so event sources other
// than the socket (replays, tests) can feed the same pipeline.
func (c *Client) Handle(ev agentEvent) {
	switch ev.Type {
	case "agent_state":
		c.handleState(ev.State)
	case "transcription":
		c.handleSegment(ev)
	default:
		c.log.Debug().Str("type", ev.Type).Msg("ignoring unknown agent event")
	}
}

// handleState maps the agent's lifecycle state onto an animation
// state. Both "speaking" and "streaming" mean the agent is producing
// audio. The first time it speaks it greets; afterwards speech is
// regular talking.
func (c *Client) handleState(state string) {
	var next bus.AnimationState
	switch state {
	case "speaking", "streaming":
		if c.anchor.IsZero() {
			// Entering speech: utterances that follow are timed from
			// this moment. A streaming event mid-utterance must not
			// move the anchor or change the pose.
			if c.greeted {
				c.speakState = bus.StateTalking
			} else {
				c.speakState = bus.StateGreeting
				c.greeted = true
			}
			c.anchor = c.now()
		}
		next = c.speakState
	case "thinking":
		next = bus.StateThinking
		c.anchor = time.Time{}
	default:
		next = bus.StateIdle
		c.anchor = time.Time{}
	}
	c.log.Debug().Str("agent", state).Str("animation", string(next)).Msg("agent state")
	c.bus.AnimationStateChanged.Publish(next)
}

func (c *Client) handleSegment(ev agentEvent) {
	role := store.RoleUser
	if ev.Role == string(store.RoleAgent) {
		role = store.RoleAgent
	}

	if err := c.history.Upsert(ev.ID, role, ev.Text); err != nil {
		c.log.Error().Err(err).Str("id", ev.ID).Msg("failed to persist transcript segment")
	}

	if role != store.RoleAgent || !ev.Final {
		return
	}

	anchor := c.anchor
	if anchor.IsZero() {
		anchor = c.now()
	}
	c.bus.UtteranceReady.Publish(bus.Utterance{
		Text:    ev.Text,
		Visemes: c.gen.Generate(ev.Text),
		Anchor:  anchor,
	})
	if c.triggers != nil {
		c.triggers.Scan(ev.Text)
	}
}
