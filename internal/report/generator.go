package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog"

	"github.com/DekyCS/bagelhacks/internal/logging"
	"github.com/DekyCS/bagelhacks/internal/store"
)

// Generator produces evaluation reports through the OpenAI API.
type Generator struct {
	client oai.Client
	model  string
	log    zerolog.Logger

	now func() time.Time
}

type config struct {
	baseURL    string
	timeout    time.Duration
	maxRetries *int
}

// Option is a functional option for Generator.
type Option func(*config)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithMaxRetries overrides the SDK's retry count.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		c.maxRetries = &n
	}
}

// NewGenerator constructs a Generator.
func NewGenerator(apiKey, model string, log zerolog.Logger, opts ...Option) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("report: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("report: model must not be empty")
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}
	if cfg.maxRetries != nil {
		reqOpts = append(reqOpts, option.WithMaxRetries(*cfg.maxRetries))
	}

	return &Generator{
		client: oai.NewClient(reqOpts...),
		model:  model,
		log:    logging.Component(log, "report"),
		now:    time.Now,
	}, nil
}

// Generate evaluates the transcript and returns a validated report.
// It returns ErrNoTranscript for an empty transcript and ErrMalformed
// when the model's output does not satisfy the report contract; any
// other error is an upstream failure.
func (g *Generator) Generate(ctx context.Context, candidate store.Candidate, transcript []store.Message) (*Report, error) {
	if len(transcript) == 0 {
		return nil, ErrNoTranscript
	}

	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemPrompt),
			oai.UserMessage(buildUserPrompt(candidate, transcript)),
		},
		Temperature: param.NewOpt(0.3),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("report: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrMalformed)
	}

	var rep Report
	content := stripFences(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &rep); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	g.fillDefaults(&rep, candidate, transcript)
	if err := rep.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	g.log.Info().
		Int("overallScore", rep.OverallScore).
		Str("recommendation", rep.RecommendationStatus).
		Msg("report generated")
	return &rep, nil
}

// fillDefaults backfills the fields the application knows better than
// the model.
func (g *Generator) fillDefaults(rep *Report, candidate store.Candidate, transcript []store.Message) {
	if candidate.Name != "" {
		rep.CandidateName = candidate.Name
	}
	if candidate.Position != "" {
		rep.Position = candidate.Position
	}
	if rep.Interviewer == "" {
		rep.Interviewer = "AI Interviewer"
	}
	rep.InterviewDate = g.now().Format("January 2, 2006")

	first, last := transcript[0].Timestamp, transcript[len(transcript)-1].Timestamp
	if d := last.Sub(first); d > 0 {
		rep.Duration = fmt.Sprintf("%d minutes", int(d.Minutes())+1)
	} else if rep.Duration == "" {
		rep.Duration = "under a minute"
	}
}

// stripFences removes a markdown code fence around the model output,
// which some models add despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
