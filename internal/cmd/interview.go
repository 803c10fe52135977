package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DekyCS/bagelhacks/internal/avatar"
	"github.com/DekyCS/bagelhacks/internal/bus"
	"github.com/DekyCS/bagelhacks/internal/session"
	"github.com/DekyCS/bagelhacks/internal/store"
	"github.com/DekyCS/bagelhacks/internal/viseme"
)

var flagAgentURL string

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run the realtime interview pipeline",
	Long: `interview connects to the interview agent's event socket and runs the
full session pipeline: transcript capture, viseme generation and the
avatar animation driver. It exits when the agent closes the interview.`,
	RunE: runInterview,
}

func init() {
	rootCmd.AddCommand(interviewCmd)
	interviewCmd.Flags().StringVar(&flagAgentURL, "agent-url", "ws://localhost:8765/events", "agent event socket URL")
}

func runInterview(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kv, err := store.OpenKV(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	history, err := store.NewHistory(kv)
	if err != nil {
		return err
	}
	// A new interview starts from a clean transcript.
	if err := history.Clear(); err != nil {
		return err
	}
	candidate := store.Candidate{
		Name:     cfg.Interview.CandidateName,
		Company:  cfg.Interview.Company,
		Position: cfg.Interview.Position,
	}
	if err := kv.Put(store.KeyCandidate, candidate); err != nil {
		return err
	}

	b := bus.New()

	model, err := loadAvatarModel()
	if err != nil {
		return err
	}
	driver := avatar.New(model, avatarConfig(), log)
	driver.Attach(b)
	defer driver.Detach()

	go runAnimationLoop(ctx, driver)

	state := store.NewAppState()
	state.Bind(b)
	state.Panel.Subscribe(func(p bus.ScenePanel) {
		log.Info().Str("panel", string(p)).Msg("scene focus changed")
	})
	b.InterviewComplete.Subscribe(func(struct{}) {
		log.Info().Str("panel", string(state.Panel.Get())).Msg("interview complete")
		cancel()
	})

	client := session.NewClient(session.ClientOptions{
		URL:     flagAgentURL,
		Bus:     b,
		History: history,
		Generator: viseme.NewGenerator(viseme.GeneratorConfig{
			CharDurationMS: cfg.Speech.CharDurationMS,
			WordPauseMS:    cfg.Speech.WordPauseMS,
		}),
		Triggers: session.NewTriggers(b,
			cfg.Interview.TechnicalPhrases, cfg.Interview.ClosingPhrases),
		ReconnectDelay: cfg.Session.ReconnectDelay,
		MaxReconnects:  cfg.Session.MaxReconnects,
	}, log)

	client.Connected.Subscribe(func(up bool) {
		log.Info().Bool("connected", up).Msg("agent socket")
	})

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info().Int("messages", history.Len()).Msg("session ended")
	return nil
}

func loadAvatarModel() (*avatar.Model, error) {
	if cfg.Avatar.ModelPath == "" {
		return avatar.DefaultModel(), nil
	}
	model, err := avatar.LoadModel(cfg.Avatar.ModelPath)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", cfg.Avatar.ModelPath).Int("morphs", model.MorphCount()).Msg("avatar model loaded")
	return model, nil
}

func avatarConfig() avatar.Config {
	ac := avatar.DefaultConfig()
	if cfg.Avatar.FadeDuration > 0 {
		ac.FadeDuration = cfg.Avatar.FadeDuration
	}
	if cfg.Avatar.StabilizeDelay > 0 {
		ac.StabilizeDelay = cfg.Avatar.StabilizeDelay
	}
	if cfg.Avatar.BlinkMinGap > 0 {
		ac.BlinkMinGap = cfg.Avatar.BlinkMinGap
	}
	if cfg.Avatar.BlinkMaxGap > 0 {
		ac.BlinkMaxGap = cfg.Avatar.BlinkMaxGap
	}
	if cfg.Avatar.BlinkHold > 0 {
		ac.BlinkHold = cfg.Avatar.BlinkHold
	}
	return ac
}

// runAnimationLoop advances the driver at roughly 30 fps. The driver
// owns every morph weight; nothing else mutates them.
func runAnimationLoop(ctx context.Context, driver *avatar.Driver) {
	const frame = 33 * time.Millisecond
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			driver.Update(now.Sub(last))
			last = now
		}
	}
}
