package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DekyCS/bagelhacks/internal/config"
	"github.com/DekyCS/bagelhacks/internal/report"
	"github.com/DekyCS/bagelhacks/internal/server"
	"github.com/DekyCS/bagelhacks/internal/session"
	"github.com/DekyCS/bagelhacks/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newReportGenerator builds a report generator from config, falling
// back to the OPENAI_API_KEY environment variable for the key.
func newReportGenerator(rc config.ReportConfig) (*report.Generator, error) {
	apiKey := rc.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	opts := []report.Option{report.WithTimeout(rc.Timeout)}
	if rc.BaseURL != "" {
		opts = append(opts, report.WithBaseURL(rc.BaseURL))
	}
	return report.NewGenerator(apiKey, rc.Model, log, opts...)
}

func runServe(cmd *cobra.Command, args []string) error {
	kv, err := store.OpenKV(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	history, err := store.NewHistory(kv)
	if err != nil {
		return err
	}

	tokens := session.NewTokenService(
		cfg.Session.LiveKitURL, cfg.Session.APIKey, cfg.Session.APISecret,
		cfg.Session.TokenTTL, log,
	)

	reports, err := newReportGenerator(cfg.Report)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Tokens:       tokens,
		Reports:      reports,
		History:      history,
		KV:           kv,
		AllowOrigins: cfg.Server.AllowOrigins,
	}, log)

	// Pick up report knob edits without a restart. Host, port and
	// storage changes still need one.
	reportCfg := cfg.Report
	err = config.Watch(flagConfigDir, func(next *config.Config) {
		if next.Report == reportCfg {
			return
		}
		gen, err := newReportGenerator(next.Report)
		if err != nil {
			log.Error().Err(err).Msg("ignoring report config change")
			return
		}
		srv.SetReports(gen)
		reportCfg = next.Report
		log.Info().Str("model", reportCfg.Model).Msg("report config reloaded")
	})
	if err != nil {
		log.Warn().Err(err).Msg("config file watching disabled")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Server.Host, cfg.Server.Port)
	}()
	log.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("api server listening")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		return srv.Shutdown()
	}
}
