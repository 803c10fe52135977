// Package server exposes the HTTP API the interview frontend talks
// to: room token minting, report generation, and health.
package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/DekyCS/bagelhacks/internal/logging"
	"github.com/DekyCS/bagelhacks/internal/report"
	"github.com/DekyCS/bagelhacks/internal/session"
	"github.com/DekyCS/bagelhacks/internal/store"
)

// Server wires the HTTP handlers to their backing services.
type Server struct {
	app     *fiber.App
	tokens  *session.TokenService
	history *store.History
	kv      *store.KV
	log     zerolog.Logger

	// reports can be swapped at runtime when the report config
	// changes on disk.
	reportsMu sync.RWMutex
	reports   *report.Generator
}

// Options carries the collaborators a Server needs.
type Options struct {
	Tokens       *session.TokenService
	Reports      *report.Generator
	History      *store.History
	KV           *store.KV
	AllowOrigins []string
}

// New builds the fiber app and registers all routes.
func New(opts Options, log zerolog.Logger) *Server {
	s := &Server{
		tokens:  opts.Tokens,
		reports: opts.Reports,
		history: opts.History,
		kv:      opts.KV,
		log:     logging.Component(log, "server"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "bagelhacks",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	origins := "*"
	if len(opts.AllowOrigins) > 0 {
		origins = strings.Join(opts.AllowOrigins, ",")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	app.Get("/healthz", s.handleHealth)
	app.Get("/getToken", s.handleGetToken)
	app.Post("/report", s.handleReport)

	s.app = app
	return s
}

// Listen serves on host:port until shutdown.
func (s *Server) Listen(host string, port int) error {
	return s.app.Listen(fmt.Sprintf("%s:%d", host, port))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// SetReports replaces the report generator. In-flight requests finish
// on the generator they started with.
func (s *Server) SetReports(g *report.Generator) {
	s.reportsMu.Lock()
	s.reports = g
	s.reportsMu.Unlock()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleGetToken mints a fresh room credential for the requesting
// participant.
func (s *Server) handleGetToken(c *fiber.Ctx) error {
	tok, err := s.tokens.Mint(c.Query("name"), c.Query("room"))
	if err != nil {
		s.log.Error().Err(err).Msg("token minting failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to mint token",
		})
	}
	return c.JSON(tok)
}

type reportRequest struct {
	CandidateName string `json:"candidateName"`
	Company       string `json:"company"`
	Position      string `json:"position"`
}

// handleReport generates the evaluation report from the persisted
// transcript. Malformed model output maps to 422, a missing
// transcript to 409 and upstream failures to 502.
func (s *Server) handleReport(c *fiber.Ctx) error {
	var req reportRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	candidate := store.Candidate{
		Name:     req.CandidateName,
		Company:  req.Company,
		Position: req.Position,
	}
	if candidate.Name == "" {
		// Fall back to the profile captured at session start.
		var stored store.Candidate
		if err := s.kv.Get(store.KeyCandidate, &stored); err == nil {
			candidate = stored
		}
	}

	s.reportsMu.RLock()
	reports := s.reports
	s.reportsMu.RUnlock()

	rep, err := reports.Generate(c.Context(), candidate, s.history.Messages())
	switch {
	case errors.Is(err, report.ErrNoTranscript):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "no interview transcript recorded yet",
		})
	case errors.Is(err, report.ErrMalformed):
		s.log.Error().Err(err).Msg("model returned an invalid report")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "model returned an invalid report",
		})
	case err != nil:
		s.log.Error().Err(err).Msg("report generation failed upstream")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "report generation failed",
		})
	}
	return c.JSON(rep)
}
