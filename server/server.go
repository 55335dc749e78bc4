// Package server provides the TalkToDo web chat surface. Every browser session
// gets its own conversation; nothing is shared between sessions and nothing
// outlives the process.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"github.com/papercomputeco/talktodo/pkg/chat"
	"github.com/papercomputeco/talktodo/pkg/conversation"
	"github.com/papercomputeco/talktodo/pkg/llm"
)

const (
	pageTitle         = "TalkToDo"
	sessionCookie     = "talktodo_session"
	defaultSweepEvery = time.Minute
)

//go:embed templates/*.html
var templates embed.FS

// Server serves the chat page and its JSON API.
type Server struct {
	config   Config
	chat     *chat.Service
	registry *conversation.Registry
	sessions *session.Store
	page     *template.Template
	logger   *zap.Logger
	app      *fiber.App

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a Server that answers submissions with completer.
func New(config Config, completer chat.Completer, logger *zap.Logger) (*Server, error) {
	page, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	if config.SweepInterval <= 0 {
		config.SweepInterval = defaultSweepEvery
	}

	s := &Server{
		config:   config,
		chat:     chat.NewService(completer, logger),
		registry: conversation.NewRegistry(config.SessionTTL),
		sessions: session.New(session.Config{
			Expiration:     sessionExpiration(config.SessionTTL),
			KeyLookup:      "cookie:" + sessionCookie,
			CookieHTTPOnly: true,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
		}),
		page:   page,
		logger: logger,
		stop:   make(chan struct{}),
	}

	s.app = fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(fiberrecover.New())
	s.app.Use(s.logRequests)

	// Chat page
	s.app.Get("/", s.handleIndex)
	s.app.Post("/chat", s.handleChatForm)

	// JSON API
	s.app.Get("/api/history", s.handleHistory)
	s.app.Post("/api/messages", s.handlePostMessage)

	// Health check
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return s, nil
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting chat server",
		zap.String("listen", s.config.ListenAddr),
		zap.String("model", s.config.Model),
	)

	go s.sweepSessions()
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the server on an existing listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting chat server",
		zap.String("listen", listener.Addr().String()),
		zap.String("model", s.config.Model),
	)

	go s.sweepSessions()
	return s.app.Listener(listener)
}

// Shutdown stops the server. In-flight requests are allowed to finish.
func (s *Server) Shutdown() error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return s.app.Shutdown()
}

// conversation returns the store of the requesting browser session, starting
// a new session when the request carries none.
func (s *Server) conversation(c *fiber.Ctx) (*conversation.Store, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return nil, fmt.Errorf("could not load session: %w", err)
	}

	// The session must not be used after Save.
	id := sess.ID()
	if err := sess.Save(); err != nil {
		return nil, fmt.Errorf("could not save session: %w", err)
	}

	return s.registry.Get(id), nil
}

func (s *Server) sweepSessions() {
	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.registry.Sweep(); n > 0 {
				s.logger.Debug("discarded idle sessions",
					zap.Int("count", n),
					zap.Int("live", s.registry.Len()),
				)
			}
		}
	}
}

// logRequests logs every request once it has been handled.
func (s *Server) logRequests(c *fiber.Ctx) error {
	startTime := time.Now()
	err := c.Next()

	s.logger.Debug("handled request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("duration", time.Since(startTime)),
	)

	return err
}

// handleError renders unhandled errors as an llm.ErrorResponse.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal error"
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
		message = fe.Message
	} else {
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(llm.ErrorResponse{Error: message})
}

// sessionExpiration keeps the session cookie alive at least as long as the
// conversation it points at.
func sessionExpiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 365 * 24 * time.Hour
	}
	return ttl
}
