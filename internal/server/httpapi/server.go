// Package httpapi serves the authentication API consumed by the session
// client: POST /auth/register, POST /auth/login, GET /auth/me,
// GET /auth/admin and POST /auth/logout.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authsession/internal/common"
	"github.com/dmitrijs2005/authsession/internal/logging"
	"github.com/dmitrijs2005/authsession/internal/server/users"
	"github.com/gofiber/fiber/v2"
)

type Server struct {
	address string
	app     *fiber.App
	users   *users.Service
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, us *users.Service) *Server {
	s := &Server{
		address: address,
		users:   us,
		logger:  l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "authstub",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(s.requestLogger)

	g := s.app.Group("/auth")
	g.Post("/register", s.register)
	g.Post("/login", s.login)

	g.Get("/me", s.requireAuth, s.me)
	g.Get("/admin", s.requireAuth, s.admin)
	g.Post("/logout", s.requireAuth, s.logout)

	return s
}

// App exposes the fiber application, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		// Let the error handler set the status before it is logged.
		if herr := s.errorHandler(c, err); herr != nil {
			return herr
		}
	}
	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"request_id", c.Get(common.RequestIDHeader),
		"duration", time.Since(start),
	)
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = s.app.ShutdownWithContext(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
	return s.app.Listen(s.address)
}
