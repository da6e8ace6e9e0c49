// Package api exposes a Studio over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelforge/internal/controller"
	"github.com/Faultbox/voxelforge/internal/generation"
	"github.com/Faultbox/voxelforge/internal/history"
	applog "github.com/Faultbox/voxelforge/internal/logger"
	"github.com/Faultbox/voxelforge/internal/preset"
	"github.com/Faultbox/voxelforge/internal/studio"
)

// Options configures the HTTP server.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AccessLog    bool
}

// Server serves the studio's state and accepts user intents.
type Server struct {
	app    *fiber.App
	studio *studio.Studio
}

// New builds the server and registers all routes.
func New(st *studio.Studio, opts Options) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "voxelforge",
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	s := &Server{app: app, studio: st}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/state", s.getState)
	s.app.Get("/particles", s.getParticles)

	s.app.Get("/presets", s.listPresets)
	s.app.Post("/presets/:name", s.selectPreset)

	s.app.Post("/generate", s.generate)

	s.app.Get("/history", s.listHistory)
	s.app.Post("/history/:id", s.replayHistory)
	s.app.Delete("/history/:id", s.removeHistory)
	s.app.Delete("/history", s.clearHistory)

	s.app.Post("/assemble", s.assemble)
	s.app.Post("/disassemble", s.disassemble)
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	applog.Info("api listening", zap.String("addr", addr))
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, studio.ErrBusy), errors.Is(err, controller.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, preset.ErrNotFound), errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, generation.ErrEmptyPrompt):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorHandler(c fiber.Ctx, err error) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		applog.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
