package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Faultbox/voxelforge/internal/generation"
	"github.com/Faultbox/voxelforge/internal/physics"
)

func (s *Server) getState(c fiber.Ctx) error {
	return c.JSON(s.studio.Snapshot())
}

type particlePayload struct {
	Position [3]float32 `json:"position"`
	Rotation [4]float32 `json:"rotation"` // x, y, z, w
	Scale    float32    `json:"scale"`
	Sleeping bool       `json:"sleeping"`
}

func toPayload(p physics.Particle) particlePayload {
	q := p.Orientation
	return particlePayload{
		Position: p.Position,
		Rotation: [4]float32{q.V[0], q.V[1], q.V[2], q.W},
		Scale:    p.Scale,
		Sleeping: p.Sleeping,
	}
}

func (s *Server) getParticles(c fiber.Ctx) error {
	snap := s.studio.Snapshot()
	out := make([]particlePayload, len(snap.Particles))
	for i, p := range snap.Particles {
		out[i] = toPayload(p)
	}
	return c.JSON(fiber.Map{
		"phase":     snap.Phase,
		"version":   snap.Version,
		"offset":    snap.Offset,
		"particles": out,
	})
}

func (s *Server) listPresets(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"presets": s.studio.Presets()})
}

func (s *Server) selectPreset(c fiber.Ctx) error {
	if err := s.studio.SelectPreset(c.Params("name")); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(s.studio.Snapshot())
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) generate(c fiber.Ctx) error {
	var req generateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid json")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return generation.ErrEmptyPrompt
	}

	if err := s.studio.Submit(req.Prompt); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(s.studio.Snapshot().Generation)
}

type historyPayload struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	Name      string `json:"name"`
	Voxels    int    `json:"voxels"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) listHistory(c fiber.Ctx) error {
	entries, err := s.studio.History(c.Context())
	if err != nil {
		return err
	}

	out := make([]historyPayload, len(entries))
	for i, e := range entries {
		out[i] = historyPayload{
			ID:        e.ID,
			Prompt:    e.Prompt,
			Name:      e.Name,
			Voxels:    len(e.Voxels),
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return c.JSON(fiber.Map{"history": out})
}

func (s *Server) replayHistory(c fiber.Ctx) error {
	if err := s.studio.SelectHistory(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(s.studio.Snapshot())
}

func (s *Server) removeHistory(c fiber.Ctx) error {
	if err := s.studio.RemoveHistory(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (s *Server) clearHistory(c fiber.Ctx) error {
	if err := s.studio.ClearHistory(c.Context()); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (s *Server) assemble(c fiber.Ctx) error {
	if err := s.studio.Assemble(); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(s.studio.Snapshot())
}

func (s *Server) disassemble(c fiber.Ctx) error {
	if err := s.studio.Disassemble(); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(s.studio.Snapshot())
}
