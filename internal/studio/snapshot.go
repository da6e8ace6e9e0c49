package studio

import (
	"github.com/Faultbox/voxelforge/internal/anim"
	"github.com/Faultbox/voxelforge/internal/controller"
	"github.com/Faultbox/voxelforge/internal/generation"
	"github.com/Faultbox/voxelforge/internal/physics"
)

// GenerationState describes the most recent generation request.
type GenerationState struct {
	Status generation.Status `json:"status"`
	Prompt string            `json:"prompt,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Snapshot is a copy of the session state, safe to use after the lock is released.
type Snapshot struct {
	Phase             anim.Phase      `json:"phase"`
	Model             string          `json:"model"`
	Pending           string          `json:"pending,omitempty"`
	TransitionPending bool            `json:"transition_pending"`
	Version           uint64          `json:"version"`
	Voxels            int             `json:"voxels"`
	Offset            [3]float32      `json:"offset"`
	Generation        GenerationState `json:"generation"`
	Stats             physics.Stats   `json:"stats"`

	Particles []physics.Particle `json:"-"`
}

// Snapshot copies the current state including particles.
func (s *Studio) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.ctrl.Snapshot()
	return Snapshot{
		Phase:             cs.Phase,
		Model:             cs.Name,
		Pending:           cs.PendingName,
		TransitionPending: cs.TransitionPending,
		Version:           cs.Version,
		Voxels:            cs.Voxels.Len(),
		Offset:            cs.Offset,
		Generation: GenerationState{
			Status: s.status,
			Prompt: s.prompt,
			Error:  s.lastError,
		},
		Stats:     cs.Stats,
		Particles: append([]physics.Particle(nil), cs.Particles...),
	}
}

// View calls fn with the live controller snapshot while holding the lock.
// The renderer uses it to avoid copying particles every frame.
func (s *Studio) View(fn func(controller.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ctrl.Snapshot())
}
