// Package controller sequences model swaps and animation phases.
//
// The Controller is the single writer of the animation state. It decides
// whether a requested model is committed immediately or queued behind a
// disassembly, and reacts to the physics engine's completion signal.
// It is not safe for concurrent use.
package controller

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelforge/internal/anim"
	"github.com/Faultbox/voxelforge/internal/logger"
	"github.com/Faultbox/voxelforge/internal/physics"
	"github.com/Faultbox/voxelforge/pkg/voxel"
)

// DefaultAssembleDelay is the pause between a model reset and its scale-in,
// long enough for the hidden pose to be drawn once.
const DefaultAssembleDelay = 0.05

// ErrInvalidTransition is returned when a command does not apply to the current phase.
var ErrInvalidTransition = errors.New("invalid phase transition")

// PhaseObserver is notified after every phase change.
type PhaseObserver func(from, to anim.Phase)

// Option configures a Controller.
type Option func(*Controller)

// WithAssembleDelay sets the Hidden -> Assembling delay in seconds.
func WithAssembleDelay(seconds float64) Option {
	return func(c *Controller) {
		c.delay = seconds
	}
}

// Controller owns the animation state and drives the physics engine.
type Controller struct {
	state  anim.State
	engine *physics.Engine
	sched  *anim.Scheduler
	delay  float64

	assembleTask anim.TaskID
	observers    []PhaseObserver
}

// New creates a controller driving engine. The controller takes over the
// engine's completion signal.
func New(engine *physics.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		sched:  anim.NewScheduler(),
		delay:  DefaultAssembleDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	engine.OnComplete(c.OnPhysicsCompletion)
	engine.Sync(&c.state)
	return c
}

// OnPhaseChange registers an observer for phase changes.
func (c *Controller) OnPhaseChange(fn PhaseObserver) {
	c.observers = append(c.observers, fn)
}

// Phase returns the current phase.
func (c *Controller) Phase() anim.Phase {
	return c.state.Phase
}

// State returns a copy of the animation state.
func (c *Controller) State() anim.State {
	return c.state
}

// Engine returns the driven physics engine.
func (c *Controller) Engine() *physics.Engine {
	return c.engine
}

// RequestModel asks for set to become the active model.
//
// While assembled the current model is blown apart first and set waits as the
// pending model. While already disassembling the pending model is replaced and
// the running explosion is left alone. In every other phase the model is
// committed immediately. An identical model is not short-circuited.
func (c *Controller) RequestModel(set voxel.Set, name string) {
	switch c.state.Phase {
	case anim.Assembled:
		c.state.Pending = &anim.Pending{Voxels: set, Name: name}
		c.state.TransitionPending = true
		c.mustSetPhase(anim.Disassembling)
	case anim.Disassembling:
		if c.state.Pending != nil {
			logger.Debug("pending model replaced",
				zap.String("dropped", c.state.Pending.Name),
				zap.String("pending", name),
			)
		}
		c.state.Pending = &anim.Pending{Voxels: set, Name: name}
		c.state.TransitionPending = true
	default:
		c.commit(set, name)
	}
}

// Assemble commits a pending model if there is one, otherwise reassembles a
// collapsed model in place.
func (c *Controller) Assemble() error {
	if p := c.state.Pending; p != nil {
		c.RequestModel(p.Voxels, p.Name)
		return nil
	}
	if c.state.Phase != anim.Collapsed {
		return fmt.Errorf("%w: assemble from %s", ErrInvalidTransition, c.state.Phase)
	}
	return c.setPhase(anim.Assembling)
}

// Disassemble blows the assembled model apart. During a swap's explosion it
// cancels the swap instead: the queued model stays pending and the pile stays
// on the floor.
func (c *Controller) Disassemble() error {
	if c.state.Phase == anim.Disassembling && c.state.TransitionPending {
		c.state.TransitionPending = false
		logger.Debug("queued swap cancelled", zap.String("pending", c.state.PendingName()))
		return nil
	}
	if c.state.Phase != anim.Assembled {
		return fmt.Errorf("%w: disassemble from %s", ErrInvalidTransition, c.state.Phase)
	}
	return c.setPhase(anim.Disassembling)
}

// OnPhysicsCompletion handles the engine's completion signal for phase.
// Signals for a phase that is no longer active are ignored.
func (c *Controller) OnPhysicsCompletion(phase anim.Phase) {
	if phase != c.state.Phase {
		logger.Debug("stale completion ignored",
			zap.Stringer("signal", phase),
			zap.Stringer("phase", c.state.Phase),
		)
		return
	}

	switch phase {
	case anim.Assembling:
		c.state.TransitionPending = false
		c.mustSetPhase(anim.Assembled)

	case anim.Disassembling:
		if st := c.engine.Stats(); st.LastSettle == physics.SettleTimeout {
			logger.Warn("disassembly forced by safety timer",
				zap.String("model", c.state.Name),
				zap.Int("awake", st.Awake),
			)
		}
		if c.state.TransitionPending && c.state.Pending != nil {
			p := c.state.Pending
			c.state.TransitionPending = false
			c.commit(p.Voxels, p.Name)
			return
		}
		c.state.TransitionPending = false
		c.mustSetPhase(anim.Collapsed)
	}
}

// Advance runs deferred phase changes and steps the engine by dt seconds.
func (c *Controller) Advance(dt float64) {
	c.sched.Advance(dt)
	c.engine.Advance(&c.state, dt)
}

// Snapshot is what the render layer reads each frame.
type Snapshot struct {
	Phase             anim.Phase
	Name              string
	PendingName       string
	TransitionPending bool
	Version           uint64
	Voxels            voxel.Set
	Offset            mgl32.Vec3

	// Particles aliases the live store; it is valid until the next Advance.
	Particles []physics.Particle

	Stats physics.Stats
}

// Snapshot returns the current render view.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Phase:             c.state.Phase,
		Name:              c.state.Name,
		PendingName:       c.state.PendingName(),
		TransitionPending: c.state.TransitionPending,
		Version:           c.state.Version,
		Voxels:            c.state.Active,
		Offset:            c.state.Active.Offset(),
		Particles:         c.engine.Store().Particles(),
		Stats:             c.engine.Stats(),
	}
}

func (c *Controller) commit(set voxel.Set, name string) {
	from := c.state.Phase
	if c.assembleTask != 0 {
		c.sched.Cancel(c.assembleTask)
		c.assembleTask = 0
	}

	c.state.Commit(set, name)
	c.engine.Sync(&c.state)

	logger.Info("model committed",
		zap.String("model", name),
		zap.Int("voxels", set.Len()),
		zap.Uint64("version", c.state.Version),
	)
	c.notify(from, anim.Hidden)

	version := c.state.Version
	c.assembleTask = c.sched.After(c.delay, func() {
		c.assembleTask = 0
		if c.state.Phase != anim.Hidden || c.state.Version != version {
			return
		}
		c.mustSetPhase(anim.Assembling)
	})
}

func (c *Controller) setPhase(to anim.Phase) error {
	from := c.state.Phase
	if !anim.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	c.state.Phase = to
	c.notify(from, to)
	return nil
}

// mustSetPhase is for edges the controller itself guarantees.
func (c *Controller) mustSetPhase(to anim.Phase) {
	if err := c.setPhase(to); err != nil {
		logger.Error("phase change rejected", zap.Error(err))
	}
}

func (c *Controller) notify(from, to anim.Phase) {
	logger.Debug("phase changed",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.String("model", c.state.Name),
	)
	for _, fn := range c.observers {
		fn(from, to)
	}
}
