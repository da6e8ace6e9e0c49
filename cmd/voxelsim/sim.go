package main

import (
	"errors"
	"fmt"

	"github.com/Faultbox/voxelforge/internal/anim"
	"github.com/Faultbox/voxelforge/internal/controller"
	"github.com/Faultbox/voxelforge/internal/physics"
	"github.com/Faultbox/voxelforge/internal/preset"
)

// maxSimTime bounds each stage so a misconfigured run cannot spin forever.
const maxSimTime = 120.0

var errStalled = errors.New("phase not reached")

// Options configures a simulation run.
type Options struct {
	Tunables      physics.Tunables
	AssembleDelay float64
	Seed          uint64
	Step          float64
}

// Event is one phase change on the simulated clock.
type Event struct {
	Time     float64
	From, To anim.Phase
}

// Report summarizes a run.
type Report struct {
	Model     string
	Voxels    int
	Step      float64
	Timeline  []Event
	Awake     []float64 // awake particles per frame while disassembling
	Settle    physics.SettleReason
	Completed uint64
	Duration  float64
}

// Simulate runs model through assemble, disassemble and reassemble.
func Simulate(opts Options, model preset.Preset) (*Report, error) {
	if opts.Step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %v", opts.Step)
	}

	engine := physics.NewEngine(opts.Tunables, physics.WithSeed(opts.Seed))
	ctrl := controller.New(engine, controller.WithAssembleDelay(opts.AssembleDelay))

	rep := &Report{Model: model.Name, Voxels: model.Voxels.Len(), Step: opts.Step}
	now := 0.0
	ctrl.OnPhaseChange(func(from, to anim.Phase) {
		rep.Timeline = append(rep.Timeline, Event{Time: now, From: from, To: to})
	})

	advanceUntil := func(target anim.Phase, sample bool) error {
		limit := now + maxSimTime
		for ctrl.Phase() != target {
			if now >= limit {
				return fmt.Errorf("%w: %s, stuck in %s", errStalled, target, ctrl.Phase())
			}
			ctrl.Advance(opts.Step)
			now += opts.Step
			if sample {
				rep.Awake = append(rep.Awake, float64(engine.Stats().Awake))
			}
		}
		return nil
	}

	ctrl.RequestModel(model.Voxels, model.Name)
	if err := advanceUntil(anim.Assembled, false); err != nil {
		return nil, err
	}

	if err := ctrl.Disassemble(); err != nil {
		return nil, err
	}
	if err := advanceUntil(anim.Collapsed, true); err != nil {
		return nil, err
	}
	rep.Settle = engine.Stats().LastSettle

	if err := ctrl.Assemble(); err != nil {
		return nil, err
	}
	if err := advanceUntil(anim.Assembled, false); err != nil {
		return nil, err
	}

	rep.Completed = engine.Stats().Completions
	rep.Duration = now
	return rep, nil
}
