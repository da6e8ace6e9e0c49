// Package studio is the session boundary around the animation core.
//
// A Studio serializes every user intent, the per-frame update and snapshot
// reads behind one mutex, so the single-threaded controller only ever sees
// one caller at a time. Generation runs on a one-worker pool and its result
// is applied on the next Update.
package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelforge/internal/anim"
	"github.com/Faultbox/voxelforge/internal/controller"
	"github.com/Faultbox/voxelforge/internal/generation"
	"github.com/Faultbox/voxelforge/internal/history"
	"github.com/Faultbox/voxelforge/internal/logger"
	"github.com/Faultbox/voxelforge/internal/preset"
	"github.com/Faultbox/voxelforge/pkg/voxel"
)

// ErrBusy is returned by Submit while a generation is outstanding.
var ErrBusy = errors.New("generation already in progress")

type result struct {
	prompt string
	entry  history.Entry
	set    voxel.Set
	err    error
}

// Studio owns the controller and its external collaborators.
type Studio struct {
	mu sync.Mutex

	ctrl    *controller.Controller
	gateway generation.Gateway
	history history.Log
	presets *preset.Catalog

	pool    pond.Pool
	results chan result
	ctx     context.Context
	cancel  context.CancelFunc

	busy      bool
	status    generation.Status
	prompt    string
	lastError string

	historyCursor int
}

// New creates a studio. The studio takes ownership of hist and closes it on Close.
func New(ctrl *controller.Controller, gateway generation.Gateway, hist history.Log, presets *preset.Catalog) *Studio {
	ctx, cancel := context.WithCancel(context.Background())
	return &Studio{
		ctrl:    ctrl,
		gateway: gateway,
		history: hist,
		presets: presets,
		pool:    pond.NewPool(1),
		results: make(chan result, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// OnPhaseChange registers an observer on the controller. Observers run with
// the studio locked and must not call back into it.
func (s *Studio) OnPhaseChange(fn controller.PhaseObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.OnPhaseChange(fn)
}

// Update applies a finished generation, if any, then advances the core by dt seconds.
func (s *Studio) Update(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case r := <-s.results:
		s.apply(r)
	default:
	}
	s.ctrl.Advance(dt)
}

// Submit starts generating a model for prompt.
func (s *Studio) Submit(prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	s.busy = true
	s.status = generation.StatusGenerating
	s.prompt = prompt
	s.lastError = ""

	logger.Info("generation started", zap.String("prompt", prompt))
	s.pool.Submit(func() {
		s.results <- s.generate(prompt)
	})
	return nil
}

// generate runs on the pool worker. A panicking gateway is reported as a
// failed generation so the studio never stays busy.
func (s *Studio) generate(prompt string) (r result) {
	defer func() {
		if p := recover(); p != nil {
			r = result{prompt: prompt, err: fmt.Errorf("%w: gateway panic: %v", generation.ErrUpstream, p)}
		}
	}()

	ds, err := s.gateway.Generate(s.ctx, prompt)
	if err != nil {
		return result{prompt: prompt, err: err}
	}
	set, err := voxel.FromDescriptors(ds)
	if err != nil {
		return result{prompt: prompt, err: err}
	}

	entry, err := s.history.Append(s.ctx, history.Entry{Prompt: prompt, Name: prompt, Voxels: ds})
	if err != nil {
		logger.Warn("failed to record generation", zap.String("prompt", prompt), zap.Error(err))
		entry = history.Entry{Prompt: prompt, Name: prompt, Voxels: ds}
	}
	return result{prompt: prompt, entry: entry, set: set}
}

func (s *Studio) apply(r result) {
	s.busy = false
	if r.err != nil {
		s.status = generation.StatusError
		s.lastError = r.err.Error()
		logger.Warn("generation failed", zap.String("prompt", r.prompt), zap.Error(r.err))
		return
	}

	s.status = generation.StatusSuccess
	logger.Info("generation finished",
		zap.String("prompt", r.prompt),
		zap.Int("voxels", r.set.Len()),
		zap.String("id", r.entry.ID),
	)
	s.historyCursor = 0
	s.ctrl.RequestModel(r.set, r.entry.Name)
}

// SelectPreset requests the named preset.
func (s *Studio) SelectPreset(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.presets.Get(name)
	if err != nil {
		return err
	}
	s.ctrl.RequestModel(p.Voxels, p.Name)
	return nil
}

// SelectPresetAt requests the preset at catalog position i.
func (s *Studio) SelectPresetAt(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.presets.At(i)
	if !ok {
		return fmt.Errorf("%w: index %d", preset.ErrNotFound, i)
	}
	s.ctrl.RequestModel(p.Voxels, p.Name)
	return nil
}

// Presets lists preset names in catalog order.
func (s *Studio) Presets() []string {
	return s.presets.Names()
}

// RequestCustom requests a model that did not come from a preset or generation.
func (s *Studio) RequestCustom(set voxel.Set, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.RequestModel(set, name)
}

// Assemble re-forms the current model or commits a queued one.
func (s *Studio) Assemble() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Assemble()
}

// Disassemble explodes the assembled model.
func (s *Studio) Disassemble() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Disassemble()
}

// Phase returns the current animation phase.
func (s *Studio) Phase() anim.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Phase()
}

// Close stops the generation worker and closes the history log.
func (s *Studio) Close() error {
	s.cancel()
	s.pool.StopAndWait()
	return s.history.Close()
}
