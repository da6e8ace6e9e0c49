// Package game implements the interactive viewer loop.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelforge/internal/anim"
	"github.com/Faultbox/voxelforge/internal/config"
	"github.com/Faultbox/voxelforge/internal/controller"
	"github.com/Faultbox/voxelforge/internal/engine/audio"
	"github.com/Faultbox/voxelforge/internal/engine/camera"
	"github.com/Faultbox/voxelforge/internal/engine/debug"
	"github.com/Faultbox/voxelforge/internal/engine/input"
	"github.com/Faultbox/voxelforge/internal/engine/renderer"
	"github.com/Faultbox/voxelforge/internal/engine/scene"
	"github.com/Faultbox/voxelforge/internal/engine/window"
	"github.com/Faultbox/voxelforge/internal/logger"
	"github.com/Faultbox/voxelforge/internal/studio"
	"github.com/Faultbox/voxelforge/pkg/voxel"
)

const autoRotateSpeed = 0.3

// Game is the viewer: window, renderer and input around a Studio.
type Game struct {
	cfg    *config.Config
	studio *studio.Studio

	running  atomic.Bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	audio    *audio.Manager
	shots    *debug.ScreenshotCapture

	instances []scene.Instance
	reframe   bool
	title     string
}

// New opens the window and wires the viewer to st.
func New(cfg *config.Config, st *studio.Studio) (*Game, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	g := &Game{
		cfg:     cfg,
		studio:  st,
		input:   input.New(),
		camera:  camera.NewOrbitCamera(),
		shots:   debug.NewScreenshotCapture(cfg.Window.ScreenshotDir, "voxelforge"),
		reframe: true,
	}

	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context created by the window.
	w, h := g.window.DrawableSize()
	g.renderer, err = renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if cfg.Audio.Enabled {
		g.audio = audio.New()
		g.audio.SetMasterVolume(cfg.Audio.MasterVolume)
		g.audio.SetSFXVolume(cfg.Audio.SFXVolume)
		if err := g.audio.Init(); err != nil {
			logger.Warn("audio disabled", zap.Error(err))
			g.audio = nil
		}
	}

	st.OnPhaseChange(g.onPhaseChange)

	logger.Info("viewer initialized")
	return g, nil
}

// onPhaseChange runs with the studio locked.
func (g *Game) onPhaseChange(from, to anim.Phase) {
	var cue audio.Cue
	switch to {
	case anim.Hidden:
		g.reframe = true
		cue = audio.CueCommit
	case anim.Disassembling:
		cue = audio.CueExplode
	case anim.Assembled:
		cue = audio.CueAssembled
	default:
		return
	}
	if g.audio != nil {
		if err := g.audio.Play(cue); err != nil {
			logger.Warn("failed to play cue", zap.Stringer("cue", cue), zap.Error(err))
		}
	}
}

// Run drives the frame loop until the window closes.
func (g *Game) Run() error {
	g.running.Store(true)

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for g.running.Load() {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if g.input.Update() {
			break
		}
		for _, event := range g.input.Events() {
			g.handle(event)
		}

		g.studio.Update(dt)
		g.camera.Update(dt)
		g.render()
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (g *Game) handle(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		w, h := g.window.DrawableSize()
		g.renderer.Resize(w, h)
	case input.EventMouseDrag:
		g.camera.HandleDrag(event.DX, event.DY)
	case input.EventMouseWheel:
		g.camera.HandleZoom(event.DY)
	case input.EventKeyDown:
		action, index := actionFor(event.Key)
		g.perform(action, index)
	}
}

func (g *Game) perform(action Action, index int) {
	var err error
	switch action {
	case ActionNone:
		return
	case ActionPreset:
		err = g.studio.SelectPresetAt(index)
	case ActionAssemble:
		err = g.studio.Assemble()
	case ActionDisassemble:
		err = g.studio.Disassemble()
	case ActionGenerate:
		err = g.studio.Submit(g.cfg.Generation.DefaultPrompt)
	case ActionHistory:
		err = g.studio.NextHistory(context.Background())
	case ActionOpenFile:
		err = g.openFile()
	case ActionScreenshot:
		err = g.screenshot()
	case ActionAutoRotate:
		if g.camera.AutoRotate == 0 {
			g.camera.AutoRotate = autoRotateSpeed
		} else {
			g.camera.AutoRotate = 0
		}
	case ActionQuit:
		g.Stop()
	}
	if err != nil {
		logger.Info("command rejected", zap.Int("action", int(action)), zap.Error(err))
	}
}

func (g *Game) openFile() error {
	path, err := dialog.File().
		Filter("Voxel models", "json", "yaml", "yml").
		Title("Open voxel model").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open dialog: %w", err)
	}

	set, name, err := voxel.LoadFile(path)
	if err != nil {
		return err
	}
	logger.Info("model file loaded", zap.String("path", path), zap.Int("voxels", set.Len()))
	g.studio.RequestCustom(set, name)
	return nil
}

func (g *Game) screenshot() error {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.shots.CaptureFromPixels(pixels, w, h, g.studio.Snapshot().Model)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	logger.Info("screenshot saved", zap.String("path", path))
	return nil
}

func (g *Game) render() {
	g.renderer.Begin()

	var title string
	g.studio.View(func(snap controller.Snapshot) {
		if g.reframe && snap.Voxels.Len() > 0 {
			if b, ok := snap.Voxels.Bounds(); ok {
				_, height, _ := b.Size()
				g.camera.Frame(scene.Radius(snap), float32(height))
			}
			g.reframe = false
		}
		g.instances = scene.Build(g.instances, snap)
		title = windowTitle(g.cfg.Window.Title, snap)
	})

	g.instances = append(g.instances, scene.Floor(max(40, g.camera.Distance*2)))

	w, h := g.renderer.Size()
	g.renderer.Draw(g.camera.ViewMatrix(), g.camera.ProjectionMatrix(w, h), g.camera.Position(), g.instances)
	g.renderer.End()

	if title != g.title {
		g.window.SetTitle(title)
		g.title = title
	}
}

func windowTitle(base string, snap controller.Snapshot) string {
	if snap.Name == "" {
		return base
	}
	t := fmt.Sprintf("%s - %s (%s)", base, snap.Name, snap.Phase)
	if snap.PendingName != "" {
		t += " -> " + snap.PendingName
	}
	return t
}

// Stop ends Run after the current frame. It is safe to call from any goroutine.
func (g *Game) Stop() {
	g.running.Store(false)
}

// Close releases viewer resources. The studio is owned by the caller.
func (g *Game) Close() {
	logger.Info("closing viewer")

	if g.audio != nil {
		g.audio.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
