package game

import (
	"context"
	"testing"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/voxelforge/internal/anim"
	"github.com/Faultbox/voxelforge/internal/config"
	"github.com/Faultbox/voxelforge/internal/controller"
	"github.com/Faultbox/voxelforge/internal/history"
	"github.com/Faultbox/voxelforge/internal/studio"
)

func TestActionFor(t *testing.T) {
	tests := []struct {
		key    sdl.Scancode
		action Action
		index  int
	}{
		{sdl.SCANCODE_1, ActionPreset, 0},
		{sdl.SCANCODE_9, ActionPreset, 8},
		{sdl.SCANCODE_A, ActionAssemble, 0},
		{sdl.SCANCODE_D, ActionDisassemble, 0},
		{sdl.SCANCODE_G, ActionGenerate, 0},
		{sdl.SCANCODE_H, ActionHistory, 0},
		{sdl.SCANCODE_O, ActionOpenFile, 0},
		{sdl.SCANCODE_F12, ActionScreenshot, 0},
		{sdl.SCANCODE_ESCAPE, ActionQuit, 0},
		{sdl.SCANCODE_Z, ActionNone, 0},
	}
	for _, tt := range tests {
		action, index := actionFor(tt.key)
		if action != tt.action || index != tt.index {
			t.Errorf("actionFor(%d) = %d,%d want %d,%d", tt.key, action, index, tt.action, tt.index)
		}
	}
}

func TestWindowTitle(t *testing.T) {
	if got := windowTitle("VoxelForge", controller.Snapshot{}); got != "VoxelForge" {
		t.Errorf("expected bare title, got %q", got)
	}
	snap := controller.Snapshot{Name: "castle", Phase: anim.Disassembling, PendingName: "tree"}
	if got, want := windowTitle("VoxelForge", snap), "VoxelForge - castle (disassembling) -> tree"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRunHeadless(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = history.MemoryPath
	cfg.Animation.Seed = 1
	cfg.Animation.StartPreset = "cube"

	st, err := studio.Open(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()
	if err := RunHeadless(ctx, st, 120); err != nil {
		t.Fatal(err)
	}

	if p := st.Phase(); p != anim.Assembled {
		t.Errorf("expected cube assembled after headless run, got %s", p)
	}
}
