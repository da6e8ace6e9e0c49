package game

import "github.com/veandco/go-sdl2/sdl"

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionPreset
	ActionAssemble
	ActionDisassemble
	ActionGenerate
	ActionHistory
	ActionOpenFile
	ActionScreenshot
	ActionAutoRotate
	ActionQuit
)

var bindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_A:      ActionAssemble,
	sdl.SCANCODE_D:      ActionDisassemble,
	sdl.SCANCODE_G:      ActionGenerate,
	sdl.SCANCODE_H:      ActionHistory,
	sdl.SCANCODE_O:      ActionOpenFile,
	sdl.SCANCODE_R:      ActionAutoRotate,
	sdl.SCANCODE_F12:    ActionScreenshot,
	sdl.SCANCODE_ESCAPE: ActionQuit,
}

// actionFor resolves a key. For ActionPreset the second value is the
// zero-based preset index.
func actionFor(key sdl.Scancode) (Action, int) {
	if key >= sdl.SCANCODE_1 && key <= sdl.SCANCODE_9 {
		return ActionPreset, int(key - sdl.SCANCODE_1)
	}
	return bindings[key], 0
}
