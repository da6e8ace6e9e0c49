// Package anim holds the animation phase model shared by the transition
// controller (the only writer) and the physics engine (a reader).
package anim

import "fmt"

// Phase is the animation phase of the active model.
type Phase int

const (
	Hidden Phase = iota
	Assembling
	Assembled
	Disassembling
	Collapsed
)

var phaseNames = [...]string{
	Hidden:        "hidden",
	Assembling:    "assembling",
	Assembled:     "assembled",
	Disassembling: "disassembling",
	Collapsed:     "collapsed",
}

// String implements fmt.Stringer.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ParsePhase converts a phase name back to a Phase.
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return Hidden, fmt.Errorf("unknown phase %q", s)
}

// MarshalText implements encoding.TextMarshaler so phases serialize by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// transitions lists the legal phase edges. Hidden is re-enterable because
// committing a new model while hidden restarts the episode.
var transitions = map[Phase][]Phase{
	Hidden:        {Hidden, Assembling},
	Assembling:    {Assembled, Hidden},
	Assembled:     {Disassembling},
	Disassembling: {Collapsed, Hidden},
	Collapsed:     {Assembling, Hidden},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Animating reports whether the phase is a timed transition that ends in a completion signal.
func (p Phase) Animating() bool {
	return p == Assembling || p == Disassembling
}
