package anim

import "github.com/Faultbox/voxelforge/pkg/voxel"

// Pending is a model swap queued behind a running disassembly.
type Pending struct {
	Voxels voxel.Set
	Name   string
}

// State is the owned animation state: which model is active, its phase and
// what is queued behind it. Version changes whenever a new model is committed
// and forces the particle store to be rebuilt.
type State struct {
	Active  voxel.Set
	Name    string
	Phase   Phase
	Pending *Pending

	// TransitionPending is set while a disassembly is running only to make
	// room for Pending.
	TransitionPending bool

	Version uint64
}

// Commit makes set the active model, clears Pending, bumps the version and
// resets the phase to Hidden.
func (s *State) Commit(set voxel.Set, name string) {
	s.Active = set
	s.Name = name
	s.Pending = nil
	s.Version++
	s.Phase = Hidden
}

// PendingName returns the queued model name, or "" when nothing is queued.
func (s State) PendingName() string {
	if s.Pending == nil {
		return ""
	}
	return s.Pending.Name
}
