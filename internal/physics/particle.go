// Package physics simulates one particle per voxel and animates the set
// between its assembled shape and a scattered pile on the floor.
package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelforge/pkg/voxel"
)

// Particle is the simulated body standing in for one voxel.
// Position is in model space; the voxel's grid coordinate is its assembled target.
type Particle struct {
	Position        mgl32.Vec3
	Orientation     mgl32.Quat
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3
	Scale           float32
	Sleeping        bool
}

// Transform returns the render-space model matrix for the particle.
func (p Particle) Transform(offset mgl32.Vec3) mgl32.Mat4 {
	pos := p.Position.Add(offset)
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(p.Orientation.Mat4()).
		Mul4(mgl32.Scale3D(p.Scale, p.Scale, p.Scale))
}

// Store holds particle state indexed in lock-step with a voxel set.
type Store struct {
	particles []Particle
	targets   []mgl32.Vec3

	// Transform captured when assembling starts.
	startPos []mgl32.Vec3
	startRot []mgl32.Quat
}

// NewStore allocates a store for set with every particle hidden.
func NewStore(set voxel.Set) *Store {
	s := &Store{}
	s.Rebuild(set)
	return s
}

// Rebuild resizes the store to match set and hides every particle.
// Backing arrays are reused when large enough.
func (s *Store) Rebuild(set voxel.Set) {
	n := set.Len()
	s.particles = resize(s.particles, n)
	s.targets = resize(s.targets, n)
	s.startPos = resize(s.startPos, n)
	s.startRot = resize(s.startRot, n)

	for i := 0; i < n; i++ {
		s.targets[i] = set.At(i).Position()
	}
	s.ResetHidden()
}

func resize[T any](buf []T, n int) []T {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]T, n)
}

// Len returns the number of particles.
func (s *Store) Len() int {
	return len(s.particles)
}

// Particles returns the live particle slice. Callers must treat it as read-only.
func (s *Store) Particles() []Particle {
	return s.particles
}

// At returns a copy of particle i.
func (s *Store) At(i int) Particle {
	return s.particles[i]
}

// Target returns the assembled position of particle i.
func (s *Store) Target(i int) mgl32.Vec3 {
	return s.targets[i]
}

// Awake counts particles that are still integrated.
func (s *Store) Awake() int {
	n := 0
	for i := range s.particles {
		if !s.particles[i].Sleeping {
			n++
		}
	}
	return n
}

// ResetHidden pins every particle to the origin with zero scale and no motion.
func (s *Store) ResetHidden() {
	for i := range s.particles {
		s.particles[i] = Particle{
			Orientation: mgl32.QuatIdent(),
			Sleeping:    true,
		}
	}
}

// ForceAssembled snaps every particle to its exact target at full scale and
// puts it to sleep. Calling it repeatedly yields identical state.
func (s *Store) ForceAssembled() {
	for i := range s.particles {
		s.particles[i] = Particle{
			Position:    s.targets[i],
			Orientation: mgl32.QuatIdent(),
			Scale:       1,
			Sleeping:    true,
		}
	}
}

// captureStart records the current transforms as the assembly origin.
func (s *Store) captureStart() {
	for i := range s.particles {
		s.startPos[i] = s.particles[i].Position
		s.startRot[i] = s.particles[i].Orientation
	}
}
