package physics

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelforge/internal/anim"
)

// Rand is the random source used for explosion impulses.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float32() float32
}

// SettleReason records how the last disassembly finished.
type SettleReason int

const (
	SettleNone SettleReason = iota
	SettleNatural
	SettleTimeout
)

func (r SettleReason) String() string {
	switch r {
	case SettleNatural:
		return "settled"
	case SettleTimeout:
		return "timeout"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r SettleReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Stats is a read-only summary of the engine for logs and status displays.
type Stats struct {
	Phase           anim.Phase   `json:"phase"`
	Particles       int          `json:"particles"`
	Awake           int          `json:"awake"`
	Progress        float32      `json:"progress"`
	SafetyRemaining float64      `json:"safety_remaining"`
	LastSettle      SettleReason `json:"last_settle"`
	Completions     uint64       `json:"completions"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source for explosion impulses.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithSeed seeds a PCG random source. Zero keeps the default time-based seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}
	}
}

// Engine advances the particle store once per frame according to the phase
// of an anim.State. It never changes the state itself; when a timed phase
// finishes it raises the completion signal and the owner decides what follows.
type Engine struct {
	tun   Tunables
	rng   Rand
	store *Store

	// Derived from the active set on rebuild.
	floor            float32
	centerX, centerZ float32

	loaded  bool
	version uint64
	phase   anim.Phase

	progress float32
	emitted  bool
	awake    int

	safetyArmed bool
	safetyLeft  float64

	lastSettle  SettleReason
	completions uint64

	onComplete func(anim.Phase)
}

// NewEngine creates an engine with the given constants.
func NewEngine(tun Tunables, opts ...Option) *Engine {
	now := uint64(time.Now().UnixNano())
	e := &Engine{
		tun:   tun,
		rng:   rand.New(rand.NewPCG(now, now>>17)),
		store: &Store{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnComplete sets the completion handler. It is a single slot: a later call
// replaces the earlier handler. The handler runs synchronously inside Advance
// and may change the state's phase.
func (e *Engine) OnComplete(fn func(anim.Phase)) {
	e.onComplete = fn
}

// Store returns the particle store.
func (e *Engine) Store() *Store {
	return e.store
}

// Tunables returns the engine constants.
func (e *Engine) Tunables() Tunables {
	return e.tun
}

// Floor returns the model-space floor reference of the active set.
func (e *Engine) Floor() float32 {
	return e.floor
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	st := Stats{
		Phase:       e.phase,
		Particles:   e.store.Len(),
		Awake:       e.awake,
		Progress:    e.progress,
		LastSettle:  e.lastSettle,
		Completions: e.completions,
	}
	if e.safetyArmed {
		st.SafetyRemaining = e.safetyLeft
	}
	return st
}

// Sync rebuilds the store if st carries a model version the engine has not
// seen yet. It does not integrate or emit, so it is safe to call right after
// a commit to keep the store length equal to the active set.
func (e *Engine) Sync(st *anim.State) {
	if e.loaded && st.Version == e.version {
		return
	}
	e.loaded = true
	e.version = st.Version

	e.store.Rebuild(st.Active)
	e.floor = st.Active.Floor()
	e.centerX, e.centerZ = st.Active.HorizontalCenter()

	// The rebuilt store is in the hidden pose.
	e.phase = anim.Hidden
	e.progress = 0
	e.emitted = false
	e.awake = 0
	e.disarmSafety()
}

// Advance moves the simulation forward by dt seconds.
func (e *Engine) Advance(st *anim.State, dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	step := float32(min(dt, e.tun.MaxStep))

	e.Sync(st)
	if st.Phase != e.phase {
		e.enter(st.Phase)
	}

	switch st.Phase {
	case anim.Hidden:
		// Pinned on entry; nothing moves until the controller commands assembly.
	case anim.Assembling:
		e.stepAssembling(step)
	case anim.Assembled:
		e.ForceAssembled()
	case anim.Disassembling:
		e.integrate(step)
		e.checkDisassembled(dt)
	case anim.Collapsed:
		e.integrate(step)
	}
}

// ForceAssembled snaps the store to the exact assembled transform.
func (e *Engine) ForceAssembled() {
	e.store.ForceAssembled()
	e.awake = 0
}

func (e *Engine) enter(p anim.Phase) {
	prev := e.phase
	e.phase = p
	e.emitted = false

	switch p {
	case anim.Hidden:
		e.store.ResetHidden()
		e.progress = 0
		e.awake = 0
		e.disarmSafety()
	case anim.Assembling:
		e.store.captureStart()
		e.progress = 0
		e.awake = e.store.Len()
		e.disarmSafety()
	case anim.Assembled:
		e.progress = 1
		e.ForceAssembled()
		e.disarmSafety()
	case anim.Disassembling:
		e.explode()
		e.awake = e.store.Len()
		e.safetyArmed = true
		e.safetyLeft = e.tun.SafetyTimeout
	case anim.Collapsed:
		// Keep settling whatever is still moving after a disassembly.
		if prev != anim.Disassembling {
			e.awake = e.store.Awake()
		}
		e.disarmSafety()
	}
}

func (e *Engine) stepAssembling(step float32) {
	if e.emitted {
		return
	}

	e.progress = min(e.progress+e.tun.AssembleRate*step, 1)
	if e.progress >= 1 {
		e.ForceAssembled()
		e.emit()
		return
	}

	inv := 1 - e.progress
	blend := 1 - inv*inv*inv*inv
	ident := mgl32.QuatIdent()

	s := e.store
	for i := range s.particles {
		p := &s.particles[i]
		p.Position = lerp(s.startPos[i], s.targets[i], blend)
		p.Orientation = slerp(s.startRot[i], ident, blend)
		p.Scale = blend
		p.Velocity = mgl32.Vec3{}
		p.AngularVelocity = mgl32.Vec3{}
	}
}

// explode re-arms every particle at its target and assigns an outward impulse.
func (e *Engine) explode() {
	t := e.tun
	s := e.store
	for i := range s.particles {
		target := s.targets[i]

		dx := target.X() - e.centerX
		dz := target.Z() - e.centerZ
		dist := float32(math.Hypot(float64(dx), float64(dz)))
		if dist == 0 {
			angle := e.rng.Float32() * 2 * math.Pi
			dx, dz = float32(math.Cos(float64(angle))), float32(math.Sin(float64(angle)))
		} else {
			dx, dz = dx/dist, dz/dist
		}

		speed := t.ExplosionForce * e.between(t.HorizontalMin, t.HorizontalMax)
		s.particles[i] = Particle{
			Position:    target,
			Orientation: mgl32.QuatIdent(),
			Scale:       1,
			Velocity: mgl32.Vec3{
				dx * speed,
				e.between(t.VerticalMin, t.VerticalMax),
				dz * speed,
			},
			AngularVelocity: mgl32.Vec3{
				e.symmetric(t.AngularRange),
				e.symmetric(t.AngularRange),
				e.symmetric(t.AngularRange),
			},
		}
	}
}

// integrate applies gravity, damping and floor contact to every awake particle.
func (e *Engine) integrate(step float32) {
	if step <= 0 || e.awake == 0 {
		return
	}

	t := e.tun
	rest := e.floor + 0.5
	s := e.store
	for i := range s.particles {
		p := &s.particles[i]
		if p.Sleeping {
			continue
		}

		p.Velocity[1] -= t.Gravity * step
		p.Velocity = p.Velocity.Mul(t.VelocityDamping)
		p.AngularVelocity = p.AngularVelocity.Mul(t.AngularDamping)

		p.Position = p.Position.Add(p.Velocity.Mul(step))
		p.Orientation = rotate(p.Orientation, p.AngularVelocity, step)

		if p.Position[1] >= rest {
			continue
		}
		p.Position[1] = rest
		if p.Velocity[1] >= 0 {
			continue
		}

		p.Velocity[1] = -p.Velocity[1] * t.Bounce
		p.Velocity[0] *= t.Friction
		p.Velocity[2] *= t.Friction
		p.AngularVelocity[0] += p.Velocity[2] * t.SpinCoupling
		p.AngularVelocity[2] -= p.Velocity[0] * t.SpinCoupling

		lateral := float32(math.Hypot(float64(p.Velocity[0]), float64(p.Velocity[2])))
		if lateral < t.SleepSpeed && p.Velocity[1] < t.SleepVerticalSpeed {
			p.Velocity = mgl32.Vec3{}
			p.AngularVelocity = mgl32.Vec3{}
			p.Sleeping = true
			e.awake--
		}
	}
}

func (e *Engine) checkDisassembled(dt float64) {
	if e.emitted {
		return
	}
	if e.awake == 0 {
		e.lastSettle = SettleNatural
		e.disarmSafety()
		e.emit()
		return
	}
	if !e.safetyArmed {
		return
	}
	e.safetyLeft -= dt
	if e.safetyLeft <= 0 {
		e.lastSettle = SettleTimeout
		e.disarmSafety()
		e.emit()
	}
}

func (e *Engine) disarmSafety() {
	e.safetyArmed = false
	e.safetyLeft = 0
}

// emit raises the completion signal at most once per phase episode.
func (e *Engine) emit() {
	if e.emitted {
		return
	}
	e.emitted = true
	e.completions++
	if e.onComplete != nil {
		e.onComplete(e.phase)
	}
}

// between draws uniformly from [lo, hi].
func (e *Engine) between(lo, hi float32) float32 {
	return lo + e.rng.Float32()*(hi-lo)
}

// symmetric draws uniformly from [-r, r].
func (e *Engine) symmetric(r float32) float32 {
	return (e.rng.Float32()*2 - 1) * r
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// slerp interpolates along the shorter arc.
func slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t)
}

// rotate integrates angular velocity w over dt.
func rotate(q mgl32.Quat, w mgl32.Vec3, dt float32) mgl32.Quat {
	speed := w.Len()
	if speed < 1e-6 {
		return q
	}
	delta := mgl32.QuatRotate(speed*dt, w.Mul(1/speed))
	return delta.Mul(q).Normalize()
}
