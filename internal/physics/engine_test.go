package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelforge/internal/anim"
	"github.com/Faultbox/voxelforge/pkg/voxel"
)

type constRand float32

func (r constRand) Float32() float32 { return float32(r) }

func cube(n int) voxel.Set {
	var vs []voxel.Voxel
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				vs = append(vs, voxel.Voxel{X: x, Y: y, Z: z, Color: voxel.RGB{R: 200}})
			}
		}
	}
	return voxel.NewSet(vs)
}

func newState(set voxel.Set, phase anim.Phase) *anim.State {
	st := &anim.State{}
	st.Commit(set, "test")
	st.Phase = phase
	return st
}

// counter records completion signals.
type counter struct {
	phases []anim.Phase
}

func (c *counter) handle(p anim.Phase) { c.phases = append(c.phases, p) }

func TestStoreMatchesSetAfterCommit(t *testing.T) {
	e := NewEngine(DefaultTunables(), WithSeed(1))
	st := &anim.State{}

	for _, n := range []int{0, 1, 3, 5, 2} {
		st.Commit(cube(n), "cube")
		e.Sync(st)
		if e.Store().Len() != st.Active.Len() {
			t.Errorf("cube(%d): expected %d particles, got %d", n, st.Active.Len(), e.Store().Len())
		}
	}
}

func TestHiddenPose(t *testing.T) {
	e := NewEngine(DefaultTunables(), WithSeed(1))
	st := newState(cube(2), anim.Hidden)

	e.Advance(st, 0.016)

	for i, p := range e.Store().Particles() {
		if p.Position != (mgl32.Vec3{}) || p.Scale != 0 {
			t.Errorf("particle %d: expected origin with scale 0, got %v scale %v", i, p.Position, p.Scale)
		}
		if p.Velocity != (mgl32.Vec3{}) || p.Orientation != mgl32.QuatIdent() {
			t.Errorf("particle %d: expected no motion and identity orientation", i)
		}
	}
	if e.Stats().Completions != 0 {
		t.Error("hidden phase must not emit")
	}
}

func TestAssembleSingleVoxel(t *testing.T) {
	e := NewEngine(DefaultTunables(), WithSeed(1))
	var c counter
	e.OnComplete(c.handle)

	st := newState(voxel.NewSet([]voxel.Voxel{{X: 0, Y: 0, Z: 0}}), anim.Hidden)
	e.Advance(st, 0.016)
	st.Phase = anim.Assembling

	// 1/rate = 1.25s; 80 steps of 0.04 is well past it.
	for i := 0; i < 80; i++ {
		e.Advance(st, 0.04)
	}

	if len(c.phases) != 1 || c.phases[0] != anim.Assembling {
		t.Fatalf("expected exactly one assembling completion, got %v", c.phases)
	}
	p := e.Store().At(0)
	if p.Position != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("expected exact position (0,0,0), got %v", p.Position)
	}
	if p.Scale != 1 {
		t.Errorf("expected scale 1, got %v", p.Scale)
	}
	if p.Orientation != mgl32.QuatIdent() {
		t.Errorf("expected identity orientation, got %v", p.Orientation)
	}
}

func TestAssemblingProgressMonotonic(t *testing.T) {
	e := NewEngine(DefaultTunables(), WithSeed(1))
	var c counter
	e.OnComplete(c.handle)

	st := newState(cube(3), anim.Assembling)

	last := float32(-1)
	for i := 0; i < 200; i++ {
		e.Advance(st, 0.013)
		p := e.Stats().Progress
		if p < last {
			t.Fatalf("progress decreased from %v to %v at step %d", last, p, i)
		}
		if p > 1 {
			t.Fatalf("progress exceeded 1: %v", p)
		}
		last = p
	}
	if last != 1 {
		t.Errorf("expected progress to clamp at 1, got %v", last)
	}
	if len(c.phases) != 1 {
		t.Errorf("expected one completion, got %d", len(c.phases))
	}
}

func TestAssemblingBlendsTowardTarget(t *testing.T) {
	e := NewEngine(DefaultTunables(), WithSeed(1))
	st := newState(voxel.NewSet([]voxel.Voxel{{X: 4, Y: 2, Z: 0}}), anim.Assembling)

	e.Advance(st, 0.04)
	p := e.Store().At(0)

	if p.Scale <= 0 || p.Scale >= 1 {
		t.Fatalf("expected partial scale, got %v", p.Scale)
	}
	// Position is lerp(origin, target, e) and scale is e.
	want := mgl32.Vec3{4, 2, 0}.Mul(p.Scale)
	if !p.Position.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("expected position %v, got %v", want, p.Position)
	}
}

func TestStepIsClamped(t *testing.T) {
	tun := DefaultTunables()
	e := NewEngine(tun, WithSeed(1))
	st := newState(cube(1), anim.Assembling)

	e.Advance(st, 10)

	want := tun.AssembleRate * float32(tun.MaxStep)
	if got := e.Stats().Progress; math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("expected progress %v after a clamped step, got %v", want, got)
	}
}

func TestAssembledIdempotent(t *testing.T) {
	e := NewEngine(DefaultTunables(), WithSeed(3))
	st := newState(cube(3), anim.Disassembling)
	for i := 0; i < 20; i++ {
		e.Advance(st, 0.016)
	}

	e.ForceAssembled()
	first := append([]Particle(nil), e.Store().Particles()...)
	e.ForceAssembled()
	st.Phase = anim.Assembled
	e.Advance(st, 0.016)
	e.Advance(st, 0.016)

	for i, p := range e.Store().Particles() {
		if p != first[i] {
			t.Fatalf("particle %d drifted: %+v != %+v", i, p, first[i])
		}
		if p.Position != e.Store().Target(i) || !p.Sleeping || p.Scale != 1 {
			t.Fatalf("particle %d not at rest on its target: %+v", i, p)
		}
	}
}

func TestExplosionImpulse(t *testing.T) {
	tun := DefaultTunables()
	e := NewEngine(tun, WithRand(constRand(0.5)))

	// Center is (1, 0); left voxel, centered voxel, right voxel.
	st := newState(voxel.NewSet([]voxel.Voxel{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}), anim.Assembled)
	e.Advance(st, 0.016)
	st.Phase = anim.Disassembling
	// A zero step enters the phase without integrating the impulse away.
	e.Advance(st, 0)

	left, mid, right := e.Store().At(0), e.Store().At(1), e.Store().At(2)

	if left.Velocity.X() >= 0 || right.Velocity.X() <= 0 {
		t.Errorf("expected outward horizontal impulse, got left %v right %v", left.Velocity, right.Velocity)
	}
	for i, p := range []Particle{left, mid, right} {
		if p.Velocity.Y() < tun.VerticalMin || p.Velocity.Y() > tun.VerticalMax {
			t.Errorf("particle %d: vertical speed %v outside [%v, %v]", i, p.Velocity.Y(), tun.VerticalMin, tun.VerticalMax)
		}
		if p.Sleeping {
			t.Errorf("particle %d should be awake after explosion", i)
		}
		if p.Position != e.Store().Target(i) {
			t.Errorf("particle %d should start from its target", i)
		}
	}

	// The centered voxel gets a random but full-strength horizontal push.
	wantSpeed := tun.ExplosionForce * (tun.HorizontalMin + 0.5*(tun.HorizontalMax-tun.HorizontalMin))
	got := float32(math.Hypot(float64(mid.Velocity.X()), float64(mid.Velocity.Z())))
	if math.Abs(float64(got-wantSpeed)) > 1e-3 {
		t.Errorf("centered voxel horizontal speed %v, want %v", got, wantSpeed)
	}
	// constRand(0.5) yields zero spin on every axis.
	if mid.AngularVelocity != (mgl32.Vec3{}) {
		t.Errorf("expected zero spin from midpoint draw, got %v", mid.AngularVelocity)
	}
}

func TestDisassemblySettlesAboveFloor(t *testing.T) {
	e := NewEngine(DefaultTunables(), WithSeed(42))
	var c counter
	e.OnComplete(c.handle)

	set := voxel.NewSet([]voxel.Voxel{
		{X: 0, Y: 3, Z: 0}, {X: 1, Y: 3, Z: 0}, {X: 0, Y: 4, Z: 1},
		{X: 2, Y: 5, Z: 2}, {X: 1, Y: 6, Z: 1}, {X: 0, Y: 3, Z: 2},
	})
	st := newState(set, anim.Assembled)
	e.Advance(st, 0.016)
	st.Phase = anim.Disassembling

	for i := 0; i < 2000 && len(c.phases) == 0; i++ {
		e.Advance(st, 1.0/60)
	}
	if len(c.phases) != 1 || c.phases[0] != anim.Disassembling {
		t.Fatalf("expected one disassembling completion, got %v", c.phases)
	}

	floor := e.Floor()
	if floor != 2.5 {
		t.Fatalf("expected floor reference 2.5, got %v", floor)
	}
	for i, p := range e.Store().Particles() {
		if p.Position.Y() < floor+0.5 {
			t.Errorf("particle %d sank below the floor: y=%v", i, p.Position.Y())
		}
	}

	// No second signal while the phase lingers.
	for i := 0; i < 600; i++ {
		e.Advance(st, 1.0/60)
	}
	if len(c.phases) != 1 {
		t.Errorf("completion re-emitted: %v", c.phases)
	}
	if e.Stats().SafetyRemaining != 0 {
		t.Errorf("expected safety timer cleared, got %v", e.Stats().SafetyRemaining)
	}
}

func TestDisassemblySafetyTimer(t *testing.T) {
	tun := DefaultTunables()
	// Nothing can ever fall asleep.
	tun.SleepSpeed = 0
	tun.SleepVerticalSpeed = 0
	e := NewEngine(tun, WithSeed(7))
	var c counter
	e.OnComplete(c.handle)

	st := newState(cube(2), anim.Disassembling)

	elapsed := 0.0
	for elapsed < tun.SafetyTimeout-0.1 {
		e.Advance(st, 0.02)
		elapsed += 0.02
	}
	if len(c.phases) != 0 {
		t.Fatalf("completion fired before the safety timeout at %.2fs", elapsed)
	}

	for i := 0; i < 100; i++ {
		e.Advance(st, 0.02)
	}
	if len(c.phases) != 1 {
		t.Fatalf("expected exactly one forced completion, got %d", len(c.phases))
	}
	if e.Stats().LastSettle != SettleTimeout {
		t.Errorf("expected timeout settle, got %v", e.Stats().LastSettle)
	}
	for i, p := range e.Store().Particles() {
		if p.Position.Y() < e.Floor()+0.5 {
			t.Errorf("particle %d below floor: %v", i, p.Position.Y())
		}
	}
}

func TestEmptySetDisassemblesImmediately(t *testing.T) {
	e := NewEngine(DefaultTunables(), WithSeed(1))
	var c counter
	e.OnComplete(c.handle)

	st := newState(voxel.Set{}, anim.Disassembling)
	e.Advance(st, 0.016)
	e.Advance(st, 0.016)

	if len(c.phases) != 1 {
		t.Errorf("expected one completion for an empty set, got %d", len(c.phases))
	}
	if e.Stats().LastSettle != SettleNatural {
		t.Errorf("expected natural settle, got %v", e.Stats().LastSettle)
	}
}

func TestCollapsedNeverEmits(t *testing.T) {
	tun := DefaultTunables()
	tun.SleepSpeed = 0
	tun.SleepVerticalSpeed = 0
	e := NewEngine(tun, WithSeed(9))
	var c counter
	e.OnComplete(c.handle)

	st := newState(cube(2), anim.Disassembling)
	e.Advance(st, 0.016)
	st.Phase = anim.Collapsed

	before := e.Store().At(0).Position
	for i := 0; i < 400; i++ {
		e.Advance(st, 0.02)
	}
	if len(c.phases) != 0 {
		t.Errorf("collapsed phase emitted %v", c.phases)
	}
	if e.Store().At(0).Position == before {
		t.Error("collapsed particles should keep integrating while awake")
	}
}

func TestVersionChangeRebuildsHidden(t *testing.T) {
	e := NewEngine(DefaultTunables(), WithSeed(1))
	st := newState(cube(2), anim.Assembled)
	e.Advance(st, 0.016)

	st.Commit(cube(3), "bigger")
	e.Advance(st, 0.016)

	if e.Store().Len() != 27 {
		t.Fatalf("expected 27 particles, got %d", e.Store().Len())
	}
	for i, p := range e.Store().Particles() {
		if p.Scale != 0 {
			t.Fatalf("particle %d should be hidden after a new commit", i)
		}
	}
}

func TestParticleTransform(t *testing.T) {
	p := Particle{Position: mgl32.Vec3{1, 2, 3}, Orientation: mgl32.QuatIdent(), Scale: 2}
	m := p.Transform(mgl32.Vec3{1, 0, -3})

	got := m.Mul4x1(mgl32.Vec4{0.5, 0, 0, 1})
	want := mgl32.Vec4{3, 2, 0, 1}
	if !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTunablesValidate(t *testing.T) {
	if err := DefaultTunables().Validate(); err != nil {
		t.Fatalf("default tunables invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Tunables)
	}{
		{"zero step", func(t *Tunables) { t.MaxStep = 0 }},
		{"bounce too high", func(t *Tunables) { t.Bounce = 1 }},
		{"damping above one", func(t *Tunables) { t.VelocityDamping = 1.1 }},
		{"negative gravity", func(t *Tunables) { t.Gravity = -9.8 }},
		{"downward launch", func(t *Tunables) { t.VerticalMin = -1 }},
		{"no timeout", func(t *Tunables) { t.SafetyTimeout = 0 }},
	}
	for _, tt := range tests {
		tun := DefaultTunables()
		tt.mutate(&tun)
		if err := tun.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
