package physics

import "fmt"

// Tunables are the fixed constants of the particle model. Every particle in a
// simulation obeys the same values.
type Tunables struct {
	// MaxStep caps the integration step (seconds) so long frame gaps stay stable.
	MaxStep float64 `yaml:"max_step"`

	// AssembleRate is progress per second while assembling (0.8 = 1.25s).
	AssembleRate float32 `yaml:"assemble_rate"`

	Gravity         float32 `yaml:"gravity"`
	VelocityDamping float32 `yaml:"velocity_damping"`
	AngularDamping  float32 `yaml:"angular_damping"`
	Bounce          float32 `yaml:"bounce"`
	Friction        float32 `yaml:"friction"`

	// Explosion impulse ranges. Horizontal speed is ExplosionForce scaled by a
	// value drawn from [HorizontalMin, HorizontalMax].
	ExplosionForce float32 `yaml:"explosion_force"`
	HorizontalMin  float32 `yaml:"horizontal_min"`
	HorizontalMax  float32 `yaml:"horizontal_max"`
	VerticalMin    float32 `yaml:"vertical_min"`
	VerticalMax    float32 `yaml:"vertical_max"`
	AngularRange   float32 `yaml:"angular_range"`

	// SpinCoupling converts lateral speed at floor contact into spin.
	SpinCoupling float32 `yaml:"spin_coupling"`

	// A particle touching the floor falls asleep below both thresholds.
	SleepSpeed         float32 `yaml:"sleep_speed"`
	SleepVerticalSpeed float32 `yaml:"sleep_vertical_speed"`

	// SafetyTimeout forces disassembly completion if particles never settle.
	SafetyTimeout float64 `yaml:"safety_timeout"`
}

// DefaultTunables returns the stock particle constants.
func DefaultTunables() Tunables {
	return Tunables{
		MaxStep:            0.04,
		AssembleRate:       0.8,
		Gravity:            30,
		VelocityDamping:    0.995,
		AngularDamping:     0.98,
		Bounce:             0.45,
		Friction:           0.85,
		ExplosionForce:     8,
		HorizontalMin:      0.4,
		HorizontalMax:      1.2,
		VerticalMin:        6,
		VerticalMax:        14,
		AngularRange:       12,
		SpinCoupling:       0.6,
		SleepSpeed:         0.4,
		SleepVerticalSpeed: 1.5,
		SafetyTimeout:      3,
	}
}

// Validate rejects constants that would make the simulation unstable or never settle.
func (t Tunables) Validate() error {
	switch {
	case t.MaxStep <= 0:
		return fmt.Errorf("max_step must be positive, got %v", t.MaxStep)
	case t.AssembleRate <= 0:
		return fmt.Errorf("assemble_rate must be positive, got %v", t.AssembleRate)
	case t.Gravity <= 0:
		return fmt.Errorf("gravity must be positive, got %v", t.Gravity)
	case t.VelocityDamping <= 0 || t.VelocityDamping > 1:
		return fmt.Errorf("velocity_damping must be in (0, 1], got %v", t.VelocityDamping)
	case t.AngularDamping <= 0 || t.AngularDamping > 1:
		return fmt.Errorf("angular_damping must be in (0, 1], got %v", t.AngularDamping)
	case t.Bounce < 0 || t.Bounce >= 1:
		return fmt.Errorf("bounce must be in [0, 1), got %v", t.Bounce)
	case t.Friction < 0 || t.Friction > 1:
		return fmt.Errorf("friction must be in [0, 1], got %v", t.Friction)
	case t.HorizontalMin > t.HorizontalMax:
		return fmt.Errorf("horizontal_min %v exceeds horizontal_max %v", t.HorizontalMin, t.HorizontalMax)
	case t.VerticalMin <= 0 || t.VerticalMin > t.VerticalMax:
		return fmt.Errorf("vertical range must be positive and ordered, got [%v, %v]", t.VerticalMin, t.VerticalMax)
	case t.SafetyTimeout <= 0:
		return fmt.Errorf("safety_timeout must be positive, got %v", t.SafetyTimeout)
	}
	return nil
}
