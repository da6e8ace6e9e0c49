// Package audio plays short synthesized cues for animation events.
package audio

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Cue names a sound effect.
type Cue int

const (
	CueCommit Cue = iota
	CueExplode
	CueAssembled
)

func (c Cue) String() string {
	switch c {
	case CueCommit:
		return "commit"
	case CueExplode:
		return "explode"
	case CueAssembled:
		return "assembled"
	default:
		return "unknown"
	}
}

// Manager mixes cues onto the speaker.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	sfxVolLevel  float64

	sfxMixer *beep.Mixer
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		masterVolume: 1.0,
		sfxVolLevel:  1.0,
		sfxMixer:     &beep.Mixer{},
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfxMixer)

	m.initialized = true
	return nil
}

// Close shuts down playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		speaker.Clear()
	}
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the effects volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// SFXVolume returns the effects volume.
func (m *Manager) SFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

// Play mixes cue into the output. It is a no-op before Init.
func (m *Manager) Play(cue Cue) error {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.masterVolume * m.sfxVolLevel
	m.mu.RUnlock()

	if !initialized {
		return nil
	}

	s, err := Synthesize(cue, m.sampleRate)
	if err != nil {
		return err
	}

	speaker.Lock()
	m.sfxMixer.Add(&effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToDb(vol) / 6,
		Silent:   vol <= 0,
	})
	speaker.Unlock()
	return nil
}

// Synthesize builds the finite streamer for cue.
func Synthesize(cue Cue, sr beep.SampleRate) (beep.Streamer, error) {
	switch cue {
	case CueCommit:
		return tone(sr, 660, 60*time.Millisecond, 0.25)
	case CueAssembled:
		low, err := tone(sr, 523.25, 90*time.Millisecond, 0.3)
		if err != nil {
			return nil, err
		}
		high, err := tone(sr, 783.99, 160*time.Millisecond, 0.3)
		if err != nil {
			return nil, err
		}
		return beep.Seq(low, high), nil
	case CueExplode:
		n := sr.N(350 * time.Millisecond)
		return &envelope{Streamer: noise(), total: n, gain: 0.5}, nil
	default:
		return nil, fmt.Errorf("unknown cue %d", cue)
	}
}

func tone(sr beep.SampleRate, freq float64, d time.Duration, gain float64) (beep.Streamer, error) {
	s, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("sine %.0fHz: %w", freq, err)
	}
	return &envelope{Streamer: s, total: sr.N(d), gain: gain}, nil
}

func noise() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := rand.Float64()*2 - 1
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
}

// envelope limits a streamer to total samples with a quadratic fade-out.
type envelope struct {
	beep.Streamer
	total int
	pos   int
	gain  float64
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if rest := e.total - e.pos; len(samples) > rest {
		samples = samples[:rest]
	}
	n, ok := e.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		f := 1 - float64(e.pos+i)/float64(e.total)
		g := e.gain * f * f
		samples[i][0] *= g
		samples[i][1] *= g
	}
	e.pos += n
	return n, ok || n > 0
}

// volumeToDb converts a 0-1 volume to decibels.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
