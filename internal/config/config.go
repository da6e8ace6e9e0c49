// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/voxelforge/internal/logger"
	"github.com/Faultbox/voxelforge/internal/physics"
)

// Config holds all settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Physics    physics.Tunables `yaml:"physics"`
	Animation  AnimationConfig  `yaml:"animation"`
	Generation GenerationConfig `yaml:"generation"`
	History    HistoryConfig    `yaml:"history"`
	Presets    PresetsConfig    `yaml:"presets"`
	Server     ServerConfig     `yaml:"server"`
	Audio      AudioConfig      `yaml:"audio"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings for the viewer.
type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	Headless      bool   `yaml:"headless"` // run without a window (API only)
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// AnimationConfig holds sequencing settings.
type AnimationConfig struct {
	AssembleDelay time.Duration `yaml:"assemble_delay"`
	Seed          uint64        `yaml:"seed"` // 0 = time based
	StartPreset   string        `yaml:"start_preset"`
	TickRate      int           `yaml:"tick_rate"` // headless frames per second
}

// GenerationConfig holds the model generation service settings.
type GenerationConfig struct {
	Endpoint      string        `yaml:"endpoint"` // empty = offline procedural generator
	APIKey        string        `yaml:"api_key"`
	Timeout       time.Duration `yaml:"timeout"`
	DefaultPrompt string        `yaml:"default_prompt"`
}

// HistoryConfig holds the generated-model history settings.
type HistoryConfig struct {
	Path       string `yaml:"path"`
	MaxEntries int    `yaml:"max_entries"`
}

// PresetsConfig holds the preset catalog settings.
type PresetsConfig struct {
	Dir string `yaml:"dir"` // extra .yaml/.json models
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// AudioConfig holds sound cue settings.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MasterVolume float64 `yaml:"master_volume"`
	SFXVolume    float64 `yaml:"sfx_volume"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "VoxelForge",
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			ScreenshotDir: "screenshots",
		},
		Physics: physics.DefaultTunables(),
		Animation: AnimationConfig{
			AssembleDelay: 50 * time.Millisecond,
			StartPreset:   "castle",
			TickRate:      60,
		},
		Generation: GenerationConfig{
			Timeout:       60 * time.Second,
			DefaultPrompt: "a small red mushroom",
		},
		History: HistoryConfig{
			Path:       "",
			MaxEntries: 12,
		},
		Server: ServerConfig{
			Enabled:      true,
			Addr:         "127.0.0.1:7420",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.8,
			SFXVolume:    0.8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("physics: %w", err)
	}
	if !c.Window.Headless && (c.Window.Width <= 0 || c.Window.Height <= 0) {
		return fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Animation.AssembleDelay < 0 {
		return fmt.Errorf("animation: negative assemble_delay %v", c.Animation.AssembleDelay)
	}
	if c.Animation.TickRate <= 0 {
		return fmt.Errorf("animation: tick_rate must be positive, got %d", c.Animation.TickRate)
	}
	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("history: max_entries must be positive, got %d", c.History.MaxEntries)
	}
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("generation: timeout must be positive, got %v", c.Generation.Timeout)
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 || c.Audio.SFXVolume < 0 || c.Audio.SFXVolume > 1 {
		return fmt.Errorf("audio: volumes must be in [0, 1]")
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// HistoryPath returns the history database path, defaulting into the config dir.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return defaultHistoryPath()
}
