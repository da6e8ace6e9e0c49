package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagHeadless   = flag.Bool("headless", false, "Run without a window (HTTP API only)")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagAddr       = flag.String("addr", "", "HTTP API listen address")
	flagNoServer   = flag.Bool("no-server", false, "Disable the HTTP API")
	flagGenerator  = flag.String("generator", "", "Model generation endpoint URL")
	flagPrompt     = flag.String("prompt", "", "Prompt used by the generate key")
	flagPreset     = flag.String("preset", "", "Preset shown at startup")
	flagSeed       = flag.Uint64("seed", 0, "Physics random seed (0 = time based)")
	flagMute       = flag.Bool("mute", false, "Disable sound cues")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagHeadless {
		cfg.Window.Headless = true
		cfg.Server.Enabled = true
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagNoServer {
		cfg.Server.Enabled = false
	}
	if *flagGenerator != "" {
		cfg.Generation.Endpoint = *flagGenerator
	}
	if *flagPrompt != "" {
		cfg.Generation.DefaultPrompt = *flagPrompt
	}
	if *flagPreset != "" {
		cfg.Animation.StartPreset = *flagPreset
	}
	if *flagSeed != 0 {
		cfg.Animation.Seed = *flagSeed
	}
	if *flagMute {
		cfg.Audio.Enabled = false
	}
}
