package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagAsset      = flag.String("asset", "", "Vehicle asset path or URL (.glb, .gltf, .obj)")
	flagScale      = flag.Float64("scale", 0, "Target size of the model's largest dimension")
	flagNoHover    = flag.Bool("no-hover", false, "Disable hover feedback")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagMute       = flag.Bool("mute", false, "Disable audio")
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
	if *flagAsset != "" {
		cfg.Showcase.AssetURL = *flagAsset
	}
	if *flagScale > 0 {
		cfg.Showcase.TargetSize = float32(*flagScale)
	}
	if *flagNoHover {
		cfg.Showcase.EnableHover = false
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
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
	if *flagMute {
		cfg.Audio.Enabled = false
	}
}
