package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Window.MaxPixelRatio != 2 {
		t.Errorf("expected max pixel ratio 2, got %v", cfg.Window.MaxPixelRatio)
	}

	if cfg.Showcase.TargetSize != 5 {
		t.Errorf("expected target size 5, got %v", cfg.Showcase.TargetSize)
	}
	if !cfg.Showcase.EnableHover {
		t.Error("expected hover enabled by default")
	}

	if cfg.Intro.Duration.Std() != 2500*time.Millisecond {
		t.Errorf("expected intro 2.5s, got %v", cfg.Intro.Duration)
	}
	if cfg.Intro.Grace.Std() != 600*time.Millisecond {
		t.Errorf("expected grace 600ms, got %v", cfg.Intro.Grace)
	}
	if cfg.Intro.StartRadius != 20 || cfg.Intro.StartHeight != 10 {
		t.Errorf("unexpected start orbit %v/%v", cfg.Intro.StartRadius, cfg.Intro.StartHeight)
	}
	if cfg.Intro.StartAngle != float32(-math.Pi/2) {
		t.Errorf("expected start angle -pi/2, got %v", cfg.Intro.StartAngle)
	}
	if cfg.Intro.FinalPosition != [3]float32{10, 5, 6} {
		t.Errorf("unexpected final position %v", cfg.Intro.FinalPosition)
	}
	if cfg.Intro.LookTarget != [3]float32{1, 3, 0} {
		t.Errorf("unexpected look target %v", cfg.Intro.LookTarget)
	}

	in := cfg.Interaction
	if in.Sensitivity != 0.004 || in.LerpFactor != 0.1 || in.EdgeThreshold != 0.9 {
		t.Errorf("unexpected manual yaw tuning %+v", in)
	}
	if in.AutoSpinSpeed != 0.01 || in.HoverScale != 1.06 {
		t.Errorf("unexpected spin/hover tuning %+v", in)
	}
	if in.ZoomMin != 2 || in.ZoomMax != 15 {
		t.Errorf("expected zoom range [2, 15], got [%v, %v]", in.ZoomMin, in.ZoomMax)
	}

	if cfg.Showcase.ShadowResolution != 2048 {
		t.Errorf("expected shadow resolution 2048, got %d", cfg.Showcase.ShadowResolution)
	}
	if len(cfg.Showcase.AssetRoots) != 1 || cfg.Showcase.AssetRoots[0] != "." {
		t.Errorf("expected asset roots [.], got %v", cfg.Showcase.AssetRoots)
	}
	if cfg.Window.ScreenshotDir != "screenshots" {
		t.Errorf("expected screenshot dir 'screenshots', got %s", cfg.Window.ScreenshotDir)
	}
	if !cfg.Audio.Enabled || cfg.Audio.Volume != 0.8 {
		t.Errorf("unexpected audio defaults %+v", cfg.Audio)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "showroom.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

showcase:
  asset_url: "https://cdn.example.com/cobra.obj"
  target_size: 8
  enable_hover: false
  color_hex: "#ff4444"

intro:
  duration: 3s
  grace: 250ms
  final_position: [8, 4, 8]

interaction:
  zoom_min: 3
  zoom_max: 12

logging:
  level: "debug"
  log_file: "showroom.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen || cfg.Window.VSync {
		t.Error("expected fullscreen on and vsync off")
	}
	if cfg.Showcase.AssetURL != "https://cdn.example.com/cobra.obj" {
		t.Errorf("unexpected asset url %s", cfg.Showcase.AssetURL)
	}
	if cfg.Showcase.TargetSize != 8 || cfg.Showcase.EnableHover {
		t.Errorf("unexpected showcase %+v", cfg.Showcase)
	}
	if cfg.Showcase.ColorHex != "#ff4444" {
		t.Errorf("unexpected color %s", cfg.Showcase.ColorHex)
	}
	if cfg.Intro.Duration.Std() != 3*time.Second || cfg.Intro.Grace.Std() != 250*time.Millisecond {
		t.Errorf("unexpected intro timing %v/%v", cfg.Intro.Duration, cfg.Intro.Grace)
	}
	if cfg.Intro.FinalPosition != [3]float32{8, 4, 8} {
		t.Errorf("unexpected final position %v", cfg.Intro.FinalPosition)
	}
	// Untouched keys keep their defaults.
	if cfg.Intro.LookTarget != [3]float32{1, 3, 0} {
		t.Errorf("look target should keep default, got %v", cfg.Intro.LookTarget)
	}
	if cfg.Interaction.ZoomMin != 3 || cfg.Interaction.ZoomMax != 12 {
		t.Errorf("unexpected zoom range [%v, %v]", cfg.Interaction.ZoomMin, cfg.Interaction.ZoomMax)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "showroom.log" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromFileTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "showroom.toml")

	tomlContent := `
[showcase]
asset_url = "models/car.glb"
target_size = 6.5

[intro]
duration = "1500ms"
look_target = [0.0, 1.0, 0.0]

[interaction]
sensitivity = 0.008
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Showcase.AssetURL != "models/car.glb" || cfg.Showcase.TargetSize != 6.5 {
		t.Errorf("unexpected showcase %+v", cfg.Showcase)
	}
	if cfg.Intro.Duration.Std() != 1500*time.Millisecond {
		t.Errorf("expected 1.5s intro, got %v", cfg.Intro.Duration)
	}
	if cfg.Intro.LookTarget != [3]float32{0, 1, 0} {
		t.Errorf("unexpected look target %v", cfg.Intro.LookTarget)
	}
	if cfg.Interaction.Sensitivity != 0.008 {
		t.Errorf("unexpected sensitivity %v", cfg.Interaction.Sensitivity)
	}
	if cfg.Window.Width != 1280 {
		t.Errorf("window width should keep default, got %d", cfg.Window.Width)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileBadDuration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("intro:\n  duration: soon\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for unparsable duration")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/showroom.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero target size", mutate: func(c *Config) { c.Showcase.TargetSize = 0 }, wantErr: true},
		{name: "zero duration", mutate: func(c *Config) { c.Intro.Duration = 0 }, wantErr: true},
		{name: "negative grace", mutate: func(c *Config) { c.Intro.Grace = Duration(-time.Second) }, wantErr: true},
		{name: "far before near", mutate: func(c *Config) { c.Intro.Far = 0.01 }, wantErr: true},
		{name: "lerp factor zero", mutate: func(c *Config) { c.Interaction.LerpFactor = 0 }, wantErr: true},
		{name: "lerp factor one", mutate: func(c *Config) { c.Interaction.LerpFactor = 1 }},
		{name: "inverted zoom range", mutate: func(c *Config) { c.Interaction.ZoomMin = 20 }, wantErr: true},
		{name: "empty window", mutate: func(c *Config) { c.Window.Width = 0 }, wantErr: true},
		{name: "final pose beyond zoom", mutate: func(c *Config) { c.Interaction.ZoomMax = 10 }, wantErr: true},
		{name: "final pose inside zoom", mutate: func(c *Config) { c.Interaction.ZoomMin = 10.5 }},
		{name: "final pose too close", mutate: func(c *Config) { c.Intro.FinalPosition = [3]float32{1, 3, 1} }, wantErr: true},
		{name: "loud audio", mutate: func(c *Config) { c.Audio.Volume = 1.5 }, wantErr: true},
		{name: "silent audio", mutate: func(c *Config) { c.Audio.Volume = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "showroom.yaml")

	cfg := Default()
	cfg.Showcase.AssetURL = "garage/coupe.obj"
	cfg.Intro.Duration = Duration(4 * time.Second)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Showcase.AssetURL != "garage/coupe.obj" {
		t.Errorf("asset url lost in round trip: %s", loaded.Showcase.AssetURL)
	}
	if loaded.Intro.Duration.Std() != 4*time.Second {
		t.Errorf("duration lost in round trip: %v", loaded.Intro.Duration)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "showroom.toml"), []byte("[window]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find showroom.toml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "asset and scale flags",
			setup: func() { *flagAsset = "car.obj"; *flagScale = 8 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Showcase.AssetURL != "car.obj" {
					t.Errorf("expected asset car.obj, got %s", cfg.Showcase.AssetURL)
				}
				if cfg.Showcase.TargetSize != 8 {
					t.Errorf("expected target size 8, got %v", cfg.Showcase.TargetSize)
				}
			},
			teardown: func() { *flagAsset = ""; *flagScale = 0 },
		},
		{
			name:  "no-hover flag",
			setup: func() { *flagNoHover = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Showcase.EnableHover {
					t.Error("expected hover disabled")
				}
			},
			teardown: func() { *flagNoHover = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name:  "width and height flags",
			setup: func() { *flagWidth = 2560; *flagHeight = 1440 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() { *flagWidth = 0; *flagHeight = 0 },
		},
		{
			name:  "mute flag",
			setup: func() { *flagMute = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Audio.Enabled {
					t.Error("expected audio disabled with mute flag")
				}
			},
			teardown: func() { *flagMute = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "showroom.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "showroom.yaml")
	if err := os.WriteFile(configPath, []byte("showcase:\n  target_size: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected validation error for negative target size")
	}
}
