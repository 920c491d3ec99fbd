// Package config handles showroom configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config holds every showroom setting.
type Config struct {
	Window      WindowConfig      `yaml:"window" toml:"window"`
	Showcase    ShowcaseConfig    `yaml:"showcase" toml:"showcase"`
	Intro       IntroConfig       `yaml:"intro" toml:"intro"`
	Interaction InteractionConfig `yaml:"interaction" toml:"interaction"`
	Lighting    LightingConfig    `yaml:"lighting" toml:"lighting"`
	Audio       AudioConfig       `yaml:"audio" toml:"audio"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// WindowConfig holds display settings for the host window.
type WindowConfig struct {
	Title         string  `yaml:"title" toml:"title"`
	Width         int     `yaml:"width" toml:"width"`
	Height        int     `yaml:"height" toml:"height"`
	Fullscreen    bool    `yaml:"fullscreen" toml:"fullscreen"`
	VSync         bool    `yaml:"vsync" toml:"vsync"`
	MaxPixelRatio float32 `yaml:"max_pixel_ratio" toml:"max_pixel_ratio"`
	ScreenshotDir string  `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

// ShowcaseConfig is the public configuration surface of the background.
type ShowcaseConfig struct {
	AssetURL       string  `yaml:"asset_url" toml:"asset_url"`
	TargetSize     float32 `yaml:"target_size" toml:"target_size"`
	EnableHover    bool    `yaml:"enable_hover" toml:"enable_hover"`
	InitialYaw     float32 `yaml:"initial_yaw" toml:"initial_yaw"`
	ColorHex       string  `yaml:"color_hex" toml:"color_hex"`
	Shadows        bool    `yaml:"shadows" toml:"shadows"`
	EnvironmentMap string  `yaml:"environment_map" toml:"environment_map"`

	// AssetRoots are searched for relative asset paths; later roots win.
	AssetRoots       []string `yaml:"asset_roots" toml:"asset_roots"`
	ShadowResolution int32    `yaml:"shadow_resolution" toml:"shadow_resolution"`
}

// IntroConfig describes the scripted camera introduction.
type IntroConfig struct {
	Duration      Duration   `yaml:"duration" toml:"duration"`
	Grace         Duration   `yaml:"grace" toml:"grace"`
	StartRadius   float32    `yaml:"start_radius" toml:"start_radius"`
	StartHeight   float32    `yaml:"start_height" toml:"start_height"`
	StartAngle    float32    `yaml:"start_angle" toml:"start_angle"`
	FinalPosition [3]float32 `yaml:"final_position" toml:"final_position"`
	LookTarget    [3]float32 `yaml:"look_target" toml:"look_target"`
	FOV           float32    `yaml:"fov" toml:"fov"`
	Near          float32    `yaml:"near" toml:"near"`
	Far           float32    `yaml:"far" toml:"far"`
}

// InteractionConfig holds the input arbitration constants.
type InteractionConfig struct {
	Sensitivity   float32 `yaml:"sensitivity" toml:"sensitivity"`
	LerpFactor    float32 `yaml:"lerp_factor" toml:"lerp_factor"`
	EdgeThreshold float32 `yaml:"edge_threshold" toml:"edge_threshold"`
	EdgeSpeed     float32 `yaml:"edge_speed" toml:"edge_speed"`
	AutoSpinSpeed float32 `yaml:"auto_spin_speed" toml:"auto_spin_speed"`
	HoverScale    float32 `yaml:"hover_scale" toml:"hover_scale"`
	ZoomStep      float32 `yaml:"zoom_step" toml:"zoom_step"`
	ZoomMin       float32 `yaml:"zoom_min" toml:"zoom_min"`
	ZoomMax       float32 `yaml:"zoom_max" toml:"zoom_max"`
	BasePitch     float32 `yaml:"base_pitch" toml:"base_pitch"`
}

// LightingConfig holds the explicit light rig and ground plane.
type LightingConfig struct {
	AmbientColor         string     `yaml:"ambient_color" toml:"ambient_color"`
	AmbientIntensity     float32    `yaml:"ambient_intensity" toml:"ambient_intensity"`
	DirectionalColor     string     `yaml:"directional_color" toml:"directional_color"`
	DirectionalIntensity float32    `yaml:"directional_intensity" toml:"directional_intensity"`
	DirectionalPosition  [3]float32 `yaml:"directional_position" toml:"directional_position"`
	GroundY              float32    `yaml:"ground_y" toml:"ground_y"`
	GroundColor          string     `yaml:"ground_color" toml:"ground_color"`
}

// AudioConfig holds the optional ambience loop and reveal cue.
type AudioConfig struct {
	Enabled   bool    `yaml:"enabled" toml:"enabled"`
	Volume    float64 `yaml:"volume" toml:"volume"`
	Ambience  string  `yaml:"ambience" toml:"ambience"`
	RevealCue string  `yaml:"reveal_cue" toml:"reveal_cue"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with the stock showcase tuning.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "Showroom",
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			MaxPixelRatio: 2,
			ScreenshotDir: "screenshots",
		},
		Showcase: ShowcaseConfig{
			AssetURL:         "assets/vehicle.glb",
			TargetSize:       5,
			EnableHover:      true,
			InitialYaw:       0,
			ColorHex:         "",
			Shadows:          true,
			AssetRoots:       []string{"."},
			ShadowResolution: 2048,
		},
		Intro: IntroConfig{
			Duration:      Duration(2500 * time.Millisecond),
			Grace:         Duration(600 * time.Millisecond),
			StartRadius:   20,
			StartHeight:   10,
			StartAngle:    -math.Pi / 2,
			FinalPosition: [3]float32{10, 5, 6},
			LookTarget:    [3]float32{1, 3, 0},
			FOV:           45,
			Near:          0.1,
			Far:           1000,
		},
		Interaction: InteractionConfig{
			Sensitivity:   0.004,
			LerpFactor:    0.1,
			EdgeThreshold: 0.9,
			EdgeSpeed:     0.02,
			AutoSpinSpeed: 0.01,
			HoverScale:    1.06,
			ZoomStep:      0.5,
			ZoomMin:       2,
			ZoomMax:       15,
			BasePitch:     0,
		},
		Lighting: LightingConfig{
			AmbientColor:         "#ffffff",
			AmbientIntensity:     0.6,
			DirectionalColor:     "#ffffff",
			DirectionalIntensity: 0.8,
			DirectionalPosition:  [3]float32{5, 10, 7},
			GroundY:              -1.5,
			GroundColor:          "#1f2937",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// FinalDistance is the distance from the intro's final camera position
// to its look target, where zoom starts.
func (c IntroConfig) FinalDistance() float32 {
	var sum float64
	for i := range c.FinalPosition {
		d := float64(c.FinalPosition[i] - c.LookTarget[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

// Validate reports the first setting that cannot drive a showcase.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Showcase.TargetSize <= 0 {
		errs = append(errs, fmt.Errorf("showcase.target_size %v must be positive", c.Showcase.TargetSize))
	}
	if c.Intro.Duration <= 0 {
		errs = append(errs, fmt.Errorf("intro.duration %v must be positive", c.Intro.Duration))
	}
	if c.Intro.Grace < 0 {
		errs = append(errs, fmt.Errorf("intro.grace %v must not be negative", c.Intro.Grace))
	}
	if c.Intro.Near <= 0 || c.Intro.Far <= c.Intro.Near {
		errs = append(errs, fmt.Errorf("intro near/far %v/%v out of order", c.Intro.Near, c.Intro.Far))
	}
	if c.Interaction.LerpFactor <= 0 || c.Interaction.LerpFactor > 1 {
		errs = append(errs, fmt.Errorf("interaction.lerp_factor %v must be in (0, 1]", c.Interaction.LerpFactor))
	}
	if c.Interaction.ZoomMin > c.Interaction.ZoomMax {
		errs = append(errs, fmt.Errorf("interaction.zoom_min %v exceeds zoom_max %v", c.Interaction.ZoomMin, c.Interaction.ZoomMax))
	}
	if d := c.Intro.FinalDistance(); d < c.Interaction.ZoomMin || d > c.Interaction.ZoomMax {
		errs = append(errs, fmt.Errorf("intro final distance %v outside zoom range [%v, %v]",
			d, c.Interaction.ZoomMin, c.Interaction.ZoomMax))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume %v must be in [0, 1]", c.Audio.Volume))
	}
	return errors.Join(errs...)
}
