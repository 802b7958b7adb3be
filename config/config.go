// Package config provides configuration loading and access for the effects.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/stardust/surface"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all effect configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Trail     TrailConfig     `yaml:"trail"`
	Starfield StarfieldConfig `yaml:"starfield"`
	Aurora    AuroraConfig    `yaml:"aurora"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

// Range is a base value plus a uniformly random extra in [0, Spread).
type Range struct {
	Base   float64 `yaml:"base"`
	Spread float64 `yaml:"spread"`
}

// TrailConfig holds cursor trail parameters.
type TrailConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Layer         string   `yaml:"layer"`
	Z             int      `yaml:"z"` // Presentation depth, higher is in front
	MaxParticles  int      `yaml:"max_particles"`
	EmitGateMS    float64  `yaml:"emit_gate_ms"` // Skip emission when the frame gap is at least this long
	FadeColor     string   `yaml:"fade_color"`
	FadeAlpha     float64  `yaml:"fade_alpha"`
	Opacity       float64  `yaml:"opacity"` // Alpha = life * opacity
	Glow          float64  `yaml:"glow"`
	Points        int      `yaml:"points"`
	InnerRatio    float64  `yaml:"inner_ratio"`
	Size          Range    `yaml:"size"`
	Speed         Range    `yaml:"speed"`
	Decay         Range    `yaml:"decay"`
	RotationSpeed float64  `yaml:"rotation_speed"` // Max absolute rotation speed is half of this
	Palette       []string `yaml:"palette"`
}

// StarLayerConfig holds per-depth-layer star parameters.
type StarLayerConfig struct {
	Name    string  `yaml:"name"`
	Size    Range   `yaml:"size"`
	Opacity float64 `yaml:"opacity"`
}

// WeightedColor is a palette entry with a selection weight.
type WeightedColor struct {
	Color  string  `yaml:"color"`
	Weight float64 `yaml:"weight"`
}

// StarfieldConfig holds starfield parameters.
type StarfieldConfig struct {
	Enabled       bool              `yaml:"enabled"`
	Layer         string            `yaml:"layer"`
	Z             int               `yaml:"z"`
	Density       float64           `yaml:"density"` // Pixels² per star
	FadeColor     string            `yaml:"fade_color"`
	FadeAlpha     float64           `yaml:"fade_alpha"`
	ParallaxStep  float64           `yaml:"parallax_step"`  // Factor = (layers - layer) * step
	ParallaxScale float64           `yaml:"parallax_scale"` // Pixels of displacement per unit factor
	TwinkleSpeed  Range             `yaml:"twinkle_speed"`
	Brightness    Range             `yaml:"brightness"`
	GlowBlur      float64           `yaml:"glow_blur"`
	GlowMinSize   float64           `yaml:"glow_min_size"`
	Layers        []StarLayerConfig `yaml:"layers"`
	Palette       []WeightedColor   `yaml:"palette"`
}

// NoiseScale holds the coordinate multipliers for noise sampling.
type NoiseScale struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// AuroraConfig holds aurora parameters.
type AuroraConfig struct {
	Enabled       bool       `yaml:"enabled"`
	Layer         string     `yaml:"layer"`
	Z             int        `yaml:"z"`
	Density       float64    `yaml:"density"` // Pixels² per ray
	MinRays       int        `yaml:"min_rays"`
	MaxRays       int        `yaml:"max_rays"`
	Length        Range      `yaml:"length"`
	Speed         Range      `yaml:"speed"`
	Width         Range      `yaml:"width"`
	Hue           Range      `yaml:"hue"`
	TTL           Range      `yaml:"ttl"`
	NoiseStrength float64    `yaml:"noise_strength"`
	NoiseScale    NoiseScale `yaml:"noise_scale"`
	NoiseKind     string     `yaml:"noise"` // "simplex" or "perlin"
	NoisePollMS   int        `yaml:"noise_poll_ms"`
	NoiseMaxPolls int        `yaml:"noise_max_polls"` // 0 = wait indefinitely
	NoiseDelayMS  int        `yaml:"noise_delay_ms"`  // Artificial load latency
	MaxOpacity    float64    `yaml:"max_opacity"`
	Saturation    float64    `yaml:"saturation"`
	Lightness     float64    `yaml:"lightness"`
	Background    string     `yaml:"background"`
	Blur          float64    `yaml:"blur"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`  // Frames in the rolling timing window
	LogInterval float64 `yaml:"log_interval"` // Seconds between summary log lines
	StallMS     float64 `yaml:"stall_ms"`     // Frames longer than this count as stalls
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TrailFade      color.NRGBA
	TrailPalette   surface.UniformPalette
	TrailGate      time.Duration
	StarFade       color.NRGBA
	StarPalette    *surface.WeightedPalette
	AuroraBack     color.NRGBA
	NoisePoll      time.Duration
	NoiseDelay     time.Duration
	StallThreshold time.Duration
	LogInterval    time.Duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	var err error

	if c.Derived.TrailFade, err = fadeColor(c.Trail.FadeColor, c.Trail.FadeAlpha); err != nil {
		return fmt.Errorf("trail.fade_color: %w", err)
	}
	c.Derived.TrailPalette = make(surface.UniformPalette, 0, len(c.Trail.Palette))
	for _, hex := range c.Trail.Palette {
		col, err := surface.ParseHex(hex)
		if err != nil {
			return fmt.Errorf("trail.palette: %w", err)
		}
		c.Derived.TrailPalette = append(c.Derived.TrailPalette, col)
	}
	if len(c.Derived.TrailPalette) == 0 {
		return fmt.Errorf("trail.palette: at least one color required")
	}
	c.Derived.TrailGate = time.Duration(c.Trail.EmitGateMS * float64(time.Millisecond))

	if c.Derived.StarFade, err = fadeColor(c.Starfield.FadeColor, c.Starfield.FadeAlpha); err != nil {
		return fmt.Errorf("starfield.fade_color: %w", err)
	}
	entries := make([]surface.WeightedColor, 0, len(c.Starfield.Palette))
	for _, wc := range c.Starfield.Palette {
		col, err := surface.ParseHex(wc.Color)
		if err != nil {
			return fmt.Errorf("starfield.palette: %w", err)
		}
		entries = append(entries, surface.WeightedColor{Color: col, Weight: wc.Weight})
	}
	if c.Derived.StarPalette, err = surface.NewWeightedPalette(entries); err != nil {
		return fmt.Errorf("starfield.palette: %w", err)
	}
	if len(c.Starfield.Layers) == 0 {
		return fmt.Errorf("starfield.layers: at least one layer required")
	}

	if c.Derived.AuroraBack, err = surface.ParseHex(c.Aurora.Background); err != nil {
		return fmt.Errorf("aurora.background: %w", err)
	}
	if c.Aurora.MinRays > c.Aurora.MaxRays {
		return fmt.Errorf("aurora: min_rays %d exceeds max_rays %d", c.Aurora.MinRays, c.Aurora.MaxRays)
	}
	c.Derived.NoisePoll = time.Duration(c.Aurora.NoisePollMS) * time.Millisecond
	if c.Derived.NoisePoll <= 0 {
		c.Derived.NoisePoll = 100 * time.Millisecond
	}
	c.Derived.NoiseDelay = time.Duration(c.Aurora.NoiseDelayMS) * time.Millisecond

	c.Derived.StallThreshold = time.Duration(c.Telemetry.StallMS * float64(time.Millisecond))
	c.Derived.LogInterval = time.Duration(c.Telemetry.LogInterval * float64(time.Second))
	if c.Derived.LogInterval <= 0 {
		c.Derived.LogInterval = 5 * time.Second
	}
	return nil
}

func fadeColor(hex string, alpha float64) (color.NRGBA, error) {
	col, err := surface.ParseHex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	return surface.WithAlpha(col, alpha), nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
