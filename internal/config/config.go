package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/matix/internal/core/engine"
	"github.com/zeusync/matix/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Renderer backends.
const (
	BackendTerm   = "term"
	BackendWindow = "window"
	BackendNone   = "none"
)

// Config is the whole game description: engine settings, parts table and scenes.
type Config struct {
	Log        LogConfig     `yaml:"log"`
	Engine     EngineConfig  `yaml:"engine"`
	Render     RenderConfig  `yaml:"render"`
	Audio      AudioConfig   `yaml:"audio"`
	Minimap    MinimapConfig `yaml:"minimap"`
	Parts      []PartConfig  `yaml:"parts"`
	Scenes     []SceneConfig `yaml:"scenes"`
	StartScene string        `yaml:"start_scene,omitempty"`
}

type LogConfig struct {
	Level    string   `yaml:"level"`
	Encoding string   `yaml:"encoding"`
	Output   []string `yaml:"output,omitempty"`
}

type EngineConfig struct {
	MaxFPS  int     `yaml:"max_fps"`
	Gravity float64 `yaml:"gravity"`
	// FixedStep replaces the wall clock with a constant frame time when positive.
	FixedStep float64 `yaml:"fixed_step,omitempty"`
	// Frames stops the game after that many frames when positive.
	Frames int `yaml:"frames,omitempty"`
}

type RenderConfig struct {
	Backend string `yaml:"backend"`
	Title   string `yaml:"title"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	// Keys maps action names to key names, e.g. forward: z.
	Keys map[string]string `yaml:"keys,omitempty"`
}

type AudioConfig struct {
	Enabled    bool          `yaml:"enabled"`
	SampleRate int           `yaml:"sample_rate"`
	Frequency  float64       `yaml:"frequency"`
	Duration   time.Duration `yaml:"duration"`
	Cooldown   time.Duration `yaml:"cooldown"`
}

// MinimapConfig enables the top-down WebP snapshot written when a scene is loaded.
type MinimapConfig struct {
	Path      string `yaml:"path,omitempty"`
	CellPixel int    `yaml:"cell_pixels,omitempty"`
}

// PartConfig binds a single character tile id to what it spawns.
type PartConfig struct {
	ID      string `yaml:"id"`
	Texture string `yaml:"texture"`
	Type    string `yaml:"type"`
	Dynamic bool   `yaml:"dynamic,omitempty"`
}

type SceneConfig struct {
	Name       string         `yaml:"name"`
	Map        string         `yaml:"map,omitempty"`
	Width      int            `yaml:"width,omitempty"`
	Height     int            `yaml:"height,omitempty"`
	Multiplier float64        `yaml:"multiplier,omitempty"`
	Graphic    *bool          `yaml:"graphic,omitempty"`
	Physic     *bool          `yaml:"physic,omitempty"`
	Objects    []ObjectConfig `yaml:"objects,omitempty"`
}

type ObjectConfig struct {
	Name           string    `yaml:"name"`
	Type           string    `yaml:"type"`
	Parent         string    `yaml:"parent,omitempty"`
	Position       []float64 `yaml:"position,omitempty"`
	Rotation       []float64 `yaml:"rotation,omitempty"`
	Scale          []float64 `yaml:"scale,omitempty"`
	Fixed          []bool    `yaml:"fixed,omitempty"`
	Texture        string    `yaml:"texture,omitempty"`
	Dynamic        bool      `yaml:"dynamic,omitempty"`
	Weight         float64   `yaml:"weight,omitempty"`
	Collision      bool      `yaml:"collision,omitempty"`
	CollisionWidth float64   `yaml:"collision_width,omitempty"`
	Graphic        *bool     `yaml:"graphic,omitempty"`
	Physic         *bool     `yaml:"physic,omitempty"`
}

// DefaultKeys is the AZERTY layout the engine ships with.
func DefaultKeys() map[string]string {
	return map[string]string{
		engine.ActionForward.String():   "z",
		engine.ActionBack.String():      "s",
		engine.ActionLeft.String():      "q",
		engine.ActionRight.String():     "d",
		engine.ActionUp.String():        "a",
		engine.ActionDown.String():      "w",
		engine.ActionTurnLeft.String():  "left",
		engine.ActionTurnRight.String(): "right",
		engine.ActionLookUp.String():    "up",
		engine.ActionLookDown.String():  "down",
		engine.ActionQuit.String():      "esc",
	}
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Engine: EngineConfig{
			MaxFPS:  5000,
			Gravity: engine.DefaultGravity,
		},
		Render: RenderConfig{
			Backend: BackendTerm,
			Title:   "Matix",
			Width:   1280,
			Height:  720,
			Keys:    DefaultKeys(),
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			Frequency:  220,
			Duration:   60 * time.Millisecond,
			Cooldown:   250 * time.Millisecond,
		},
		Minimap: MinimapConfig{CellPixel: 8},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default. Unknown keys are rejected. An empty
// document yields the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the engine cannot recover from. Duplicate scene or
// object names are not checked here: the engine reports them as warnings.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	switch c.Log.Encoding {
	case "", "console", "json":
	default:
		return invalid("log.encoding %q", c.Log.Encoding)
	}

	if c.Engine.MaxFPS < 0 {
		return invalid("engine.max_fps must not be negative")
	}
	if c.Engine.FixedStep < 0 {
		return invalid("engine.fixed_step must not be negative")
	}

	switch c.Render.Backend {
	case BackendTerm, BackendWindow, BackendNone:
	default:
		return invalid("render.backend %q", c.Render.Backend)
	}
	for action := range c.Render.Keys {
		if _, ok := engine.ParseAction(action); !ok {
			return invalid("render.keys: unknown action %q", action)
		}
	}

	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return invalid("audio.sample_rate must be positive")
	}

	for i, p := range c.Parts {
		if len(p.ID) != 1 {
			return invalid("parts[%d].id %q must be a single character", i, p.ID)
		}
	}

	found := c.StartScene == ""
	for i, s := range c.Scenes {
		if err := s.validate(); err != nil {
			return invalid("scenes[%d]: %v", i, err)
		}
		found = found || s.Name == c.StartScene
	}
	if !found {
		return invalid("start_scene %q is not declared", c.StartScene)
	}
	return nil
}

func (s *SceneConfig) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Width < 0 || s.Height < 0 {
		return errors.New("size must not be negative")
	}
	if s.Multiplier < 0 {
		return errors.New("multiplier must not be negative")
	}
	for i, o := range s.Objects {
		if err := o.validate(); err != nil {
			return fmt.Errorf("objects[%d]: %w", i, err)
		}
	}
	return nil
}

func (o *ObjectConfig) validate() error {
	if o.Name == "" {
		return errors.New("name is required")
	}
	for field, v := range map[string][]float64{"position": o.Position, "rotation": o.Rotation, "scale": o.Scale} {
		if len(v) != 0 && len(v) != 3 {
			return fmt.Errorf("%s needs 3 components, got %d", field, len(v))
		}
	}
	if len(o.Fixed) != 0 && len(o.Fixed) != 3 {
		return fmt.Errorf("fixed needs 3 flags, got %d", len(o.Fixed))
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Vec3 converts a validated vector, returning def when it is unset.
func Vec3(v []float64, def mgl64.Vec3) mgl64.Vec3 {
	if len(v) != 3 {
		return def
	}
	return mgl64.Vec3{v[0], v[1], v[2]}
}

// Flags converts validated fixed flags.
func Flags(v []bool) [3]bool {
	if len(v) != 3 {
		return [3]bool{}
	}
	return [3]bool{v[0], v[1], v[2]}
}

// Bool dereferences an optional flag.
func Bool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Logger converts the section into the logger configuration.
func (l LogConfig) Logger() log.Config {
	level, _ := log.ParseLevel(l.Level)
	return log.Config{Level: level, Encoding: l.Encoding, Output: l.Output}
}
