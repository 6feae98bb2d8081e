package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/voxforge/parameter"
)

// Duration wraps time.Duration so TOML values like "16ms" decode.
// toml decodes through encoding.TextUnmarshaler
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Config is the engine configuration, read once at startup.
// No live-reload contract: subsystems copy what they need at Initialize
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Render  RenderConfig  `toml:"render"`
	Audio   AudioConfig   `toml:"audio"`
	Logging LoggingConfig `toml:"logging"`
}

type EngineConfig struct {
	TargetFPS            int      `toml:"target_fps"`
	MaxFrameTime         Duration `toml:"max_frame_time"`
	FixedTimestep        Duration `toml:"fixed_timestep"`
	EnableMultithreading bool     `toml:"enable_multithreading"`
	WorkerThreads        int      `toml:"worker_threads"` // 0 = hardware concurrency
}

type RenderConfig struct {
	Distance       float64 `toml:"render_distance"`
	FrustumCulling bool    `toml:"frustum_culling"`
	Backend        string  `toml:"backend"` // "terminal" or "null"
}

type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

type LoggingConfig struct {
	Level       string `toml:"level"` // debug, info, warn, error
	Development bool   `toml:"development"`
}

// Default returns a configuration with sane runtime values
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			TargetFPS:            parameter.DefaultTargetFPS,
			MaxFrameTime:         Duration(parameter.DefaultMaxFrameTime),
			FixedTimestep:        Duration(parameter.DefaultFixedTimestep),
			EnableMultithreading: true,
			WorkerThreads:        parameter.DefaultWorkerThreads,
		},
		Render: RenderConfig{
			Distance:       parameter.DefaultRenderDistance,
			FrustumCulling: true,
			Backend:        "terminal",
		},
		Audio: AudioConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Load reads a TOML config file over the defaults.
// A missing file is not an error: defaults apply
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks scalar ranges the engine depends on
func (c *Config) Validate() error {
	if c.Engine.TargetFPS <= 0 {
		return fmt.Errorf("engine.target_fps must be positive, got %d", c.Engine.TargetFPS)
	}
	if c.Engine.FixedTimestep <= 0 {
		return fmt.Errorf("engine.fixed_timestep must be positive, got %s", c.Engine.FixedTimestep)
	}
	if c.Engine.MaxFrameTime.Std() < c.Engine.FixedTimestep.Std() {
		return fmt.Errorf("engine.max_frame_time %s must not be below fixed_timestep %s",
			c.Engine.MaxFrameTime, c.Engine.FixedTimestep)
	}
	if c.Engine.WorkerThreads < 0 {
		return fmt.Errorf("engine.worker_threads must not be negative, got %d", c.Engine.WorkerThreads)
	}
	if c.Render.Distance <= 0 {
		return fmt.Errorf("render.render_distance must be positive, got %v", c.Render.Distance)
	}
	switch c.Render.Backend {
	case "terminal", "null":
	default:
		return fmt.Errorf("render.backend must be terminal or null, got %q", c.Render.Backend)
	}
	return nil
}
