// Package config loads the daemon's YAML configuration: engine and
// monitor settings plus the watch definitions compiled into engine
// packets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/r2d2m/graphy/pkg/graphy"
)

// Duration wraps time.Duration so cooldowns read naturally in YAML
// ("500ms", "2s", "1m30s").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the daemon's runtime settings.
type Config struct {
	Prefix        string
	FrameInterval time.Duration
	ScreenshotDir string
	FPSWindow     int
	RAMPoll       time.Duration
	AudioFalloff  float64
	BreakEnabled  bool
	Watches       []WatchConfig
}

// FileConfig represents supported YAML overrides.
type FileConfig struct {
	Prefix        string        `yaml:"prefix"`
	FrameInterval Duration      `yaml:"frame_interval"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
	FPSWindow     int           `yaml:"fps_window"`
	RAMPoll       Duration      `yaml:"ram_poll_interval"`
	AudioFalloff  float64       `yaml:"audio_falloff"`
	BreakEnabled  bool          `yaml:"break_enabled"`
	Watches       []WatchConfig `yaml:"watches"`
}

// WatchConfig is one watch packet definition in the config file.
type WatchConfig struct {
	ID             int               `yaml:"id"`
	Active         *bool             `yaml:"active"` // absent means active
	ExecuteOnce    bool              `yaml:"execute_once"`
	InitDelay      Duration          `yaml:"init_delay"`
	RecheckDelay   Duration          `yaml:"recheck_delay"`
	Logic          string            `yaml:"logic"`    // ALL (default) or ANY
	Severity       string            `yaml:"severity"` // log (default), warning, error
	Message        string            `yaml:"message"`
	Screenshot     bool              `yaml:"screenshot"`
	ScreenshotName string            `yaml:"screenshot_name"`
	Break          bool              `yaml:"break"`
	Conditions     []ConditionConfig `yaml:"conditions"`
}

// ConditionConfig is one threshold comparison inside a watch.
type ConditionConfig struct {
	Variable   string  `yaml:"variable"`
	Comparator string  `yaml:"comparator"`
	Threshold  float64 `yaml:"threshold"`
}

// DefaultConfig returns the built-in settings and watch set.
func DefaultConfig() Config {
	return Config{
		Prefix:        "graphy",
		FrameInterval: 16 * time.Millisecond,
		ScreenshotDir: "screenshots",
		FPSWindow:     120,
		RAMPoll:       time.Second,
		AudioFalloff:  6,
		BreakEnabled:  false,
		Watches:       DefaultWatches(),
	}
}

// DefaultWatches is the built-in watch set. The ids are stable so hosts
// can look packets up and attach callbacks.
func DefaultWatches() []WatchConfig {
	return []WatchConfig{
		{
			ID:           1,
			InitDelay:    Duration(5 * time.Second),
			RecheckDelay: Duration(10 * time.Second),
			Conditions:   []ConditionConfig{{Variable: "fps_avg", Comparator: "<", Threshold: 30}},
			Severity:     "warning",
			Message:      "average frame rate below 30",
		},
		{
			ID:             2,
			InitDelay:      Duration(5 * time.Second),
			RecheckDelay:   Duration(30 * time.Second),
			Conditions:     []ConditionConfig{{Variable: "fps", Comparator: "<", Threshold: 15}},
			Severity:       "error",
			Message:        "frame rate critically low",
			Screenshot:     true,
			ScreenshotName: "fps_drop",
		},
		{
			ID:           3,
			InitDelay:    Duration(10 * time.Second),
			RecheckDelay: Duration(time.Minute),
			Conditions:   []ConditionConfig{{Variable: "ram_allocated", Comparator: ">", Threshold: 2 * 1024 * 1024 * 1024}},
			Severity:     "warning",
			Message:      "resident memory above 2 GiB",
		},
		{
			ID:           4,
			RecheckDelay: Duration(2 * time.Second),
			Conditions:   []ConditionConfig{{Variable: "audio_peak", Comparator: ">=", Threshold: 0.99}},
			Severity:     "warning",
			Message:      "audio output clipping",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var fileCfg FileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyFileConfig(&cfg, fileCfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFileConfig overlays set fields onto the defaults. Zero means
// unset; out-of-range values are carried through so Validate rejects
// them instead of silently keeping the default.
func applyFileConfig(cfg *Config, fileCfg FileConfig) {
	if fileCfg.Prefix != "" {
		cfg.Prefix = fileCfg.Prefix
	}
	if fileCfg.FrameInterval != 0 {
		cfg.FrameInterval = fileCfg.FrameInterval.Std()
	}
	if fileCfg.ScreenshotDir != "" {
		cfg.ScreenshotDir = fileCfg.ScreenshotDir
	}
	if fileCfg.FPSWindow != 0 {
		cfg.FPSWindow = fileCfg.FPSWindow
	}
	if fileCfg.RAMPoll != 0 {
		cfg.RAMPoll = fileCfg.RAMPoll.Std()
	}
	if fileCfg.AudioFalloff != 0 {
		cfg.AudioFalloff = fileCfg.AudioFalloff
	}
	if fileCfg.BreakEnabled {
		cfg.BreakEnabled = true
	}
	if fileCfg.Watches != nil {
		// A watch list in the file replaces the built-in set.
		cfg.Watches = fileCfg.Watches
	}
}

// Validate checks the settings and compiles the watch definitions once so
// a bad file fails at load time, not mid-loop.
func (c Config) Validate() error {
	if c.Prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive")
	}
	if c.FPSWindow < 1 {
		return fmt.Errorf("fps_window must be at least 1")
	}
	if c.RAMPoll <= 0 {
		return fmt.Errorf("ram_poll_interval must be positive")
	}
	if c.AudioFalloff <= 0 {
		return fmt.Errorf("audio_falloff must be positive")
	}
	if _, err := c.CompileWatches(); err != nil {
		return fmt.Errorf("watches: %w", err)
	}
	return nil
}

// CompileWatches converts the watch definitions into engine packets,
// validating every enum strictly.
func (c Config) CompileWatches() ([]*graphy.WatchPacket, error) {
	packets := make([]*graphy.WatchPacket, 0, len(c.Watches))
	for i, wc := range c.Watches {
		p, err := wc.compile()
		if err != nil {
			return nil, fmt.Errorf("watch %d (id %d): %w", i, wc.ID, err)
		}
		packets = append(packets, p)
	}
	return packets, nil
}

func (wc WatchConfig) compile() (*graphy.WatchPacket, error) {
	logic := graphy.LogicAll
	if wc.Logic != "" {
		var err error
		if logic, err = graphy.ParseLogic(wc.Logic); err != nil {
			return nil, err
		}
	}
	sev := graphy.SeverityLog
	if wc.Severity != "" {
		var err error
		if sev, err = graphy.ParseSeverity(wc.Severity); err != nil {
			return nil, err
		}
	}
	conditions := make([]graphy.Condition, 0, len(wc.Conditions))
	for _, cc := range wc.Conditions {
		v, err := graphy.ParseVariable(cc.Variable)
		if err != nil {
			return nil, err
		}
		cmp, err := graphy.ParseComparator(cc.Comparator)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, graphy.Condition{
			Variable:   v,
			Comparator: cmp,
			Threshold:  cc.Threshold,
		})
	}

	// A negative delay would make the packet permanently eligible.
	if wc.InitDelay < 0 {
		return nil, fmt.Errorf("init_delay must not be negative")
	}
	if wc.RecheckDelay < 0 {
		return nil, fmt.Errorf("recheck_delay must not be negative")
	}

	name := wc.ScreenshotName
	if wc.Screenshot && name == "" {
		name = "graphy"
	}

	p := graphy.NewWatchPacket(wc.ID, logic, conditions...)
	if wc.Active != nil {
		p.Active = *wc.Active
	}
	p.ExecuteOnce = wc.ExecuteOnce
	p.InitDelay = wc.InitDelay.Std()
	p.RecheckDelay = wc.RecheckDelay.Std()
	p.Actions = graphy.ActionSpec{
		Severity:       sev,
		Message:        wc.Message,
		TakeScreenshot: wc.Screenshot,
		ScreenshotName: name,
		BreakExecution: wc.Break,
	}
	return p, nil
}
