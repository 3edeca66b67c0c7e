// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Replay() ReplayConfig
	CDP() CDPConfig

	// Engine Setters
	SetEngineDelay(d time.Duration)
	SetEngineSkipPointerEventsCheck(bool)

	// Replay Setters
	SetReplayConcurrency(int)
	SetReplayFormat(string)
	SetReplayOutputDir(string)

	// CDP Setters
	SetCDPEnabled(bool)
	SetCDPHeadless(bool)
}

// Config holds the entire application configuration. It uses private
// fields to enforce access through the Interface's getter methods.
type Config struct {
	logger LoggerConfig
	engine EngineConfig
	replay ReplayConfig
	cdp    CDPConfig
}

// document is the shape of the configuration file.
type document struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Replay ReplayConfig `mapstructure:"replay" yaml:"replay"`
	CDP    CDPConfig    `mapstructure:"cdp" yaml:"cdp"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.logger }
func (c *Config) Engine() EngineConfig { return c.engine }
func (c *Config) Replay() ReplayConfig { return c.replay }
func (c *Config) CDP() CDPConfig       { return c.cdp }

// --- Interface Method Implementations (Setters) ---

// Engine Setters
func (c *Config) SetEngineDelay(d time.Duration)         { c.engine.Delay = d }
func (c *Config) SetEngineSkipPointerEventsCheck(b bool) { c.engine.SkipPointerEventsCheck = b }

// Replay Setters
func (c *Config) SetReplayConcurrency(n int)    { c.replay.Concurrency = n }
func (c *Config) SetReplayFormat(f string)      { c.replay.Format = f }
func (c *Config) SetReplayOutputDir(dir string) { c.replay.OutputDir = dir }

// CDP Setters
func (c *Config) SetCDPEnabled(b bool)  { c.cdp.Enabled = b }
func (c *Config) SetCDPHeadless(b bool) { c.cdp.Headless = b }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig holds the session options of the simulation engine.
type EngineConfig struct {
	Delay                  time.Duration `mapstructure:"delay" yaml:"delay"`
	SkipClick              bool          `mapstructure:"skip_click" yaml:"skip_click"`
	SkipHover              bool          `mapstructure:"skip_hover" yaml:"skip_hover"`
	SkipAutoClose          bool          `mapstructure:"skip_auto_close" yaml:"skip_auto_close"`
	SkipPointerEventsCheck bool          `mapstructure:"skip_pointer_events_check" yaml:"skip_pointer_events_check"`
	ApplyAccept            bool          `mapstructure:"apply_accept" yaml:"apply_accept"`
	// KeyboardMapFile and PointerMapFile replace the default device layouts.
	KeyboardMapFile string `mapstructure:"keyboard_map_file" yaml:"keyboard_map_file"`
	PointerMapFile  string `mapstructure:"pointer_map_file" yaml:"pointer_map_file"`
}

// ReplayConfig configures the scenario runner.
type ReplayConfig struct {
	Concurrency int    `mapstructure:"concurrency" yaml:"concurrency"`
	Format      string `mapstructure:"format" yaml:"format"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	// ScriptTimeout bounds the run time of a single script or listener.
	ScriptTimeout time.Duration `mapstructure:"script_timeout" yaml:"script_timeout"`
	FailFast      bool          `mapstructure:"fail_fast" yaml:"fail_fast"`
}

// CDPConfig configures replaying traces against a real browser.
type CDPConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Headless bool          `mapstructure:"headless" yaml:"headless"`
	ExecPath string        `mapstructure:"exec_path" yaml:"exec_path"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Replay output formats.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "userevent")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Engine --
	v.SetDefault("engine.delay", "0s")
	v.SetDefault("engine.skip_click", false)
	v.SetDefault("engine.skip_hover", false)
	v.SetDefault("engine.skip_auto_close", false)
	v.SetDefault("engine.skip_pointer_events_check", false)
	v.SetDefault("engine.apply_accept", true)

	// -- Replay --
	v.SetDefault("replay.concurrency", 4)
	v.SetDefault("replay.format", FormatTable)
	v.SetDefault("replay.output_dir", "")
	v.SetDefault("replay.script_timeout", "2s")
	v.SetDefault("replay.fail_fast", false)

	// -- CDP --
	v.SetDefault("cdp.enabled", false)
	v.SetDefault("cdp.headless", true)
	v.SetDefault("cdp.timeout", "30s")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var doc document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg := &Config{logger: doc.Logger, engine: doc.Engine, replay: doc.Replay, cdp: doc.CDP}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// expandPaths resolves a leading ~ in every configured path.
func (c *Config) expandPaths() error {
	for _, p := range []*string{
		&c.logger.LogFile,
		&c.engine.KeyboardMapFile,
		&c.engine.PointerMapFile,
		&c.replay.OutputDir,
		&c.cdp.ExecPath,
	} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.engine.Delay < 0 {
		return fmt.Errorf("engine.delay must not be negative")
	}
	if err := c.replay.Validate(); err != nil {
		return fmt.Errorf("replay configuration invalid: %w", err)
	}
	if err := c.cdp.Validate(); err != nil {
		return fmt.Errorf("cdp configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the replay settings.
func (r *ReplayConfig) Validate() error {
	if r.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be a positive integer")
	}
	switch strings.ToLower(r.Format) {
	case FormatJSON, FormatTable:
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatJSON, FormatTable, r.Format)
	}
	if r.ScriptTimeout < 0 {
		return fmt.Errorf("script_timeout must not be negative")
	}
	return nil
}

// Validate checks the CDP settings.
func (c *CDPConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be a positive duration")
	}
	return nil
}

// Load reads the configuration from file (or userevent.yaml in the working
// directory and ~/.userevent), USEREVENT_* environment variables and the
// defaults.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	if file != "" {
		expanded, err := homedir.Expand(file)
		if err != nil {
			return nil, fmt.Errorf("expanding config path: %w", err)
		}
		v.SetConfigFile(expanded)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home + "/.userevent")
		}
		v.SetConfigName("userevent")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("USEREVENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars
	}
	return NewConfigFromViper(v)
}
