// Package config loads the controller configuration.
//
// Values are resolved in order: built-in defaults, the YAML file, then
// STANCE_* environment variables meant for deployment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aretw0/stance/internal/logging"
	"github.com/aretw0/stance/pkg/domain"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix marks the environment variables read by Load.
const EnvPrefix = "STANCE_"

// sections are the nested config blocks addressable from the environment.
var sections = map[string]bool{"http": true, "redis": true, "nats": true, "log": true}

// Config is the complete controller configuration.
type Config struct {
	Robot              domain.RobotType `yaml:"robot"`
	Period             time.Duration    `yaml:"period"`
	StartMode          domain.ModeName  `yaml:"start_mode"`
	SafeMode           domain.ModeName  `yaml:"safe_mode"`
	DiagnosticInterval time.Duration    `yaml:"diagnostic_interval"`

	// Params is handed to the modes untouched; each mode decodes its own
	// section.
	Params map[string]any `yaml:"params"`

	HTTP  HTTPConfig  `yaml:"http"`
	Redis RedisConfig `yaml:"redis"`
	NATS  NATSConfig  `yaml:"nats"`
	Log   LogConfig   `yaml:"log"`
}

// HTTPConfig configures the diagnostics API. An empty Addr disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// RedisConfig configures the telemetry stream and command channel. An empty
// Addr disables Redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
	Channel  string `yaml:"channel"`
	MaxLen   int64  `yaml:"max_len"`
	Buffer   int    `yaml:"buffer"`
}

// NATSConfig configures the NATS telemetry subjects and command subject. An
// empty URL disables NATS. Only one of Redis and NATS may be enabled.
type NATSConfig struct {
	URL              string `yaml:"url"`
	Name             string `yaml:"name"`
	TelemetrySubject string `yaml:"telemetry_subject"`
	CommandSubject   string `yaml:"command_subject"`
	Buffer           int    `yaml:"buffer"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Robot:              domain.RobotLite3,
		Period:             2 * time.Millisecond,
		StartMode:          domain.ModeStandby,
		SafeMode:           domain.ModeSafeStop,
		DiagnosticInterval: time.Second,
		Params:             map[string]any{},
		Redis: RedisConfig{
			Stream:  "stance:telemetry",
			Channel: "stance:command",
			MaxLen:  10000,
			Buffer:  1024,
		},
		NATS: NATSConfig{
			Name:             "stance",
			TelemetrySubject: "stance.telemetry",
			CommandSubject:   "stance.command",
			Buffer:           1024,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path loads the defaults only.
//
// Environment variables map onto YAML keys: the first segment after the
// prefix names a section when one exists, the rest is the field name.
//
//	STANCE_PERIOD         -> period
//	STANCE_START_MODE     -> start_mode
//	STANCE_REDIS_ADDR     -> redis.addr
//	STANCE_REDIS_MAX_LEN  -> redis.max_len
//	STANCE_NATS_URL       -> nats.url
//	STANCE_LOG_LEVEL      -> log.level
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := k.Load(rawbytes.Provider(data), koanfyaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Params == nil {
		cfg.Params = map[string]any{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if ok && sections[section] {
		return section + "." + field
	}
	return key
}

// Dump writes the effective configuration as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Robot {
	case domain.RobotLite3, domain.RobotX30:
	default:
		errs = append(errs, fmt.Errorf("robot: unsupported variant %q", c.Robot))
	}
	if c.Period <= 0 {
		errs = append(errs, fmt.Errorf("period: must be positive, got %v", c.Period))
	}
	if c.StartMode == "" {
		errs = append(errs, errors.New("start_mode: required"))
	}
	if c.SafeMode == "" {
		errs = append(errs, errors.New("safe_mode: required"))
	}
	if c.StartMode != "" && c.StartMode == c.SafeMode {
		errs = append(errs, fmt.Errorf("start_mode: must differ from safe_mode %q", c.SafeMode))
	}
	if c.DiagnosticInterval < 0 {
		errs = append(errs, fmt.Errorf("diagnostic_interval: negative %v", c.DiagnosticInterval))
	}
	if c.Redis.Addr != "" && c.Redis.Stream == "" {
		errs = append(errs, errors.New("redis.stream: required when redis.addr is set"))
	}
	if c.Redis.MaxLen < 0 {
		errs = append(errs, fmt.Errorf("redis.max_len: negative %d", c.Redis.MaxLen))
	}
	if c.Redis.Addr != "" && c.NATS.URL != "" {
		errs = append(errs, errors.New("redis.addr and nats.url are mutually exclusive"))
	}
	if c.NATS.URL != "" && (c.NATS.TelemetrySubject == "" || c.NATS.CommandSubject == "") {
		errs = append(errs, errors.New("nats: telemetry_subject and command_subject are required when nats.url is set"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unsupported %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
