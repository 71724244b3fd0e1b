// Package config loads skillcheck's YAML configuration and environment
// overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var (
	ErrUnknownTestType   = errors.New("unknown test type")
	ErrDuplicateTestType = errors.New("duplicate test type id")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// TestType is one assessment offered on the home screen.
type TestType struct {
	ID            string   `yaml:"id" validate:"required"`
	Title         string   `yaml:"title" validate:"required"`
	Bank          string   `yaml:"bank" validate:"required"`
	TimeLimit     Duration `yaml:"time_limit,omitempty" validate:"min=0"`
	WarningCutoff int      `yaml:"warning_cutoff,omitempty" validate:"min=0"`
	Shuffle       bool     `yaml:"shuffle,omitempty"`
}

// Config is the resolved application configuration.
type Config struct {
	TimeLimit     Duration   `yaml:"time_limit" validate:"gt=0"`
	WarningCutoff int        `yaml:"warning_cutoff" validate:"gt=0"`
	TestTypes     []TestType `yaml:"test_types" validate:"required,min=1,dive"`

	// Environment-only settings.
	DBPath    string `yaml:"-"`
	LogLevel  string `yaml:"-"`
	LogFormat string `yaml:"-"`
	LogFile   string `yaml:"-"`

	// Path is the file the config was read from, empty for built-in defaults.
	Path string `yaml:"-"`
}

// Duration wraps time.Duration so YAML can use strings like "30m".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" {
		*d = 0
		return nil
	}
	if secs, err := strconv.Atoi(node.Value); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	v, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(defaultYAML)
	if err != nil {
		panic("config: embedded default is invalid: " + err.Error())
	}
	return cfg
}

// Load reads configuration. path may be empty, in which case SKILLCHECK_CONFIG
// and then $XDG_CONFIG_HOME/skillcheck/config.yaml are tried before falling
// back to the built-in defaults. A .env file in the working directory is
// loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	if path == "" {
		path = os.Getenv("SKILLCHECK_CONFIG")
	}
	if path == "" {
		if p, err := userConfigPath(); err == nil {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
			}
		}
	}

	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		cfg, err = parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg.Path = path
	}

	cfg.applyEnv()
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// minTimeLimit is the shortest limit an attempt can count down from.
const minTimeLimit = time.Second

// Validate checks field constraints, time limit granularity and test type
// id uniqueness.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.TimeLimit.Std() < minTimeLimit {
		return fmt.Errorf("%w: time_limit %s is shorter than %s", ErrInvalidConfig, c.TimeLimit, minTimeLimit)
	}
	seen := make(map[string]bool, len(c.TestTypes))
	for _, tt := range c.TestTypes {
		if seen[tt.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateTestType, tt.ID)
		}
		seen[tt.ID] = true
		if tt.TimeLimit != 0 && tt.TimeLimit.Std() < minTimeLimit {
			return fmt.Errorf("%w: test type %q: time_limit %s is shorter than %s", ErrInvalidConfig, tt.ID, tt.TimeLimit, minTimeLimit)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DBPath = getEnv("SKILLCHECK_DB", c.DBPath)
	c.LogLevel = getEnv("SKILLCHECK_LOG_LEVEL", "info")
	c.LogFormat = getEnv("SKILLCHECK_LOG_FORMAT", "json")
	c.LogFile = getEnv("SKILLCHECK_LOG_FILE", c.LogFile)
}

// TestType returns the test type with the given id, with unset limits
// filled in from the global defaults.
func (c *Config) TestType(id string) (TestType, error) {
	for _, tt := range c.TestTypes {
		if tt.ID == id {
			if tt.TimeLimit == 0 {
				tt.TimeLimit = c.TimeLimit
			}
			if tt.WarningCutoff == 0 {
				tt.WarningCutoff = c.WarningCutoff
			}
			return tt, nil
		}
	}
	return TestType{}, fmt.Errorf("%w: %q", ErrUnknownTestType, id)
}

// Resolved returns every test type with defaults applied, in file order.
func (c *Config) Resolved() []TestType {
	out := make([]TestType, 0, len(c.TestTypes))
	for _, tt := range c.TestTypes {
		r, _ := c.TestType(tt.ID)
		out = append(out, r)
	}
	return out
}

// userConfigPath returns $XDG_CONFIG_HOME/skillcheck/config.yaml, or
// ~/.config/skillcheck/config.yaml.
func userConfigPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "skillcheck", "config.yaml"), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
