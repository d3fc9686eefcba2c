package driver

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"tscheck/pkg/errors"
)

// DefaultConfigFile is looked up in the working directory when no -config
// flag is given.
const DefaultConfigFile = "tscheck.yaml"

// Config controls a check run. It is loaded from tscheck.yaml and then
// overridden by command line flags.
type Config struct {
	// Include lists glob patterns of files to check when none are named on
	// the command line. Patterns are relative to the config file.
	Include []string `yaml:"include"`
	// Workers bounds the number of files checked at once.
	Workers int `yaml:"workers"`
	// CacheSize is the number of results kept by a Project. Zero disables
	// caching.
	CacheSize int `yaml:"cacheSize"`
	// Suggestions enables "Did you mean" hints.
	Suggestions        bool `yaml:"suggestions"`
	SuggestionDistance int  `yaml:"suggestionDistance"`

	Log LogConfig `yaml:"log"`

	// Logger receives operational logs. Nil means no logging.
	Logger *zap.Logger `yaml:"-"`
}

// LogConfig selects the logger built by NewLogger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Workers:            runtime.GOMAXPROCS(0),
		CacheSize:          256,
		Suggestions:        true,
		SuggestionDistance: 2,
		Log:                LogConfig{Level: "warn"},
	}
}

// LoadConfig reads the YAML file at path on top of DefaultConfig. Unknown
// keys are rejected. An empty file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, &errors.ConfigError{Msg: fmt.Sprintf("cannot read %s", path), Cause: err}
	}
	if err := cfg.decode(data); err != nil {
		return cfg, &errors.ConfigError{Msg: fmt.Sprintf("cannot parse %s", path), Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if dir := filepath.Dir(path); dir != "." {
		for i, pattern := range cfg.Include {
			if !filepath.IsAbs(pattern) {
				cfg.Include[i] = filepath.Join(dir, pattern)
			}
		}
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports settings no run can use.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return &errors.ConfigError{Msg: fmt.Sprintf("workers must be at least 1, got %d", c.Workers)}
	}
	if c.CacheSize < 0 {
		return &errors.ConfigError{Msg: fmt.Sprintf("cacheSize must not be negative, got %d", c.CacheSize)}
	}
	if c.SuggestionDistance < 0 {
		return &errors.ConfigError{Msg: fmt.Sprintf("suggestionDistance must not be negative, got %d", c.SuggestionDistance)}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return &errors.ConfigError{Msg: fmt.Sprintf("invalid log level %q", c.Log.Level), Cause: err}
	}
	return nil
}

// ExpandInclude resolves the Include patterns to a sorted list of files.
func (c Config) ExpandInclude() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range c.Include {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, &errors.ConfigError{Msg: fmt.Sprintf("bad include pattern %q", pattern), Cause: err}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

// suggestionDistance is the distance handed to the checker; zero when
// suggestions are off.
func (c Config) suggestionDistance() int {
	if !c.Suggestions {
		return 0
	}
	return c.SuggestionDistance
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func parseLevel(text string) (zapcore.Level, error) {
	level := zapcore.WarnLevel
	if text == "" {
		return level, nil
	}
	err := level.UnmarshalText([]byte(text))
	return level, err
}

// NewLogger builds the zap logger described by cfg.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
