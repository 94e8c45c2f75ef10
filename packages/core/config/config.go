package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/restmd/packages/core/state"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "RESTMD_"

// TranslatorCurl selects the built-in curl translator. Any other value is
// run as an external converter command.
const TranslatorCurl = "curl"

// Config represents the restmd configuration
type Config struct {
	Shell          string     `yaml:"shell,omitempty" env:"SHELL"`
	Timeout        int        `yaml:"timeout,omitempty" env:"TIMEOUT"` // seconds
	Layout         string     `yaml:"layout,omitempty" env:"LAYOUT"`
	IncludeHeaders *bool      `yaml:"includeHeaders,omitempty" env:"INCLUDE_HEADERS"`
	Translator     string     `yaml:"translator,omitempty" env:"TRANSLATOR"`
	Parallel       *bool      `yaml:"parallel,omitempty" env:"PARALLEL"`
	Concurrency    int        `yaml:"concurrency,omitempty" env:"CONCURRENCY"`
	Rate           float64    `yaml:"rate,omitempty" env:"RATE"` // spawns per second
	PrettyJSON     *bool      `yaml:"prettyJson,omitempty" env:"PRETTY_JSON"`
	Output         string     `yaml:"output,omitempty" env:"OUTPUT"` // Markdown file, empty for stdout
	EnvFile        string     `yaml:"envFile,omitempty" env:"ENV_FILE"`
	WorkDir        string     `yaml:"workDir,omitempty" env:"WORK_DIR"` // empty for the request file's directory
	LogLevel       string     `yaml:"logLevel,omitempty" env:"LOG_LEVEL"`
	LogFormat      string     `yaml:"logFormat,omitempty" env:"LOG_FORMAT"`
	NoColor        *bool      `yaml:"noColor,omitempty" env:"NO_COLOR"`
	Curl           CurlConfig `yaml:"curl,omitempty" envPrefix:"CURL_"`
}

// CurlConfig holds options for the built-in curl translator.
type CurlConfig struct {
	Binary          string   `yaml:"binary,omitempty" env:"BINARY"`
	FollowRedirects *bool    `yaml:"followRedirects,omitempty" env:"FOLLOW_REDIRECTS"`
	Insecure        *bool    `yaml:"insecure,omitempty" env:"INSECURE"`
	ExtraArgs       []string `yaml:"extraArgs,omitempty" env:"EXTRA_ARGS" envSeparator:" "`
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetIncludeHeaders returns the include headers setting, defaulting to true
func (c *Config) GetIncludeHeaders() bool {
	return getBool(c.IncludeHeaders, true)
}

// GetParallel returns the parallel setting, defaulting to false
func (c *Config) GetParallel() bool {
	return getBool(c.Parallel, false)
}

// GetPrettyJSON returns the pretty JSON setting, defaulting to false
func (c *Config) GetPrettyJSON() bool {
	return getBool(c.PrettyJSON, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetFollowRedirects returns the follow redirects setting, defaulting to false
func (c CurlConfig) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, false)
}

// GetInsecure returns the insecure setting, defaulting to false
func (c CurlConfig) GetInsecure() bool {
	return getBool(c.Insecure, false)
}

// TimeoutDuration returns the subprocess deadline.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be a positive number of seconds, got %d", c.Timeout)
	}
	if int64(c.Timeout) > state.MaxTimeoutSeconds {
		return fmt.Errorf("timeout must be at most %d seconds, got %d", state.MaxTimeoutSeconds, c.Timeout)
	}
	if _, err := state.ParseLayout(c.Layout); err != nil {
		return err
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %g", c.Rate)
	}
	return nil
}

// InitialState builds the execution state a new session starts from.
func (c *Config) InitialState() (state.State, error) {
	if err := c.Validate(); err != nil {
		return state.State{}, err
	}
	layout, _ := state.ParseLayout(c.Layout)
	return state.New().
		WithTimeoutMs(int(c.TimeoutDuration().Milliseconds())).
		WithLayout(layout).
		WithIncludeHeaders(c.GetIncludeHeaders()), nil
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".restmd.yaml",
	".restmd.yml",
	"restmd.yaml",
}

// Load resolves the effective configuration: defaults, then the file at
// path (or the first config file found in the current directory), then
// environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	overrides, err := FromEnv(nil)
	if err != nil {
		return nil, err
	}
	return cfg.Merge(overrides), nil
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return DefaultConfig().Merge(&fileCfg), nil
}

// FromEnv reads RESTMD_* overrides. A nil environ reads the process
// environment. Unset variables leave fields at their zero value so the
// result can be merged over another config.
func FromEnv(environ map[string]string) (*Config, error) {
	var cfg Config
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Shell != "" {
		result.Shell = other.Shell
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.Layout != "" {
		result.Layout = other.Layout
	}
	if other.Translator != "" {
		result.Translator = other.Translator
	}
	if other.Concurrency > 0 {
		result.Concurrency = other.Concurrency
	}
	if other.Rate > 0 {
		result.Rate = other.Rate
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}
	if other.WorkDir != "" {
		result.WorkDir = other.WorkDir
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		result.LogFormat = other.LogFormat
	}

	// Boolean flags - only override if explicitly set in other config
	if other.IncludeHeaders != nil {
		result.IncludeHeaders = other.IncludeHeaders
	}
	if other.Parallel != nil {
		result.Parallel = other.Parallel
	}
	if other.PrettyJSON != nil {
		result.PrettyJSON = other.PrettyJSON
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if other.Curl.Binary != "" {
		result.Curl.Binary = other.Curl.Binary
	}
	if other.Curl.FollowRedirects != nil {
		result.Curl.FollowRedirects = other.Curl.FollowRedirects
	}
	if other.Curl.Insecure != nil {
		result.Curl.Insecure = other.Curl.Insecure
	}
	if len(other.Curl.ExtraArgs) > 0 {
		result.Curl.ExtraArgs = append([]string(nil), other.Curl.ExtraArgs...)
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
