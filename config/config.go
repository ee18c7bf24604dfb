package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/ragteam/observe"
	"github.com/jonwraymond/ragteam/secret"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig        = "RAGTEAM_CONFIG"
	EnvCacheDir      = "RAGTEAM_CACHE_DIR"
	EnvLogLevel      = "RAGTEAM_LOG_LEVEL"
	EnvMaxTurns      = "RAGTEAM_MAX_TURNS"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIModel   = "OPENAI_MODEL"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvOpenAlexEmail = "OPENALEX_EMAIL"
)

// Version is the program version reported in telemetry.
var Version = "dev"

// DefaultPath is read when no config path is given and the file exists.
const DefaultPath = "ragteam.yaml"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
)

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config is the complete ragteam configuration.
type Config struct {
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Search    SearchConfig    `yaml:"search"`
	Cache     CacheConfig     `yaml:"cache"`
	Output    OutputConfig    `yaml:"output"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Secrets   SecretsConfig   `yaml:"secrets"`
}

// OpenAIConfig configures the model client.
type OpenAIConfig struct {
	// APIKey may reference a secret, e.g. "${OPENAI_API_KEY}".
	APIKey           string        `yaml:"api_key"`
	BaseURL          string        `yaml:"base_url,omitempty"`
	Model            string        `yaml:"model"`
	MaxTurns         int           `yaml:"max_turns"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	MaxParallelTools int           `yaml:"max_parallel_tools"`
}

// SearchConfig configures the search providers.
type SearchConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent,omitempty"`
	Mailto        string        `yaml:"mailto,omitempty"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	// WebRate is the web search rate limit in requests per second.
	WebRate   float64   `yaml:"web_rate"`
	Endpoints Endpoints `yaml:"endpoints"`
}

// Endpoints overrides upstream base URLs.
type Endpoints struct {
	Web      string `yaml:"web,omitempty"`
	OpenAlex string `yaml:"openalex,omitempty"`
	CrossRef string `yaml:"crossref,omitempty"`
}

// CacheConfig configures the search cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Backend    string `yaml:"backend"`
	Dir        string `yaml:"dir"`
	CacheEmpty bool   `yaml:"cache_empty"`
}

// OutputConfig configures where results are written.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	StepsDir  string `yaml:"steps_dir"`
	WrapWidth int    `yaml:"wrap_width"`
}

// TelemetryConfig configures logging, tracing and metrics.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name"`
	LogLevel    string `yaml:"log_level"`
	Tracing     struct {
		Enabled   bool    `yaml:"enabled"`
		Exporter  string  `yaml:"exporter"`
		SamplePct float64 `yaml:"sample_pct"`
	} `yaml:"tracing"`
	Metrics struct {
		Enabled  bool   `yaml:"enabled"`
		Exporter string `yaml:"exporter"`
	} `yaml:"metrics"`
}

// SecretsConfig configures secret resolution.
type SecretsConfig struct {
	// Strict rejects secret references that resolve to empty values.
	Strict     bool   `yaml:"strict"`
	DotenvPath string `yaml:"dotenv_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{
		OpenAI: OpenAIConfig{
			APIKey:         "${" + EnvOpenAIKey + "}",
			Model:          "gpt-4o-mini",
			MaxTurns:       10,
			RequestTimeout: 5 * time.Minute,
		},
		Search: SearchConfig{
			Timeout:       10 * time.Second,
			MaxConcurrent: 4,
			WebRate:       1,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Backend:    BackendFile,
			Dir:        "cache",
			CacheEmpty: true,
		},
		Output: OutputConfig{
			Dir:       "output",
			StepsDir:  "steps_taken",
			WrapWidth: 100,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "ragteam",
			LogLevel:    "warn",
		},
		Secrets: SecretsConfig{
			Strict:     true,
			DotenvPath: secret.DefaultDotenvPath,
		},
	}
	c.Telemetry.Tracing.Exporter = "none"
	c.Telemetry.Tracing.SamplePct = 1
	c.Telemetry.Metrics.Exporter = "none"
	return c
}

// Load reads the configuration at path over the defaults and applies the
// environment. An empty path falls back to $RAGTEAM_CONFIG and then to
// DefaultPath; only an explicitly named file must exist.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if v, ok := lookup(EnvConfig); ok && v != "" {
			path, explicit = v, true
		} else {
			path = DefaultPath
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides values from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup(EnvOpenAIKey); ok && v != "" {
		// An api_key set in the file takes precedence.
		if c.OpenAI.APIKey == "" || c.OpenAI.APIKey == "${"+EnvOpenAIKey+"}" {
			c.OpenAI.APIKey = v
		}
	}
	set(EnvOpenAIModel, &c.OpenAI.Model)
	set(EnvOpenAIBaseURL, &c.OpenAI.BaseURL)
	set(EnvOpenAlexEmail, &c.Search.Mailto)
	set(EnvCacheDir, &c.Cache.Dir)
	set(EnvLogLevel, &c.Telemetry.LogLevel)

	if v, ok := lookup(EnvMaxTurns); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvMaxTurns, err)
		}
		c.OpenAI.MaxTurns = n
	}
	return nil
}

// Validate checks the configuration for values the program cannot use.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.OpenAI.Model == "" {
		add("openai.model is required")
	}
	if c.OpenAI.MaxTurns < 1 {
		add("openai.max_turns must be positive, got %d", c.OpenAI.MaxTurns)
	}
	if c.OpenAI.RequestTimeout < 0 {
		add("openai.request_timeout must not be negative")
	}
	if c.Search.Timeout <= 0 {
		add("search.timeout must be positive")
	}
	if c.Search.WebRate <= 0 {
		add("search.web_rate must be positive")
	}
	if c.Search.MaxConcurrent < 0 {
		add("search.max_concurrent must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			add("cache.dir is required for the file backend")
		}
	case BackendMemory:
	default:
		add("cache.backend %q is not one of %q, %q", c.Cache.Backend, BackendFile, BackendMemory)
	}
	if c.Output.Dir == "" || c.Output.StepsDir == "" {
		add("output.dir and output.steps_dir are required")
	}
	obs := c.Observe()
	if err := obs.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Observe returns the telemetry configuration.
func (c *Config) Observe() observe.Config {
	t := c.Telemetry
	return observe.Config{
		ServiceName: t.ServiceName,
		Version:     Version,
		Tracing: observe.TracingConfig{
			Enabled:   t.Tracing.Enabled,
			Exporter:  t.Tracing.Exporter,
			SamplePct: t.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  t.Metrics.Enabled,
			Exporter: t.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   t.LogLevel,
		},
	}
}

// Resolver builds the secret resolver described by the configuration, with
// the env and dotenv providers.
func (c *Config) Resolver() (*secret.Resolver, error) {
	return secret.NewResolverFromRegistry(secret.DefaultRegistry, c.Secrets.Strict,
		map[string]map[string]any{"dotenv": {"path": c.Secrets.DotenvPath}},
		"env", "dotenv")
}

// ResolveSecrets replaces secret references in secret-bearing fields with
// their values.
func (c *Config) ResolveSecrets(ctx context.Context, r *secret.Resolver) error {
	fields := []struct {
		name string
		dst  *string
	}{
		{"openai.api_key", &c.OpenAI.APIKey},
		{"openai.base_url", &c.OpenAI.BaseURL},
		{"search.mailto", &c.Search.Mailto},
	}
	for _, f := range fields {
		if *f.dst == "" {
			continue
		}
		v, err := r.ResolveValue(ctx, *f.dst)
		if err != nil {
			return fmt.Errorf("config: resolving %s: %w", f.name, err)
		}
		*f.dst = v
	}
	return nil
}
