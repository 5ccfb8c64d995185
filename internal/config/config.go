// ABOUTME: Configuration loading and parsing for polisbot
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete polisbot configuration.
type Config struct {
	Matrix     MatrixConfig     `yaml:"matrix"`
	Bot        BotConfig        `yaml:"bot"`
	Narrative  NarrativeConfig  `yaml:"narrative"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// MatrixConfig holds the Matrix client connection settings.
type MatrixConfig struct {
	Homeserver   string   `yaml:"homeserver"`
	UserID       string   `yaml:"user_id"`
	AccessToken  string   `yaml:"access_token"`
	AllowedRooms []string `yaml:"allowed_rooms"` // empty = all joined rooms
}

// BotConfig holds flow-level settings.
type BotConfig struct {
	// ResetCommand restarts the purchase flow from any stage.
	ResetCommand string `yaml:"reset_command"`
	// PolicyDir is where delivered policy files are written before upload.
	PolicyDir string `yaml:"policy_dir"`
}

// NarrativeConfig selects and configures the text-generation backend.
type NarrativeConfig struct {
	// Provider is "gemini", "openai", or "none".
	Provider string       `yaml:"provider"`
	Gemini   GeminiConfig `yaml:"gemini"`
	OpenAI   OpenAIConfig `yaml:"openai"`

	CacheTTL    time.Duration `yaml:"-"`
	CacheTTLRaw string        `yaml:"cache_ttl"`
}

// GeminiConfig holds Generative Language API settings.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"` // override for testing; empty = public endpoint
}

// OpenAIConfig holds Azure OpenAI settings.
type OpenAIConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	Deployment string `yaml:"deployment"`
}

// ExtractionConfig holds document extraction settings.
type ExtractionConfig struct {
	// Latency simulates the OCR round trip of the canned client.
	Latency    time.Duration `yaml:"-"`
	LatencyRaw string        `yaml:"latency"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds the prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded and
// duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in values the file may omit.
func applyDefaults(cfg *Config) {
	if cfg.Bot.ResetCommand == "" {
		cfg.Bot.ResetCommand = "/start"
	}
	if cfg.Bot.PolicyDir == "" {
		cfg.Bot.PolicyDir = "."
	}
	if cfg.Narrative.Provider == "" {
		cfg.Narrative.Provider = "none"
	}
	if cfg.Narrative.Gemini.Model == "" {
		cfg.Narrative.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = "localhost:9108"
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and
// valid. Returns an error describing the first validation failure.
func (c *Config) Validate() error {
	if c.Matrix.Homeserver == "" {
		return fmt.Errorf("matrix.homeserver is required")
	}
	if c.Matrix.UserID == "" {
		return fmt.Errorf("matrix.user_id is required")
	}
	if c.Matrix.AccessToken == "" {
		return fmt.Errorf("matrix.access_token is required")
	}

	switch c.Narrative.Provider {
	case "none":
	case "gemini":
		if c.Narrative.Gemini.APIKey == "" {
			return fmt.Errorf("narrative.gemini.api_key is required when provider is gemini")
		}
	case "openai":
		if c.Narrative.OpenAI.Endpoint == "" {
			return fmt.Errorf("narrative.openai.endpoint is required when provider is openai")
		}
		if c.Narrative.OpenAI.APIKey == "" {
			return fmt.Errorf("narrative.openai.api_key is required when provider is openai")
		}
		if c.Narrative.OpenAI.Deployment == "" {
			return fmt.Errorf("narrative.openai.deployment is required when provider is openai")
		}
	default:
		return fmt.Errorf("narrative.provider must be gemini, openai, or none (got %q)", c.Narrative.Provider)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values.
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Narrative.CacheTTLRaw != "" {
		cfg.Narrative.CacheTTL, err = time.ParseDuration(cfg.Narrative.CacheTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing cache_ttl %q: %w", cfg.Narrative.CacheTTLRaw, err)
		}
	}

	if cfg.Extraction.LatencyRaw != "" {
		cfg.Extraction.Latency, err = time.ParseDuration(cfg.Extraction.LatencyRaw)
		if err != nil {
			return fmt.Errorf("parsing latency %q: %w", cfg.Extraction.LatencyRaw, err)
		}
	}

	return nil
}
