// Package config handles agent configuration loading and management
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all agent configuration
type Config struct {
	Version  int           `yaml:"version"`
	Slack    SlackConfig   `yaml:"slack"`
	OpenAI   OpenAIConfig  `yaml:"openai"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	Backends []Backend     `yaml:"backends"`
	Journal  JournalConfig `yaml:"journal"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Logging  LoggingConfig `yaml:"logging"`
}

// SlackConfig holds the Socket Mode credentials
type SlackConfig struct {
	BotToken string `yaml:"bot_token"` // xoxb-...
	AppToken string `yaml:"app_token"` // xapp-...
}

// OpenAIConfig configures the chat completion client
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// TavilyConfig configures the web search client
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// Backend is one MCP server the agent may route tool calls to
type Backend struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// JournalConfig configures the run journal. An empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Version: 1,
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Backends: []Backend{
			{Name: "slack_mcp", URL: "http://localhost:8001/mcp"},
			{Name: "tavily_mcp", URL: "http://localhost:8002/mcp"},
		},
		Journal: JournalConfig{
			Path: "",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    "127.0.0.1:9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".slack-mcp", "config.yaml")
}

// Load reads configuration from file and overlays environment variables.
// A missing file is not an error: the agent can run on environment
// variables alone.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// applyEnv overrides file values with environment variables when set.
// Environment wins so a token never has to be written to disk.
func (c *Config) applyEnv() {
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		c.Slack.BotToken = v
	}
	if v := os.Getenv("SLACK_APP_TOKEN"); v != "" {
		c.Slack.AppToken = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		c.Tavily.APIKey = v
	}
}
