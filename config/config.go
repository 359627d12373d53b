package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/web3tea/journal-sentinel/capturer"
)

type Config struct {
	AppName  string `json:"app_name" yaml:"app_name" toml:"app_name"`
	Version  string `json:"version" yaml:"version" toml:"version"`
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	Service    ServiceConfig    `json:"service" yaml:"service" toml:"service"`
	Capturer   CapturerConfig   `json:"capturer" yaml:"capturer" toml:"capturer"`
	Processor  ProcessorConfig  `json:"processor" yaml:"processor" toml:"processor"`
	Sink       SinkConfig       `json:"sink" yaml:"sink" toml:"sink"`
	Checkpoint CheckpointConfig `json:"checkpoint" yaml:"checkpoint" toml:"checkpoint"`
}

// ServiceConfig locates the journal-retrieval service.
type ServiceConfig struct {
	Address string `json:"address" yaml:"address" toml:"address"`
}

type CapturerConfig capturer.Config

type ProcessorConfig struct {
	Filter               FilterConfig      `json:"filter" yaml:"filter" toml:"filter"`
	EnableTransformation bool              `json:"enable_transformation" yaml:"enable_transformation" toml:"enable_transformation"`
	Metadata             map[string]string `json:"metadata" yaml:"metadata" toml:"metadata"`
}

type FilterConfig struct {
	Types []string `json:"types" yaml:"types" toml:"types"`
}

type SinkConfig struct {
	Type    string         `json:"type" yaml:"type" toml:"type"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

type CheckpointConfig struct {
	// Dir is where the cursor checkpoint lives across restarts.
	Dir string `json:"dir" yaml:"dir" toml:"dir"`

	IntervalSeconds int `json:"interval_seconds" yaml:"interval_seconds" toml:"interval_seconds"`
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig

	switch {
	case strings.HasSuffix(path, ".json"):
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case strings.HasSuffix(path, ".toml"):
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", path)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the fields without defaults.
func (c *Config) Validate() error {
	if c.Service.Address == "" {
		return fmt.Errorf("service.address is required")
	}
	if c.Capturer.JournalName == "" || c.Capturer.JournalLibrary == "" {
		return fmt.Errorf("capturer.journal_name and capturer.journal_library are required")
	}
	return nil
}

var DefaultConfig = Config{
	AppName:  "journal-sentinel",
	Version:  "0.1.0",
	LogLevel: "info",
	Sink: SinkConfig{
		Type: "console",
	},
	Checkpoint: CheckpointConfig{
		Dir:             "checkpoints",
		IntervalSeconds: 60,
	},
}
