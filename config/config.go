package config

//go:generate go run ../tools/schema-generator

import (
	"fmt"
	"os"
	"time"

	core_config "github.com/grovetools/core/config"
	"gopkg.in/yaml.v3"
)

// ExtensionName is the key agchat reads from grove.yml.
const ExtensionName = "agchat"

const (
	DefaultTypingInterval = 30 * time.Millisecond
	DefaultWidth          = 80
	DefaultAudioOrigin    = "https://awsaudiouploads.s3.amazonaws.com"
	DefaultAudioBucket    = "awsaudiouploads"
	DefaultAudioTimeout   = 30 * time.Second
	DefaultGraphQLTimeout = 30 * time.Second
)

// RenderConfig defines settings for terminal rendering.
type RenderConfig struct {
	// TypingInterval is the delay between revealed characters for animated events.
	// 0 uses the default (30ms).
	TypingInterval time.Duration `yaml:"typing_interval,omitempty"`

	// DisableTyping prints animated events at once.
	DisableTyping bool `yaml:"disable_typing,omitempty"`

	// ColorJSON syntax-highlights JSON and GraphQL result blocks.
	ColorJSON bool `yaml:"color_json,omitempty"`

	// MaxBlockLines controls how many lines of a code block to show before truncating.
	// 0 (default): Show every line.
	MaxBlockLines int `yaml:"max_block_lines,omitempty"`

	// Width is the column user messages are right-aligned against. 0 uses 80.
	Width int `yaml:"width,omitempty"`
}

// AudioConfig defines where agent message audio is fetched from.
type AudioConfig struct {
	// Origin is the URL prefix stripped from audio references to get the object key.
	Origin string `yaml:"origin,omitempty"`

	// Bucket is the object store bucket holding the audio files.
	Bucket string `yaml:"bucket,omitempty"`

	// Region is the object store region. Empty uses the SDK default chain.
	Region string `yaml:"region,omitempty"`

	// CacheDir is where fetched audio is written. Empty uses the user cache dir.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// Timeout bounds a single audio fetch.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// GraphQLConfig defines the endpoint agent queries are invoked against.
type GraphQLConfig struct {
	Endpoint string        `yaml:"endpoint,omitempty"`
	APIKey   string        `yaml:"api_key,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// Config is the top-level configuration structure for agchat.
type Config struct {
	Render  RenderConfig  `yaml:"render,omitempty"`
	Audio   AudioConfig   `yaml:"audio,omitempty"`
	GraphQL GraphQLConfig `yaml:"graphql,omitempty"`
}

// Default returns a configuration with every default filled in.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Render.TypingInterval == 0 {
		c.Render.TypingInterval = DefaultTypingInterval
	}
	if c.Render.Width == 0 {
		c.Render.Width = DefaultWidth
	}
	if c.Audio.Origin == "" {
		c.Audio.Origin = DefaultAudioOrigin
	}
	if c.Audio.Bucket == "" {
		c.Audio.Bucket = DefaultAudioBucket
	}
	if c.Audio.Timeout == 0 {
		c.Audio.Timeout = DefaultAudioTimeout
	}
	if c.GraphQL.Timeout == 0 {
		c.GraphQL.Timeout = DefaultGraphQLTimeout
	}
}

// LoadFile reads a standalone agchat YAML file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Load reads the agchat extension from an explicit file when path is set,
// otherwise from the grove configuration. A missing grove configuration is
// not an error; defaults are used.
func Load(path string) (Config, error) {
	if path != "" {
		return LoadFile(path)
	}

	var cfg Config
	coreCfg, err := core_config.LoadDefault()
	if err == nil {
		if err := coreCfg.UnmarshalExtension(ExtensionName, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read %s extension: %w", ExtensionName, err)
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
