// Package config loads mindmesh configuration from YAML with environment
// variable overrides for credentials and endpoints.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all mindmesh configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Embedding backend configuration
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Vector store configuration
	Store StoreConfig `yaml:"store"`

	// Tier entitlement tables
	Tiers TiersConfig `yaml:"tiers"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// EmbeddingConfig configures the embedding engine.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // genai, openai, ollama
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`

	// Ollama-only settings
	OllamaEndpoint string `yaml:"ollama_endpoint"`

	// CacheSize is the LRU entry count for the embed cache (0 disables it).
	CacheSize int `yaml:"cache_size"`
}

// StoreConfig configures the SQLite vector store.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
	SearchLimit  int    `yaml:"search_limit"`
}

// TiersConfig maps entitlement tiers to the framework names they may run.
type TiersConfig struct {
	Free       []string `yaml:"free"`
	Pro        []string `yaml:"pro"`
	Enterprise []string `yaml:"enterprise"`
}

// LoggingConfig mirrors the logging package's settings.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Level     string `yaml:"level"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "mindmesh",
		Version: "1.0.0",
		Embedding: EmbeddingConfig{
			Provider:       "ollama",
			Model:          "",
			OllamaEndpoint: "http://localhost:11434",
			CacheSize:      512,
		},
		Store: StoreConfig{
			DatabasePath: filepath.Join(".mindmesh", "dumps.db"),
			SearchLimit:  5,
		},
		Tiers: TiersConfig{
			Free:       []string{"Semantic", "Custom"},
			Pro:        []string{"Agile", "Kanban", "GTD", "PARA", "Custom", "Semantic"},
			Enterprise: []string{"Agile", "Kanban", "GTD", "PARA", "Custom", "Semantic"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist. Environment variables always win.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// Embedding API key from environment (check in priority order)
	if key := os.Getenv("GENAI_API_KEY"); key != "" {
		c.Embedding.APIKey = key
		if c.Embedding.Provider == "" || c.Embedding.Provider == "ollama" {
			c.Embedding.Provider = "genai"
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Embedding.APIKey = key
		c.Embedding.Provider = "openai"
	}

	if endpoint := os.Getenv("OLLAMA_ENDPOINT"); endpoint != "" {
		c.Embedding.OllamaEndpoint = endpoint
	}

	// Database path from environment
	if path := os.Getenv("MINDMESH_DB"); path != "" {
		c.Store.DatabasePath = path
	}
}
