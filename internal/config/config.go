package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultProvider    = "gemini"
	DefaultModel       = "gemini-2.5-flash"
	DefaultStoreDriver = "sqlite"
	DefaultStorePath   = "grantdraft.db"
	DefaultExportDir   = "exports"
	DefaultFormat      = "markdown"
	DefaultLogMode     = "dev"
)

type Config struct {
	AI struct {
		Provider    string        `yaml:"provider"`
		Model       string        `yaml:"model"`
		APIKey      string        `yaml:"api_key"`
		BaseURL     string        `yaml:"base_url"`
		Temperature float32       `yaml:"temperature"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"ai"`
	Storage struct {
		Driver string `yaml:"driver"` // sqlite | file
		Path   string `yaml:"path"`   // db file or directory for the file driver
	} `yaml:"storage"`
	Export struct {
		Dir    string `yaml:"dir"`
		Format string `yaml:"format"`
	} `yaml:"export"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
}

// LoadConfig reads .env, then the YAML file at path, then environment overrides.
// A missing file is not an error; defaults are used instead.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	// 3. Override with Environment Variables if present
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		c.AI.APIKey = apiKey
	}
	if apiKey := os.Getenv("GRANTDRAFT_API_KEY"); apiKey != "" {
		c.AI.APIKey = apiKey
	}
	if provider := os.Getenv("GRANTDRAFT_AI_PROVIDER"); provider != "" {
		c.AI.Provider = provider
	}
	if model := os.Getenv("GRANTDRAFT_AI_MODEL"); model != "" {
		c.AI.Model = model
	}
	if mode := os.Getenv("GRANTDRAFT_LOG_MODE"); mode != "" {
		c.Log.Mode = mode
	}
}

func (c *Config) applyDefaults() {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	if c.AI.Provider == "" {
		c.AI.Provider = DefaultProvider
	}
	if strings.TrimSpace(c.AI.Model) == "" && c.AI.Provider == DefaultProvider {
		c.AI.Model = DefaultModel
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultStoreDriver
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		c.Storage.Path = DefaultStorePath
	}
	if strings.TrimSpace(c.Export.Dir) == "" {
		c.Export.Dir = DefaultExportDir
	}
	if strings.TrimSpace(c.Export.Format) == "" {
		c.Export.Format = DefaultFormat
	}
	if strings.TrimSpace(c.Log.Mode) == "" {
		c.Log.Mode = DefaultLogMode
	}
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "file":
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("ai.timeout must not be negative")
	}
	return nil
}
