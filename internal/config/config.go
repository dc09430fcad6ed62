package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rana718/roster/template"
	"github.com/spf13/viper"
)

// FileName is the config file InitializeProject writes and the CLI reads.
const FileName = "roster.config.json"

var ErrUnsupportedProvider = template.ErrUnsupportedProvider

type Config struct {
	Version      string   `json:"version" mapstructure:"version"`
	FixturesPath string   `json:"fixtures_path" mapstructure:"fixtures_path"`
	ExportPath   string   `json:"export_path" mapstructure:"export_path"`
	Database     Database `json:"database" mapstructure:"database"`
	Table        Table    `json:"table" mapstructure:"table"`
	Server       Server   `json:"server" mapstructure:"server"`
	Log          Log      `json:"log" mapstructure:"log"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Table struct {
	PageSize   int `json:"page_size" mapstructure:"page_size"`
	DebounceMS int `json:"debounce_ms" mapstructure:"debounce_ms"`
}

type Server struct {
	Port        int    `json:"port" mapstructure:"port"`
	Browser     bool   `json:"browser" mapstructure:"browser"`
	DefaultRole string `json:"default_role" mapstructure:"default_role"`
}

type Log struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file,omitempty" mapstructure:"file"`
	MaxSizeMB int    `json:"max_size_mb,omitempty" mapstructure:"max_size_mb"`
}

// Load reads whatever viper has collected and fills in defaults.
func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// DefaultConfig is what a fresh project starts with.
func DefaultConfig() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.FixturesPath == "" {
		c.FixturesPath = "data/fixtures.json"
	}
	if c.ExportPath == "" {
		c.ExportPath = "data/export"
	}
	if c.Database.Provider == "" {
		c.Database.Provider = "sqlite"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "DATABASE_URL"
	}
	if c.Table.PageSize <= 0 {
		c.Table.PageSize = 5
	}
	if c.Table.DebounceMS <= 0 {
		c.Table.DebounceMS = 300
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5555
	}
	if c.Server.DefaultRole == "" {
		c.Server.DefaultRole = "viewer"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 10
	}
}

// Debounce is the search debounce as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Table.DebounceMS) * time.Millisecond
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.FixturesPath),
		c.ExportPath,
	}
	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func (c *Config) Validate() error {
	if _, ok := template.ParseDatabaseType(c.Database.Provider); !ok {
		return fmt.Errorf("%w: %s. Supported providers: %v", ErrUnsupportedProvider, c.Database.Provider, template.SupportedProviders)
	}
	if c.Table.PageSize <= 0 {
		return fmt.Errorf("table.page_size must be positive, got %d", c.Table.PageSize)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.ExportPath == "" {
		return fmt.Errorf("export_path cannot be empty")
	}
	return nil
}

// IsInitialized reports whether the working directory has a config file.
func IsInitialized() bool {
	_, err := os.Stat(FileName)
	return err == nil
}

// InitializeProject writes the config file, a .env entry and the data
// directories for provider. It refuses to overwrite an existing project.
func InitializeProject(provider string) error {
	if IsInitialized() {
		return fmt.Errorf("%s already exists", FileName)
	}
	dbType, ok := template.ParseDatabaseType(provider)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	tmpl := template.NewProjectTemplate(dbType)

	for _, dir := range tmpl.GetDirectoryStructure() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(FileName, []byte(tmpl.GetConfig()), 0644); err != nil {
		return fmt.Errorf("failed to create file %s: %w", FileName, err)
	}
	if err := tmpl.MergeEnvFile(".env"); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}
	return nil
}
