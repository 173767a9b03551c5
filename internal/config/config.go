package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// DatabaseURLEnv overrides database.url when set
const DatabaseURLEnv = "DATABASE_URL"

// DatabaseConfig selects and configures the storage backend
type DatabaseConfig struct {
	// Backend defaults to postgres when a URL is configured, sqlite otherwise
	Backend    string `yaml:"backend" validate:"omitempty,oneof=postgres sqlite memory"`
	URL        string `yaml:"url" validate:"required_if=Backend postgres"`
	SQLitePath string `yaml:"sqlitePath"`
	RequireSSL bool   `yaml:"requireSSL"`
}

// MatchingConfig tunes the shift classifier and window filter
type MatchingConfig struct {
	DayStartHour       *int   `yaml:"dayStartHour" validate:"omitempty,min=0,max=23"`
	DayEndHour         *int   `yaml:"dayEndHour" validate:"omitempty,min=1,max=24"`
	WindowMode         string `yaml:"windowMode" validate:"omitempty,oneof=start contained"`
	RevalidateOnAssign *bool  `yaml:"revalidateOnAssign"`
}

// ComplianceConfig configures the expiring compliance lookup
type ComplianceConfig struct {
	DefaultDaysAhead *int `yaml:"defaultDaysAhead" validate:"omitempty,min=0"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LoggingConfig configures the log files
type LoggingConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// SeedConfig points at an optional YAML seed file
type SeedConfig struct {
	File string `yaml:"file"`
}

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Matching   MatchingConfig   `yaml:"matching"`
	Compliance ComplianceConfig `yaml:"compliance"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Seed       SeedConfig       `yaml:"seed"`

	// Path is the file the configuration was read from; empty when defaults were used
	Path string `yaml:"-"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates health_ops_config.<env>.yaml, looking in the
// current directory first, then in the user's home directory. When neither has
// one, the defaults are used.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(fileName(env))
	if errors.Is(err, fs.ErrNotExist) {
		return finish(&Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Path = path

	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	if url := os.Getenv(DatabaseURLEnv); url != "" {
		cfg.Database.URL = url
	}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills every unset field with its default
func ApplyDefaults(cfg *Config) {
	if cfg.Database.Backend == "" {
		if cfg.Database.URL != "" {
			cfg.Database.Backend = BackendPostgres
		} else {
			cfg.Database.Backend = BackendSQLite
		}
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "local_demo.db"
	}

	if cfg.Matching.DayStartHour == nil {
		cfg.Matching.DayStartHour = intPtr(7)
	}
	if cfg.Matching.DayEndHour == nil {
		cfg.Matching.DayEndHour = intPtr(19)
	}
	if cfg.Matching.WindowMode == "" {
		cfg.Matching.WindowMode = "start"
	}
	if cfg.Matching.RevalidateOnAssign == nil {
		revalidate := true
		cfg.Matching.RevalidateOnAssign = &revalidate
	}

	if cfg.Compliance.DefaultDaysAhead == nil {
		cfg.Compliance.DefaultDaysAhead = intPtr(30)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
}

// Validate validates the configuration struct and the day/night boundary
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	m := cfg.Matching
	if m.DayStartHour != nil && m.DayEndHour != nil && *m.DayStartHour >= *m.DayEndHour {
		return fmt.Errorf("matching.dayStartHour (%d) must be before matching.dayEndHour (%d)", *m.DayStartHour, *m.DayEndHour)
	}

	return nil
}

func fileName(env string) string {
	return fmt.Sprintf("health_ops_config.%s.yaml", env)
}

// findConfigFile searches for name in the current directory and the home directory.
// Returns an error wrapping fs.ErrNotExist when neither has it.
func findConfigFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory: %w", name, fs.ErrNotExist)
}

func intPtr(v int) *int {
	return &v
}
