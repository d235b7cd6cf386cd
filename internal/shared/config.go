package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override the Marvel API keys from the config file.
const (
	EnvPublicKey  = "MARVELX_PUBLIC_KEY"
	EnvPrivateKey = "MARVELX_PRIVATE_KEY"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Marvel MarvelConfig `toml:"marvel"`
}

// MarvelConfig contains Marvel API credentials and client tuning.
type MarvelConfig struct {
	PublicKey         string  `toml:"public_key"`
	PrivateKey        string  `toml:"private_key"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	PageSize          int     `toml:"page_size"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// Timeout returns the HTTP client timeout, zero meaning none.
func (m MarvelConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// HasKeys reports whether both API keys are set to something other than the example placeholders.
func (m MarvelConfig) HasKeys() bool {
	return m.PublicKey != "" && m.PrivateKey != "" &&
		m.PublicKey != "your_marvel_public_key" && m.PrivateKey != "your_marvel_private_key"
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for [net/http.Server].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values, and the Marvel keys can be overridden from the environment.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	config.ApplyEnv()
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides the Marvel keys from MARVELX_PUBLIC_KEY and MARVELX_PRIVATE_KEY when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvPublicKey); v != "" {
		c.Credentials.Marvel.PublicKey = v
	}
	if v := os.Getenv(EnvPrivateKey); v != "" {
		c.Credentials.Marvel.PrivateKey = v
	}
}
