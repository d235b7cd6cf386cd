package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./marvelx.db" {
			t.Errorf("expected database path ./marvelx.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.Marvel.BaseURL != "https://gateway.marvel.com/v1/public" {
			t.Errorf("unexpected marvel base URL %s", config.Credentials.Marvel.BaseURL)
		}

		if config.Credentials.Marvel.HasKeys() {
			t.Error("placeholder keys should not count as configured")
		}

		if config.Credentials.Marvel.Timeout() != 15*time.Second {
			t.Errorf("expected 15s timeout, got %v", config.Credentials.Marvel.Timeout())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[credentials.marvel]
public_key = "pub"
private_key = "priv"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if !config.Credentials.Marvel.HasKeys() {
			t.Error("expected keys to be configured")
		}

		if config.Credentials.Marvel.PageSize != 20 {
			t.Errorf("expected default page size to survive partial config, got %d", config.Credentials.Marvel.PageSize)
		}
	})

	t.Run("LoadConfig env override", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[log]\nlevel = \"debug\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		t.Setenv(EnvPublicKey, "env-pub")
		t.Setenv(EnvPrivateKey, "env-priv")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Marvel.PublicKey != "env-pub" || config.Credentials.Marvel.PrivateKey != "env-priv" {
			t.Errorf("expected env keys, got %+v", config.Credentials.Marvel)
		}
	})

	t.Run("LoadConfig invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[database\npath = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig missing", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
