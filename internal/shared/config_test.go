package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "https://deploybeta.tagged.com/v1" {
			t.Errorf("expected default base URL, got %s", config.API.BaseURL)
		}

		if config.API.ProbePath != "/projects/1" {
			t.Errorf("expected probe path /projects/1, got %s", config.API.ProbePath)
		}

		if config.API.ProbeTimeout.Duration != 5*time.Second {
			t.Errorf("expected probe timeout 5s, got %v", config.API.ProbeTimeout)
		}

		if config.Database.Path != "./tdsdash.db" {
			t.Errorf("expected database path ./tdsdash.db, got %s", config.Database.Path)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
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

		testConfig := `[api]
base_url = "http://localhost:6543/v1"
probe_timeout = "250ms"
requests_per_second = 0.0

[log]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://localhost:6543/v1" {
			t.Errorf("expected custom base URL, got %s", config.API.BaseURL)
		}

		if config.API.ProbeTimeout.Duration != 250*time.Millisecond {
			t.Errorf("expected probe timeout 250ms, got %v", config.API.ProbeTimeout)
		}

		if config.API.ProbePath != "/projects/1" {
			t.Errorf("expected missing probe_path to keep default, got %s", config.API.ProbePath)
		}

		if config.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", config.Log.Level)
		}
	})

	t.Run("LoadConfig rejects invalid values", func(t *testing.T) {
		for name, body := range map[string]string{
			"bad duration": "[api]\nprobe_timeout = \"soon\"\n",
			"bad timeout":  "[api]\nrequest_timeout = \"30 seconds\"\n",
			"bad syntax":   "[api\nbase_url = \"https://deploy.example.com\"\n",
			"bad scheme":   "[api]\nbase_url = \"ftp://deploy.example.com\"\n",
			"no host":      "[api]\nbase_url = \"https://\"\n",
		} {
			t.Run(name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(body), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadConfig names the offending key", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api]\nprobe_timeout = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if err == nil || !strings.Contains(err.Error(), "api.probe_timeout") {
			t.Errorf("expected error to name api.probe_timeout, got %v", err)
		}
	})
}
