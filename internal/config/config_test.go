package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Recommend.MissingScoreDefault != 1 {
		t.Errorf("MissingScoreDefault = %v", cfg.Recommend.MissingScoreDefault)
	}
	if cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v", cfg.Security.RateLimitWindow)
	}
	if cfg.Admin.Passcode == "" {
		t.Error("Admin.Passcode empty")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := strings.Join([]string{
		"server:",
		"  port: 9000",
		"data:",
		"  preferences_path: prefs.csv",
		"logging:",
		"  format: console",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("WHICHGAME_SERVER_PORT", "9100")
	t.Setenv("WHICHGAME_DATA_RULES_PATH", "gameRules.txt")
	t.Setenv("WHICHGAME_SECURITY_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env should win over file, Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Data.PreferencesPath != "prefs.csv" || cfg.Data.RulesPath != "gameRules.txt" {
		t.Errorf("Data = %+v", cfg.Data)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q", cfg.Logging.Format)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"missing passcode", func(c *Config) { c.Admin.Passcode = "" }},
		{"default score above 3", func(c *Config) { c.Recommend.MissingScoreDefault = 4 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}

	if err := defaultConfig().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestEnvTransform(t *testing.T) {
	if got := envTransformFunc("WHICHGAME_ADMIN_BCRYPT_COST"); got != "admin.bcrypt_cost" {
		t.Errorf("envTransformFunc() = %q", got)
	}
}
