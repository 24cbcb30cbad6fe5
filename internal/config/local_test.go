package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/devgenius/internal/domain"
	"gopkg.in/yaml.v3"
)

func TestDevGeniusDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := DevGeniusDir()
	if err != nil {
		t.Fatalf("DevGeniusDir() error = %v", err)
	}
	if dir != filepath.Join(home, ".devgenius") {
		t.Errorf("DevGeniusDir() = %q; want %q", dir, filepath.Join(home, ".devgenius"))
	}
}

func TestEnsureDevGeniusDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, err := EnsureDevGeniusDir()
	if err != nil {
		t.Fatalf("EnsureDevGeniusDir() error = %v", err)
	}

	for _, subdir := range []string{"logs", "challenges"} {
		if _, err := os.Stat(filepath.Join(dir, subdir)); err != nil {
			t.Errorf("EnsureDevGeniusDir() should create %s: %v", subdir, err)
		}
	}
}

func TestDefaultLocalConfig(t *testing.T) {
	cfg := DefaultLocalConfig()

	if cfg.Daemon.Port != 7433 || cfg.Daemon.Bind != "127.0.0.1" {
		t.Errorf("Daemon = %+v; want 127.0.0.1:7433", cfg.Daemon)
	}
	if cfg.Advisor.Backend != "heuristic" {
		t.Errorf("Advisor.Backend = %q; want heuristic", cfg.Advisor.Backend)
	}
	if cfg.DefaultMode() != domain.ModeStandard {
		t.Errorf("DefaultMode() = %q; want %q", cfg.DefaultMode(), domain.ModeStandard)
	}
	if cfg.Preferences.Backend != "sqlite" {
		t.Errorf("Preferences.Backend = %q; want sqlite", cfg.Preferences.Backend)
	}
	if cfg.Events.Enabled {
		t.Error("events should be disabled by default")
	}
	if _, ok := cfg.LLM.Providers["gemini"]; !ok {
		t.Error("gemini provider should be configured")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLocalConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LocalConfig)
	}{
		{"port zero", func(c *LocalConfig) { c.Daemon.Port = 0 }},
		{"port too large", func(c *LocalConfig) { c.Daemon.Port = 70000 }},
		{"negative rate limit", func(c *LocalConfig) { c.Daemon.AdviceRateLimit = -1 }},
		{"unknown backend", func(c *LocalConfig) { c.Advisor.Backend = "oracle" }},
		{"unknown mode", func(c *LocalConfig) { c.Advisor.DefaultMode = "expert" }},
		{"unknown store", func(c *LocalConfig) { c.Preferences.Backend = "etcd" }},
		{"redis without url", func(c *LocalConfig) { c.Preferences.Backend = "redis" }},
		{"postgres without url", func(c *LocalConfig) { c.Preferences.Backend = "postgres" }},
		{"events without url", func(c *LocalConfig) { c.Events.Enabled = true; c.Events.AMQPURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLocalConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v; want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLocalConfig_ChallengesPath(t *testing.T) {
	cfg := DefaultLocalConfig()
	if got := cfg.ChallengesPath("/home/ada/.devgenius"); got != "/home/ada/.devgenius/challenges" {
		t.Errorf("ChallengesPath() = %q", got)
	}

	cfg.Challenges.Path = "/srv/packs"
	if got := cfg.ChallengesPath("/home/ada/.devgenius"); got != "/srv/packs" {
		t.Errorf("ChallengesPath() = %q; want configured path", got)
	}
}

func TestLoadLocalConfig_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadLocalConfig()
	if err != nil {
		t.Fatalf("LoadLocalConfig() error = %v", err)
	}
	if cfg.Daemon.Port != DefaultLocalConfig().Daemon.Port {
		t.Errorf("Port = %d; want default", cfg.Daemon.Port)
	}
}

func TestLoadLocalConfig_WithFileAndSecrets(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DEVGENIUS_GEMINI_API_KEY", "")
	dir := filepath.Join(home, ".devgenius")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	configYAML := `daemon:
  port: 9999
advisor:
  backend: remote
  default_mode: developer
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	secretsYAML := `providers:
  gemini:
    api_key: gm-test-key
  unknown:
    api_key: ignored
`
	if err := os.WriteFile(filepath.Join(dir, "secrets.yaml"), []byte(secretsYAML), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLocalConfig()
	if err != nil {
		t.Fatalf("LoadLocalConfig() error = %v", err)
	}
	if cfg.Daemon.Port != 9999 {
		t.Errorf("Port = %d; want 9999", cfg.Daemon.Port)
	}
	if cfg.Daemon.Bind != "127.0.0.1" {
		t.Errorf("Bind = %q; want default kept", cfg.Daemon.Bind)
	}
	if cfg.Advisor.Backend != "remote" || cfg.DefaultMode() != domain.ModeDeveloper {
		t.Errorf("Advisor = %+v", cfg.Advisor)
	}
	if cfg.LLM.Providers["gemini"].APIKey != "gm-test-key" {
		t.Errorf("gemini APIKey = %q; want gm-test-key", cfg.LLM.Providers["gemini"].APIKey)
	}
}

func TestLoadLocalConfig_InvalidYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".devgenius")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("daemon: [unclosed"), 0644)

	if _, err := LoadLocalConfig(); err == nil {
		t.Error("LoadLocalConfig() should fail on invalid YAML")
	}
}

func TestSaveLocalConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultLocalConfig()
	cfg.Advisor.Backend = "fallback"
	cfg.LLM.Providers["gemini"].APIKey = "must-not-be-written"

	if err := SaveLocalConfig(cfg); err != nil {
		t.Fatalf("SaveLocalConfig() error = %v", err)
	}

	dir, _ := DevGeniusDir()
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	var loaded LocalConfig
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}
	if loaded.Advisor.Backend != "fallback" {
		t.Errorf("saved backend = %q; want fallback", loaded.Advisor.Backend)
	}
	if loaded.LLM.Providers["gemini"].APIKey != "" {
		t.Error("API keys must not be written to config.yaml")
	}
}

func TestSaveSecrets_MergesAndRestrictsPermissions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SaveSecrets(map[string]string{"gemini": "first"}); err != nil {
		t.Fatalf("SaveSecrets() error = %v", err)
	}
	if err := SaveSecrets(map[string]string{"ollama": "second"}); err != nil {
		t.Fatalf("SaveSecrets() error = %v", err)
	}

	dir, _ := DevGeniusDir()
	secrets, err := readSecrets(dir)
	if err != nil {
		t.Fatalf("readSecrets() error = %v", err)
	}
	if secrets.Providers["gemini"].APIKey != "first" || secrets.Providers["ollama"].APIKey != "second" {
		t.Errorf("secrets = %+v; want both keys kept", secrets.Providers)
	}

	info, err := os.Stat(filepath.Join(dir, "secrets.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("secrets.yaml mode = %o; want 600", perm)
	}

	if err := SaveSecrets(map[string]string{"gemini": ""}); err != nil {
		t.Fatalf("SaveSecrets() error = %v", err)
	}
	secrets, _ = readSecrets(dir)
	if _, ok := secrets.Providers["gemini"]; ok {
		t.Error("empty key should remove the entry")
	}
}
