package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return tmpDir
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/recibi/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "recibi", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadGlobalConfig() returned nil")
	}
	if cfg.SetFields != nil || cfg.InspireURL != "" {
		t.Errorf("LoadGlobalConfig() = %+v, want empty", cfg)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	dir := writeConfig(t, `
set_fields: [keywords, groups]
set_delimiter: ";"
inspire_url: http://localhost:9999/api
rate_limit: 0.5
timeout: 5s
log_level: debug
`)
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if len(cfg.SetFields) != 2 || cfg.SetFields[1] != "groups" {
		t.Errorf("SetFields = %v, want [keywords groups]", cfg.SetFields)
	}
	if cfg.SetDelimiter != ";" {
		t.Errorf("SetDelimiter = %q, want ;", cfg.SetDelimiter)
	}
	if cfg.RateLimit != 0.5 {
		t.Errorf("RateLimit = %g, want 0.5", cfg.RateLimit)
	}

	// Cached until reset.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	again, err := LoadGlobalConfig()
	if err != nil {
		t.Fatal(err)
	}
	if again != cfg {
		t.Error("LoadGlobalConfig() did not return cached config")
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", writeConfig(t, "set_fields: {unclosed"))

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() should return error for invalid YAML")
	}
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-env" {
		t.Errorf("GetConfigValue() = %q, want from-env", got)
	}

	t.Setenv("TEST_CONFIG_KEY", "")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-config" {
		t.Errorf("GetConfigValue() = %q, want from-config", got)
	}
}

func TestResolve_Defaults(t *testing.T) {
	t.Setenv(EnvInspireURL, "")
	t.Setenv(EnvOstiURL, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")

	s, err := Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve(nil) error = %v", err)
	}
	if s.SetFields != nil {
		t.Errorf("SetFields = %v, want nil", s.SetFields)
	}
	if s.InspireURL != DefaultInspireURL {
		t.Errorf("InspireURL = %q, want %q", s.InspireURL, DefaultInspireURL)
	}
	if s.OstiURL != DefaultOstiURL {
		t.Errorf("OstiURL = %q, want %q", s.OstiURL, DefaultOstiURL)
	}
	if s.RateLimit != DefaultRateLimit {
		t.Errorf("RateLimit = %g, want %g", s.RateLimit, DefaultRateLimit)
	}
	if s.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want %s", s.Timeout, DefaultTimeout)
	}
	if s.LogLevel != DefaultLogLevel || s.LogFormat != DefaultLogFormat {
		t.Errorf("log = %q/%q, want defaults", s.LogLevel, s.LogFormat)
	}
}

func TestResolve_EnvOverrides(t *testing.T) {
	t.Setenv(EnvInspireURL, "http://env/api")
	t.Setenv(EnvLogLevel, "debug")

	s, err := Resolve(&GlobalConfig{InspireURL: "http://file/api", LogLevel: "error", Timeout: "2s"})
	if err != nil {
		t.Fatal(err)
	}
	if s.InspireURL != "http://env/api" {
		t.Errorf("InspireURL = %q, want env value", s.InspireURL)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", s.LogLevel)
	}
	if s.Timeout != 2*time.Second {
		t.Errorf("Timeout = %s, want 2s", s.Timeout)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  GlobalConfig
	}{
		{"bad timeout", GlobalConfig{Timeout: "soon"}},
		{"zero timeout", GlobalConfig{Timeout: "0s"}},
		{"negative rate", GlobalConfig{RateLimit: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(&tt.cfg); err == nil {
				t.Errorf("Resolve(%+v) should fail", tt.cfg)
			}
		})
	}
}
