package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	valid bool
}

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	c.valid = true
	return nil
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SITESEARCH_TEST_NAME", "blog")
	path := writeConfig(t, "name: ${SITESEARCH_TEST_NAME}\nport: 8080\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "blog" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.valid {
		t.Error("Validate not called")
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeConfig(t, "name: x\nprot: 8080\n")

	var cfg testConfig
	if err := Load(path, &cfg); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, "name: x\nport: 0\n")

	var cfg testConfig
	err := Load(path, &cfg)
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Fatalf("err = %v, want validation failure", err)
	}
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg := testConfig{Port: 9000}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("port = %d, want default 9000", cfg.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	cfg := testConfig{Port: 8080}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if !cfg.valid {
		t.Error("defaults not validated")
	}

	bad := testConfig{}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &bad); err == nil {
		t.Fatal("invalid defaults should fail validation")
	}
}

func TestLoadWithDefaults_Fallback(t *testing.T) {
	fallback := writeConfig(t, "port: 7000\n")

	var cfg testConfig
	if err := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"), fallback, &cfg); err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Port != 7000 {
		t.Errorf("port = %d, want 7000", cfg.Port)
	}
}
