package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adamwoolhether/fetchr/internal/config"
	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &config.Config{
		BaseHost:      "api.example.com",
		Scheme:        "https",
		Timeout:       30 * time.Second,
		UserAgent:     "fieldguide/1.0",
		LogLevel:      "info",
		MaxImageBytes: 32 << 20,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("FIELDGUIDE_BASE_HOST", "birds.example.org")
	t.Setenv("FIELDGUIDE_TIMEOUT", "5s")
	t.Setenv("FIELDGUIDE_LOG_LEVEL", "debug")
	t.Setenv("FIELDGUIDE_IMAGE_URL", "https://images.example.org/robin.png")
	t.Setenv("FIELDGUIDE_PROGRESS", "true")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseHost != "birds.example.org" {
		t.Errorf("expected base host from env, got %q", cfg.BaseHost)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Timeout)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Level())
	}
	if cfg.ImageURL != "https://images.example.org/robin.png" {
		t.Errorf("unexpected image url %q", cfg.ImageURL)
	}
	if !cfg.Progress {
		t.Error("expected progress to be enabled")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	const key = "FIELDGUIDE_USER_AGENT"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set in the environment", key)
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file/2.0\n"), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.UserAgent != "from-file/2.0" {
		t.Errorf("expected user agent from file, got %q", cfg.UserAgent)
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("expected missing env file to be ignored, got: %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := map[string]struct {
		key   string
		value string
	}{
		"badScheme":   {key: "FIELDGUIDE_SCHEME", value: "ftp"},
		"badLevel":    {key: "FIELDGUIDE_LOG_LEVEL", value: "loud"},
		"badImageURL": {key: "FIELDGUIDE_IMAGE_URL", value: "not a url"},
		"zeroTimeout": {key: "FIELDGUIDE_TIMEOUT", value: "0s"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			if _, err := config.Load(""); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
