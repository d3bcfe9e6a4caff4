package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-scrape-headlines/models"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty primary url",
			mutate: func(cfg *Config) {
				cfg.Primary.URL = ""
			},
			wantErr: "primary source URL",
		},
		{
			name: "fallback url without host",
			mutate: func(cfg *Config) {
				cfg.Fallback.URL = "http://"
			},
			wantErr: "fallback source URL",
		},
		{
			name: "no selectors",
			mutate: func(cfg *Config) {
				cfg.Primary.Selectors = nil
			},
			wantErr: "at least one selector",
		},
		{
			name: "unknown selector kind",
			mutate: func(cfg *Config) {
				cfg.Fallback.Selectors = []models.Selector{{Pattern: "h1", Kind: "regex"}}
			},
			wantErr: "unknown kind",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "empty output",
			mutate: func(cfg *Config) {
				cfg.OutputFile = ""
			},
			wantErr: "output file",
		},
		{
			name: "negative display limit",
			mutate: func(cfg *Config) {
				cfg.DisplayLimit = -1
			},
			wantErr: "display limit",
		},
		{
			name: "zero dedupe size",
			mutate: func(cfg *Config) {
				cfg.DedupeMaxSize = 0
			},
			wantErr: "dedupe max size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("timeout=%v, want 10s", cfg.Timeout)
	}
	if len(cfg.Primary.Selectors) != 6 || len(cfg.Fallback.Selectors) != 4 {
		t.Fatalf("selectors=%d/%d, want 6/4", len(cfg.Primary.Selectors), len(cfg.Fallback.Selectors))
	}
}

func TestLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `
primary:
  name: local
  url: http://primary.test/news
  selectors:
    - 'h2.title'
    - pattern: '//h3[@class="story"]'
      kind: XPath
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sources: %v", err)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadSources(path); err != nil {
		t.Fatalf("load sources: %v", err)
	}

	want := []models.Selector{
		models.CSS("h2.title"),
		models.XPath(`//h3[@class="story"]`),
	}
	if cfg.Primary.Name != "local" || cfg.Primary.URL != "http://primary.test/news" {
		t.Fatalf("primary=%+v", cfg.Primary)
	}
	if len(cfg.Primary.Selectors) != len(want) {
		t.Fatalf("selectors=%v, want %v", cfg.Primary.Selectors, want)
	}
	for i := range want {
		if cfg.Primary.Selectors[i] != want[i] {
			t.Fatalf("selector %d = %+v, want %+v", i, cfg.Primary.Selectors[i], want[i])
		}
	}
	if cfg.Fallback.URL != DefaultFallback().URL {
		t.Fatalf("fallback should keep its default, got %q", cfg.Fallback.URL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate, got %v", err)
	}
}

func TestLoadSourcesErrors(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	if err := cfg.LoadSources(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("other: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := cfg.LoadSources(empty); err == nil || !strings.Contains(err.Error(), "neither primary nor fallback") {
		t.Fatalf("expected missing sources error, got %v", err)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("SCRAPER_TEST_LIMIT", " 7 ")
	if n, ok, err := EnvInt("SCRAPER_TEST_LIMIT"); err != nil || !ok || n != 7 {
		t.Fatalf("EnvInt = %d, %v, %v; want 7, true, nil", n, ok, err)
	}

	t.Setenv("SCRAPER_TEST_LIMIT", "seven")
	if _, _, err := EnvInt("SCRAPER_TEST_LIMIT"); err == nil {
		t.Fatalf("expected parse error")
	}

	if _, ok, err := EnvInt("SCRAPER_TEST_UNSET_VALUE"); ok || err != nil {
		t.Fatalf("unset env should report ok=false without error")
	}
}
