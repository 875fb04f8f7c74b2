package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	cfgPath := filepath.Join(tmp, "arrshelf", "config.toml")
	if err := WriteDefault(cfgPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	t.Setenv("TVDB_API_KEY", "test-tvdb-key")
	t.Setenv("TMDB_API_KEY", "test-tmdb-key")
	t.Setenv("ARRSHELF_DATA", tmp)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TVDB.APIKey != "test-tvdb-key" {
		t.Errorf("expected tvdb key substituted, got %q", cfg.TVDB.APIKey)
	}
	if cfg.Database.Path != filepath.Join(tmp, "arrshelf.db") {
		t.Errorf("expected database under %s, got %q", tmp, cfg.Database.Path)
	}
	if cfg.Library.RecentRetention.Duration != 168*time.Hour {
		t.Errorf("expected retention 168h, got %s", cfg.Library.RecentRetention)
	}

	opts := cfg.MatcherOptions()
	if len(opts.WordsToIgnore) == 0 || opts.WordsToIgnore[0] != "the" {
		t.Errorf("expected words to ignore from default config, got %v", opts.WordsToIgnore)
	}
}

func TestFullWorkflow_MissingRequiredKey(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteDefault(cfgPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	t.Setenv("TVDB_API_KEY", "")

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("expected error with TVDB_API_KEY empty")
	}
}
