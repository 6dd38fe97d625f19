package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/magnetgrid/pkg/cache"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, path := range []string{"", filepath.Join(t.TempDir(), "nope.toml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) = %v", path, err)
		}
		if cfg.Grid.Columns != grid.Default().Columns {
			t.Errorf("Load(%q) did not return defaults", path)
		}
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := writeConfig(t, `
[grid]
max_rows = 12
width_spans = [3, 6]

[animation]
commit_ms = 400
commit_curve = "linear"

[store]
backend = "redis"
redis_addr = "cache:6379"

[server]
listen = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Grid.MaxRows != 12 || len(cfg.Grid.WidthSpans) != 2 {
		t.Errorf("grid = %+v", cfg.Grid)
	}
	if cfg.Grid.Columns != 6 {
		t.Errorf("unset grid fields should keep defaults, columns = %d", cfg.Grid.Columns)
	}
	if cfg.Store.Backend != cache.BackendRedis || cfg.Store.RedisAddr != "cache:6379" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.Listen != "127.0.0.1:9000" {
		t.Errorf("listen = %q", cfg.Server.Listen)
	}

	p := cfg.Profiles()
	if p.Commit.Duration != 400*time.Millisecond {
		t.Errorf("commit duration = %v", p.Commit.Duration)
	}
	if got := p.Commit.Curve(0.5); got != 0.5 {
		t.Errorf("linear curve(0.5) = %v", got)
	}
	if p.Preview.Duration != 120*time.Millisecond {
		t.Errorf("preview duration = %v, want default", p.Preview.Duration)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "syntax", body: "[grid\ncolumns = 6", want: "parse"},
		{name: "grid", body: "[grid]\ncolumns = 0", want: "columns"},
		{name: "curve", body: "[animation]\nrevert_curve = \"bounce\"", want: "revert_curve"},
		{name: "fps", body: "[animation]\nfps = 0", want: "fps"},
		{name: "backend", body: "[store]\nbackend = \"etcd\"", want: "etcd"},
		{name: "level", body: "[log]\nlevel = \"loud\"", want: "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %s, want INVALID_CONFIG", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateAggregates(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfg := Default()
	cfg.Animation.FPS = -1
	cfg.Server.Listen = ""
	cfg.Log.Level = "shout"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"fps", "server.listen", "shout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("MAGNETGRID_STORE", "sqlite")
	t.Setenv("MAGNETGRID_SQLITE_PATH", "/tmp/grid.db")
	t.Setenv("MAGNETGRID_REDIS_DB", "3")
	t.Setenv("MAGNETGRID_LISTEN", ":9999")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.SQLitePath != "/tmp/grid.db" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.RedisDB != 3 {
		t.Errorf("redis db = %d", cfg.Store.RedisDB)
	}
	if cfg.Server.Listen != ":9999" {
		t.Errorf("listen = %q", cfg.Server.Listen)
	}

	t.Setenv("MAGNETGRID_REDIS_DB", "three")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "MAGNETGRID_REDIS_DB") {
		t.Errorf("bad int override err = %v", err)
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := &Config{Animation: AnimationConfig{FPS: 50}}
	if got := cfg.FrameInterval(); got != 20*time.Millisecond {
		t.Errorf("FrameInterval = %v", got)
	}
	cfg.Animation.FPS = 0
	if got := cfg.FrameInterval(); got != time.Second/60 {
		t.Errorf("FrameInterval fallback = %v", got)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	if dir, _ := CacheDir(); dir != filepath.Join("/xdg/cache", appName) {
		t.Errorf("CacheDir = %q", dir)
	}
	if dir, _ := ConfigDir(); dir != filepath.Join("/xdg/config", appName) {
		t.Errorf("ConfigDir = %q", dir)
	}
	if got := DefaultPath(); got != filepath.Join("/xdg/config", appName, "config.toml") {
		t.Errorf("DefaultPath = %q", got)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) || !strings.Contains(dir, ".cache") {
		t.Errorf("CacheDir without XDG = %q", dir)
	}
}
