// Package config loads magnetgrid settings from a TOML file and the
// environment.
//
// Every field has a default, so a missing file is not an error:
//
//	[grid]
//	columns = 6
//	width_spans = [2, 3, 4, 6]
//
//	[animation]
//	commit_ms = 250
//	commit_curve = "ease-out"
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	listen = ":8080"
//
// Environment variables (MAGNETGRID_STORE, MAGNETGRID_REDIS_ADDR, ...)
// override the file.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/magnetgrid/pkg/cache"
	"github.com/matzehuels/magnetgrid/pkg/core/anim"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/errors"
)

const appName = "magnetgrid"

// Config is the root configuration structure.
type Config struct {
	Grid      grid.Config     `toml:"grid"`
	Animation AnimationConfig `toml:"animation"`
	Store     cache.Options   `toml:"store"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

// AnimationConfig holds tween timings in milliseconds and curve names.
type AnimationConfig struct {
	PreviewMS    int    `toml:"preview_ms"`
	PreviewCurve string `toml:"preview_curve"`
	CommitMS     int    `toml:"commit_ms"`
	CommitCurve  string `toml:"commit_curve"`
	RevertMS     int    `toml:"revert_ms"`
	RevertCurve  string `toml:"revert_curve"`
	FPS          int    `toml:"fps"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Listen          string `toml:"listen"`
	ReadTimeoutSec  int    `toml:"read_timeout_sec"`
	WriteTimeoutSec int    `toml:"write_timeout_sec"`
	// TenantHeader names the request header whose value scopes layout keys.
	// Empty disables tenant scoping.
	TenantHeader string `toml:"tenant_header"`
	// PlanCacheTTLSec bounds how long /plan responses are cached; 0 uses
	// the store default.
	PlanCacheTTLSec int `toml:"plan_cache_ttl_sec"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	profiles := anim.DefaultProfiles()
	cacheDir, _ := CacheDir()
	return &Config{
		Grid: grid.Default(),
		Animation: AnimationConfig{
			PreviewMS:    int(profiles.Preview.Duration / time.Millisecond),
			PreviewCurve: "ease-out",
			CommitMS:     int(profiles.Commit.Duration / time.Millisecond),
			CommitCurve:  "ease-out",
			RevertMS:     int(profiles.Revert.Duration / time.Millisecond),
			RevertCurve:  "ease-in-out",
			FPS:          60,
		},
		Store: cache.Options{
			Backend: cache.BackendFile,
			Dir:     cacheDir,
		},
		Server: ServerConfig{
			Listen:          ":8080",
			ReadTimeoutSec:  10,
			WriteTimeoutSec: 10,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, then applies environment overrides and
// validates. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "stat %s", path)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Grid.Validate(); err != nil {
		errs = append(errs, err)
	}

	for _, a := range []struct {
		name  string
		ms    int
		curve string
	}{
		{"preview", c.Animation.PreviewMS, c.Animation.PreviewCurve},
		{"commit", c.Animation.CommitMS, c.Animation.CommitCurve},
		{"revert", c.Animation.RevertMS, c.Animation.RevertCurve},
	} {
		if a.ms < 0 {
			errs = append(errs, fmt.Errorf("animation.%s_ms=%d must not be negative", a.name, a.ms))
		}
		if _, ok := anim.CurveByName(a.curve); !ok {
			errs = append(errs, fmt.Errorf("animation.%s_curve=%q is unknown", a.name, a.curve))
		}
	}
	if c.Animation.FPS <= 0 || c.Animation.FPS > 240 {
		errs = append(errs, fmt.Errorf("animation.fps=%d must be between 1 and 240", c.Animation.FPS))
	}

	switch strings.ToLower(c.Store.Backend) {
	case "", cache.BackendFile:
		if c.Store.Dir == "" {
			errs = append(errs, stderrors.New("store.dir is required for the file backend"))
		}
	case cache.BackendSQLite:
		if c.Store.Dir == "" && c.Store.SQLitePath == "" {
			errs = append(errs, stderrors.New("store.sqlite_path or store.dir is required for the sqlite backend"))
		}
	case cache.BackendMemory, cache.BackendNone, cache.BackendRedis, cache.BackendMongo:
	default:
		errs = append(errs, fmt.Errorf("store.backend=%q is unknown", c.Store.Backend))
	}

	if c.Server.Listen == "" {
		errs = append(errs, stderrors.New("server.listen is required"))
	}
	if c.Server.ReadTimeoutSec < 0 || c.Server.WriteTimeoutSec < 0 {
		errs = append(errs, stderrors.New("server timeouts must not be negative"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level=%q is unknown", c.Log.Level))
	}

	return errors.Join(errors.ErrCodeInvalidConfig, errs...)
}

// Profiles converts the animation settings into engine profiles. It assumes
// the config has been validated.
func (c *Config) Profiles() anim.Profiles {
	profile := func(name string, ms int, curve string) anim.Profile {
		fn, ok := anim.CurveByName(curve)
		if !ok {
			fn = anim.EaseOut
		}
		return anim.Profile{Name: name, Duration: time.Duration(ms) * time.Millisecond, Curve: fn}
	}
	return anim.Profiles{
		Preview: profile("preview", c.Animation.PreviewMS, c.Animation.PreviewCurve),
		Commit:  profile("commit", c.Animation.CommitMS, c.Animation.CommitCurve),
		Revert:  profile("revert", c.Animation.RevertMS, c.Animation.RevertCurve),
	}
}

// FrameInterval returns the time between animation frames.
func (c *Config) FrameInterval() time.Duration {
	if c.Animation.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Animation.FPS)
}

func applyEnvOverrides(cfg *Config) error {
	var errs []error
	for _, setter := range []struct {
		env   string
		apply func(string) error
	}{
		{"MAGNETGRID_STORE", func(v string) error { cfg.Store.Backend = v; return nil }},
		{"MAGNETGRID_STORE_DIR", func(v string) error { cfg.Store.Dir = v; return nil }},
		{"MAGNETGRID_REDIS_ADDR", func(v string) error { cfg.Store.RedisAddr = v; return nil }},
		{"MAGNETGRID_REDIS_PASSWORD", func(v string) error { cfg.Store.RedisPassword = v; return nil }},
		{"MAGNETGRID_REDIS_DB", func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("MAGNETGRID_REDIS_DB=%q: %w", v, err)
			}
			cfg.Store.RedisDB = n
			return nil
		}},
		{"MAGNETGRID_MONGO_URI", func(v string) error { cfg.Store.MongoURI = v; return nil }},
		{"MAGNETGRID_SQLITE_PATH", func(v string) error { cfg.Store.SQLitePath = v; return nil }},
		{"MAGNETGRID_LISTEN", func(v string) error { cfg.Server.Listen = v; return nil }},
		{"MAGNETGRID_LOG_LEVEL", func(v string) error { cfg.Log.Level = v; return nil }},
	} {
		if v := os.Getenv(setter.env); v != "" {
			if err := setter.apply(v); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errors.ErrCodeInvalidConfig, errs...)
}

// CacheDir returns the store directory using the XDG standard
// (~/.cache/magnetgrid/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// ConfigDir returns the configuration directory (~/.config/magnetgrid/).
func ConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the path Load is given when no --config flag is set.
func DefaultPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}
