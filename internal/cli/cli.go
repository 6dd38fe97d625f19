package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetgrid/pkg/cache"
	"github.com/matzehuels/magnetgrid/pkg/config"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/document"
	"github.com/matzehuels/magnetgrid/pkg/pipeline"
)

const appName = "magnetgrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs. It holds the defaults
	// until then.
	Config *config.Config

	configPath string
	verbose    bool
	out        io.Writer
}

// New creates a CLI that logs to w at level and prints results to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (tables, layouts, stats).
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// loadConfig reads the --config file (or the default path) and applies the
// configured log level.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.SetLogLevel(logLevel(cfg.Log.Level, c.verbose))
	c.Logger.Debug("config loaded", "path", path, "store", cfg.Store.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner opens the configured store and wraps it in a pipeline runner
// set up with the configured grid and animation timings.
func (c *CLI) newRunner(ctx context.Context, noStore bool) (*pipeline.Runner, error) {
	var (
		backend cache.Cache
		err     error
	)
	if noStore {
		backend = cache.NewNullCache()
	} else if backend, err = cache.Open(ctx, c.Config.Store); err != nil {
		return nil, err
	}

	r := pipeline.NewRunner(backend, nil, c.Logger)
	r.SetGrid(c.Config.Grid)
	r.Profiles = c.Config.Profiles()
	if ttl := c.Config.Server.PlanCacheTTLSec; ttl > 0 {
		r.PlanTTL = time.Duration(ttl) * time.Second
	}
	return r, nil
}

// =============================================================================
// Layout Files
// =============================================================================

// readLayout loads a layout file as written, without snapping it to the grid.
func readLayout(path string) (grid.Layout, string, error) {
	doc, err := document.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	l, err := grid.Parse(doc)
	if err != nil {
		return nil, "", err
	}
	return l, doc.Key, nil
}

// writeLayout writes l to path, or to the CLI output as JSON (YAML when
// asYAML is set) when path is empty.
func (c *CLI) writeLayout(l grid.Layout, key, path string, asYAML bool) error {
	doc := grid.Export(l, key)
	if path != "" {
		return document.WriteFile(doc, path)
	}
	var (
		data []byte
		err  error
	)
	if asYAML {
		data, err = document.MarshalYAML(doc)
	} else {
		data, err = document.Marshal(doc)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, string(data))
	return err
}
