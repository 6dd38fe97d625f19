package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetgrid/pkg/core/collision"
	"github.com/matzehuels/magnetgrid/pkg/core/compact"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/errors"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"

	defaultGridChars = 60 // characters per row in the text grid
)

func validateFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'table', 'json' or 'yaml')", f)
}

// loadLayout reads the layout named on the command line: a file when args
// holds a path, otherwise the stored layout under key.
func (c *CLI) loadLayout(ctx context.Context, args []string, key string) (grid.Layout, string, error) {
	if len(args) > 0 {
		l, docKey, err := readLayout(args[0])
		if err != nil {
			return nil, "", err
		}
		if key == "" {
			key = docKey
		}
		return l, key, nil
	}
	if key == "" {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "either a layout file or --key is required")
	}
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return nil, "", err
	}
	defer runner.Close()
	l, err := runner.Store.Load(ctx, key)
	return l, key, err
}

// =============================================================================
// show
// =============================================================================

func (c *CLI) showCommand() *cobra.Command {
	var (
		key    string
		format string
		chars  int
	)

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a layout as a table and a text grid",
		Long: `Print a layout file, or the stored layout named by --key.

The table lists every field with its row, column and width span. The text
grid below it draws each row with fields sized to their width.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			l, key, err := c.loadLayout(cmd.Context(), args, key)
			if err != nil {
				return err
			}
			if format != formatTable {
				return c.writeLayout(l, key, "", format == formatYAML)
			}
			c.printLayout(l, key, chars)
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "load the stored layout with this key")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table (default), json, yaml")
	cmd.Flags().IntVar(&chars, "chars", defaultGridChars, "characters per row in the text grid")

	return cmd
}

func (c *CLI) printLayout(l grid.Layout, key string, chars int) {
	cfg := c.Config.Grid
	if key != "" {
		fmt.Fprintln(c.out, StyleTitle.Render(key))
	}
	fmt.Fprintln(c.out, layoutTable(cfg, l))
	fmt.Fprint(c.out, gridView{cfg: cfg, width: chars}.render(l))

	hidden := 0
	for _, p := range l {
		if p.Hidden() {
			hidden++
		}
	}
	fmt.Fprintln(c.out, StyleDim.Render(fmt.Sprintf("  %d fields · %d rows · %d hidden",
		len(l), l.RowCount(cfg), hidden)))
}

// =============================================================================
// compact
// =============================================================================

func (c *CLI) compactCommand() *cobra.Command {
	var (
		output string
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:   "compact [file]",
		Short: "Snap a layout onto the grid and normalize it",
		Long: `Snap every field onto the grid, pull rows up over empty rows and widen
fields that are alone in their row. The result is written to --output, or
printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, key, err := readLayout(args[0])
			if err != nil {
				return err
			}
			cfg := c.Config.Grid
			logger := loggerFromContext(cmd.Context())

			snapped := cfg.Sanitize(l)
			if pairs := collision.Overlapping(cfg, snapped); len(pairs) > 0 {
				logger.Warn("layout overlaps before compaction", "pairs", len(pairs))
			}
			out := compact.New(cfg, compact.WithLogger(logger)).Normalize(snapped)
			logger.Debug("compacted", "changed", strings.Join(out.Changed(l), ","))

			if err := c.writeLayout(out, key, output, asYAML); err != nil {
				return err
			}
			if output != "" {
				printSuccess(c.out, "Compacted %d fields into %d rows", len(out), out.RowCount(cfg))
				printFile(c.out, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json or .yaml)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")

	return cmd
}

// =============================================================================
// validate
// =============================================================================

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a layout for overlaps and off-grid fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := readLayout(args[0])
			if err != nil {
				return err
			}
			cfg := c.Config.Grid

			problem := cfg.Check(l)
			pairs := collision.Overlapping(cfg, l)
			if problem == nil && len(pairs) == 0 {
				printSuccess(c.out, "%s is valid", args[0])
				printDetail(c.out, "%d fields in %d rows", len(l), l.RowCount(cfg))
				return nil
			}

			if problem != nil {
				printError(c.out, "%s", errors.UserMessage(problem))
			}
			for _, pair := range pairs {
				printError(c.out, "%s overlaps %s", pair[0], pair[1])
			}
			return errors.New(errors.ErrCodeInvalidLayout, "%s is not a valid layout", args[0])
		},
	}
}
