package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/pipeline"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	field   string  // field to drop
	row     int     // target row
	width   float64 // width override, normalized
	span    int     // width override in columns
	output  string  // where to write the resulting layout
	noCache bool    // skip the plan cache
}

func (c *CLI) planCommand() *cobra.Command {
	var opts planOpts

	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "Preview where a field lands when dropped on a row",
		Long: `Preview dropping --field onto --row of the layout in file.

The field may already be in the layout (a move) or be new (an insert). The
chosen strategy, the resulting slot and the full resulting layout are
printed. Nothing is saved; results are cached by layout content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, key, err := readLayout(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			width := opts.width
			if opts.span > 0 {
				width = float64(opts.span) / float64(c.Config.Grid.Columns)
			}
			prog := newProgress(loggerFromContext(ctx))
			res, err := runner.Plan(ctx, pipeline.PlanRequest{
				Layout: l,
				Field:  opts.field,
				Width:  width,
				Row:    opts.row,
			})
			if err != nil {
				return err
			}
			prog.done("planned", "field", opts.field, "strategy", res.Strategy)

			planned, err := grid.Parse(res.Layout)
			if err != nil {
				return err
			}
			c.printPlan(res, planned)
			if opts.output != "" {
				if err := c.writeLayout(planned, key, opts.output, false); err != nil {
					return err
				}
				printFile(c.out, opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.field, "field", "", "field to drop (required)")
	cmd.Flags().IntVar(&opts.row, "row", 0, "target row")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "field width as a fraction of the row (default: current or full)")
	cmd.Flags().IntVar(&opts.span, "span", 0, "field width in columns (overrides --width)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the resulting layout to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the plan cache")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

func (c *CLI) printPlan(res *pipeline.PlanResult, planned grid.Layout) {
	cfg := c.Config.Grid
	printKeyValue(c.out, "Strategy", StyleHighlight.Render(res.Strategy))
	printKeyValue(c.out, "Row", strconv.Itoa(res.Row))
	printKeyValue(c.out, "Column", strconv.Itoa(res.Column))
	printKeyValue(c.out, "Width", spanLabel(cfg, res.Width))
	if res.Clamped {
		printWarning(c.out, "No rows left; push-down was clamped at the last row")
	}
	fmt.Fprintln(c.out, layoutTable(cfg, planned))
	printStats(c.out, res.CacheHit,
		fmt.Sprintf("%d fields", len(planned)),
		fmt.Sprintf("%d rows", planned.RowCount(cfg)))
}
