package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetgrid/pkg/pipeline"
)

// replayOpts holds the command-line flags for the replay command.
type replayOpts struct {
	pipeline.Options
	output  string // write the settled layout here
	noStore bool   // neither load nor save
	events  bool   // print every event, not only rejected ones
}

func (c *CLI) replayCommand() *cobra.Command {
	var opts replayOpts

	cmd := &cobra.Command{
		Use:   "replay [script]",
		Short: "Run a pointer script against the engine",
		Long: `Replay a YAML or JSON script of pointer events (drags, resizes, taps,
adds, toggles, waits) against a headless engine with a simulated clock.

The starting layout comes from the script, the store (by --key or the
script's key) or an empty grid. The settled result is saved back to the
store unless --dry-run is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			script, err := pipeline.LoadScript(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, opts.noStore)
			if err != nil {
				return err
			}
			defer runner.Close()

			if opts.FPS == 0 {
				opts.FPS = c.Config.Animation.FPS
			}
			opts.Logger = loggerFromContext(ctx)

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Replaying %d events...", len(script.Events)))
			spinner.Start()
			res, err := runner.Replay(ctx, script, opts.Options)
			if err != nil {
				spinner.StopWithError("Replay failed")
				return err
			}
			spinner.Stop()

			c.printReplay(res, opts.events)
			if opts.output != "" {
				if err := c.writeLayout(res.Layout, res.Key, opts.output, false); err != nil {
					return err
				}
				printFile(c.out, opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Key, "key", "k", "", "layout key (default: the script's key)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "do not save the result")
	cmd.Flags().BoolVar(&opts.IgnoreSaved, "ignore-saved", false, "start from the script layout even if one is stored")
	cmd.Flags().BoolVar(&opts.StopOnError, "stop-on-error", false, "abort at the first rejected event")
	cmd.Flags().IntVar(&opts.FPS, "fps", 0, "simulated frame rate (default from config)")
	cmd.Flags().Float64Var(&opts.ContainerWidth, "container-width", 0, "container width in pixels (default: script or 600)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the settled layout to this file")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "run without the layout store")
	cmd.Flags().BoolVar(&opts.events, "events", false, "list every event")

	return cmd
}

func (c *CLI) printReplay(res *pipeline.Result, all bool) {
	s := res.Stats
	if s.Rejected > 0 {
		printWarning(c.out, "Replayed %d events, %d rejected", s.Events, s.Rejected)
	} else {
		printSuccess(c.out, "Replayed %d events", s.Events)
	}

	var rows [][]string
	for _, ev := range res.Events {
		if !all && ev.Error == "" {
			continue
		}
		rows = append(rows, []string{strconv.Itoa(ev.Index), ev.Op, ev.Field, ev.State, ev.Error})
	}
	if len(rows) > 0 {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("#", "Op", "Field", "State", "Error").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return styleHeader.Padding(0, 1)
				}
				if col == 4 {
					return styleCell.Foreground(colorRed)
				}
				return styleCell
			})
		fmt.Fprintln(c.out, t.Render())
	}

	if res.Key != "" {
		fmt.Fprintln(c.out, StyleTitle.Render(res.Key))
	}
	fmt.Fprintln(c.out, layoutTable(c.Config.Grid, res.Layout))

	saved := "not saved"
	if s.Saved {
		saved = "saved"
	}
	printDetail(c.out, "%d commits · %d frames · %s simulated · %s · took %s",
		s.Commits, s.Frames, s.Simulated, saved, s.WallTime)
	if s.Overlaps > 0 {
		printWarning(c.out, "%d overlapping pairs in the result", s.Overlaps)
	}
}
