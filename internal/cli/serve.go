package cli

import (
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetgrid/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen       string
		tenantHeader string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Serve layouts, plans and compaction over HTTP.

Layouts are kept in the configured store. With --tenant-header set, each
request's layout keys are scoped by the value of that header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if listen == "" {
				listen = cfg.Listen
			}
			if tenantHeader == "" {
				tenantHeader = cfg.TenantHeader
			}

			spinner := newSpinnerWithContext(ctx, "Opening "+c.Config.Store.Backend+" store...")
			spinner.Start()
			defer spinner.Stop()
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				spinner.StopWithError("Could not open the store")
				return err
			}
			defer runner.Close()
			spinner.Update("Starting server...")

			srv := server.New(runner,
				server.WithLogger(loggerFromContext(ctx)),
				server.WithTenantHeader(tenantHeader),
				server.WithTimeouts(
					time.Duration(cfg.ReadTimeoutSec)*time.Second,
					time.Duration(cfg.WriteTimeoutSec)*time.Second,
				),
			)
			return srv.ListenAndServe(ctx, listen, func(addr net.Addr) {
				spinner.StopWithSuccess("Listening on http://" + addr.String())
				printNextStep(c.out, "Try", "curl http://"+addr.String()+"/healthz")
			})
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config)")
	cmd.Flags().StringVar(&tenantHeader, "tenant-header", "", "request header that scopes layout keys")

	return cmd
}
