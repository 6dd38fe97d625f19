package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetgrid/pkg/cache"
	"github.com/matzehuels/magnetgrid/pkg/client"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/errors"
	"github.com/matzehuels/magnetgrid/pkg/pipeline"
)

// storeOpts selects between the local store and a running server.
type storeOpts struct {
	server string // base URL of a magnetgrid server; empty means local
	tenant string // tenant header value sent to the server
}

// layoutStore is what the store subcommands need from either side.
type layoutStore interface {
	get(ctx context.Context, key string) (grid.Layout, error)
	put(ctx context.Context, key string, l grid.Layout) (grid.Layout, error)
	remove(ctx context.Context, key string) error
	close() error
}

func (c *CLI) storeCommand() *cobra.Command {
	var opts storeOpts

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and modify stored layouts",
		Long: `Read, write and delete stored layouts.

By default the configured local store is used. With --server the commands
talk to a running "magnetgrid serve" instead.`,
	}

	cmd.PersistentFlags().StringVar(&opts.server, "server", "", "magnetgrid server URL (e.g. http://localhost:8080)")
	cmd.PersistentFlags().StringVar(&opts.tenant, "tenant", "", "tenant sent in the server's tenant header")

	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storeGetCommand(&opts))
	cmd.AddCommand(c.storePutCommand(&opts))
	cmd.AddCommand(c.storeDeleteCommand(&opts))

	return cmd
}

func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where layouts are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.Config.Store
			switch s.Backend {
			case "", cache.BackendFile:
				fmt.Fprintln(c.out, s.Dir)
			case cache.BackendSQLite:
				path := s.SQLitePath
				if path == "" {
					path = filepath.Join(s.Dir, "magnetgrid.db")
				}
				fmt.Fprintln(c.out, path)
			case cache.BackendRedis:
				fmt.Fprintln(c.out, "redis://"+s.RedisAddr)
			case cache.BackendMongo:
				fmt.Fprintln(c.out, s.MongoURI)
			default:
				fmt.Fprintln(c.out, s.Backend)
			}
			return nil
		},
	}
}

func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored layout (file store only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := cache.Open(cmd.Context(), c.Config.Store)
			if err != nil {
				return err
			}
			defer backend.Close()

			clearer, ok := backend.(interface{ Clear() error })
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "the %s store cannot be cleared from the CLI", c.Config.Store.Backend)
			}
			if err := clearer.Clear(); err != nil {
				return err
			}
			printSuccess(c.out, "Cleared the layout store")
			printDetail(c.out, "Directory: %s", c.Config.Store.Dir)
			return nil
		},
	}
}

func (c *CLI) storeGetCommand(opts *storeOpts) *cobra.Command {
	var (
		output string
		asYAML bool
	)
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openLayoutStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()

			l, err := s.get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := c.writeLayout(l, args[0], output, asYAML); err != nil {
				return err
			}
			if output != "" {
				printFile(c.out, output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")
	return cmd
}

func (c *CLI) storePutCommand(opts *storeOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <file>",
		Short: "Store a layout file under key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := readLayout(args[1])
			if err != nil {
				return err
			}
			s, err := c.openLayoutStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()

			saved, err := s.put(cmd.Context(), args[0], l)
			if err != nil {
				return err
			}
			printSuccess(c.out, "Stored %s", StyleHighlight.Render(args[0]))
			printDetail(c.out, "%d fields in %d rows", len(saved), saved.RowCount(c.Config.Grid))
			return nil
		},
	}
}

func (c *CLI) storeDeleteCommand(opts *storeOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <key>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored layout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openLayoutStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(c.out, "Deleted %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}

// openLayoutStore returns the server-backed store when --server is set and
// the local one otherwise.
func (c *CLI) openLayoutStore(ctx context.Context, opts *storeOpts) (layoutStore, error) {
	if opts.server != "" {
		var copts []client.Option
		if opts.tenant != "" {
			header := c.Config.Server.TenantHeader
			if header == "" {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "--tenant needs server.tenant_header in the config")
			}
			copts = append(copts, client.WithHeader(header, opts.tenant))
		}
		cl, err := client.New(opts.server, copts...)
		if err != nil {
			return nil, err
		}
		return remoteStore{cl}, nil
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return nil, err
	}
	return localStore{runner}, nil
}

type localStore struct{ r *pipeline.Runner }

func (s localStore) get(ctx context.Context, key string) (grid.Layout, error) {
	return s.r.Store.Load(ctx, key)
}

func (s localStore) put(ctx context.Context, key string, l grid.Layout) (grid.Layout, error) {
	l = s.r.Grid.Sanitize(l)
	return l, s.r.Store.Save(ctx, key, l)
}

func (s localStore) remove(ctx context.Context, key string) error { return s.r.Store.Delete(ctx, key) }
func (s localStore) close() error                                 { return s.r.Close() }

type remoteStore struct{ c *client.Client }

func (s remoteStore) get(ctx context.Context, key string) (grid.Layout, error) {
	return s.c.GetLayout(ctx, key)
}

func (s remoteStore) put(ctx context.Context, key string, l grid.Layout) (grid.Layout, error) {
	return s.c.PutLayout(ctx, key, l, false)
}

func (s remoteStore) remove(ctx context.Context, key string) error { return s.c.DeleteLayout(ctx, key) }
func (remoteStore) close() error                                   { return nil }
