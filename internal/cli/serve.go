package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grantline/grantline/internal/httpapi"
	"github.com/grantline/grantline/pkg/view"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string   // listen address override
	origins []string // CORS origin overrides
	data    string   // rows file to preload
	noCache bool     // disable result caching
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timeline API over HTTP",
		Long: `Serve the timeline API over HTTP.

The server owns one dataset at a time: uploads replace it, queries
derive positioned views under per-request pin, zoom, pan, and width
overrides, and the stored filter and viewport are driven by commands.
When --data or the configured default resource is set, the dataset is
loaded before the server starts accepting requests.

Endpoints:
  POST /api/dataset              upload CSV/JSON rows
  GET  /api/dataset              summary of the current dataset
  GET  /api/projection           positioned timeline (pin, k, pan, width)
  POST /api/filter               pin a PI
  POST /api/viewport             set zoom and pan
  POST /api/viewport/reset       restore unit zoom
  GET  /api/pis                  roster with collaboration counts
  GET  /api/pis/{name}/partners  one PI's collaborators
  GET  /healthz                  liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringSliceVar(&opts.origins, "origin", nil, "allowed CORS origin (repeatable; default localhost)")
	cmd.Flags().StringVar(&opts.data, "data", "", "rows file to load before serving")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the view, optionally preloads it, and serves until
// the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	v := view.New(runner, cfg.Options())

	// Preload when a source is known so first queries need no upload.
	if opts.data != "" || cfg.Data.DefaultResource != "" {
		rows, err := c.readRows(ctx, cfg, opts.data, false)
		if err != nil {
			return err
		}
		token := v.BeginLoad()
		if err := v.Apply(ctx, view.DatasetLoaded{Token: token, Rows: rows}); err != nil {
			return fmt.Errorf("preload dataset: %w", err)
		}
		c.Logger.Info("Preloaded dataset", "rows", len(rows), "hash", v.DatasetHash())
	}

	addr := cfg.Serve.Addr
	if opts.addr != "" {
		addr = opts.addr
	}
	origins := cfg.Serve.AllowedOrigins
	if len(opts.origins) > 0 {
		origins = opts.origins
	}

	srv := httpapi.New(httpapi.Config{Addr: addr, AllowedOrigins: origins}, v, c.Logger)
	printInfo("Serving timeline API on %s", addr)
	return srv.ListenAndServe(ctx)
}
