package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	pkgcache "github.com/grantline/grantline/pkg/cache"
	"github.com/grantline/grantline/pkg/config"
	"github.com/grantline/grantline/pkg/httputil"
	"github.com/grantline/grantline/pkg/proposal"
	"github.com/grantline/grantline/pkg/source"
	"github.com/grantline/grantline/pkg/timeline"
)

// loadOpts holds the command-line flags for the load command.
type loadOpts struct {
	output  string // output file path (stdout if empty)
	noCache bool   // disable result caching
	refresh bool   // recompute even when cached
}

// loadCommand creates the load command.
func (c *CLI) loadCommand() *cobra.Command {
	var opts loadOpts

	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Normalize raw proposal rows into a dataset",
		Long: `Normalize raw proposal rows into a dataset.

Rows come from a CSV or JSON file, or from the [data] default_resource
URL in grantline.toml when no file is given. Rows missing a proposal
number, submission date, or PI are skipped and reported as warnings;
the rest are grouped into proposals with resolved submission years.

Results are cached locally for faster subsequent runs.

Examples:
  grantline load proposals.csv -o dataset.json
  grantline load exports/2021.json
  grantline load                             # uses [data] default_resource`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runLoad(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached result exists")

	return cmd
}

// runLoad reads rows, normalizes them, and writes the dataset.
func (c *CLI) runLoad(ctx context.Context, input string, opts loadOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	rows, err := c.readRows(ctx, cfg, input, opts.refresh)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := cfg.Options()
	popts.Refresh = opts.refresh

	prog := newProgress(c.Logger)
	data, cacheHit, err := runner.RecomputeWithCacheInfo(ctx, rows, popts)
	if err != nil {
		return fmt.Errorf("normalize rows: %w", err)
	}
	prog.done(fmt.Sprintf("Normalized %d proposals from %d rows", len(data.Proposals), len(rows)))

	c.warnRejects(data.Rejected)

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := timeline.WriteDataset(data.Wire(), out); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	// Decorations would corrupt a dataset streamed to stdout.
	if opts.output != "" {
		printSuccess("Dataset ready")
		printFile(opts.output)
		printStats(len(data.Proposals), data.Index.Len(), cacheHit)
		printNewline()
		printNextStep("Project", "grantline project "+opts.output)
	}

	return nil
}

// warnRejects reports skipped rows without failing the run.
func (c *CLI) warnRejects(rejects []proposal.RejectedRow) {
	for _, r := range rejects {
		c.Logger.Warn("Rejected row",
			"ordinal", r.Ordinal,
			"proposal", r.ProposalID,
			"reason", r.Reason,
			"detail", r.Detail,
		)
	}
}

// readRows loads raw rows from the given file, or from the configured
// default resource when no file is given.
func (c *CLI) readRows(ctx context.Context, cfg config.Config, input string, refresh bool) ([]proposal.Row, error) {
	if input != "" {
		return source.LoadFile(input)
	}
	if cfg.Data.DefaultResource == "" {
		return nil, errors.New("no input: pass a rows file or set [data] default_resource in grantline.toml")
	}

	fetcher, err := c.newFetcher()
	if err != nil {
		return nil, fmt.Errorf("initialize fetcher: %w", err)
	}
	c.Logger.Infof("Fetching %s", cfg.Data.DefaultResource)
	return fetcher.Fetch(ctx, cfg.Data.DefaultResource, refresh)
}

// newFetcher builds an HTTP fetcher whose response cache lives next to
// the result cache.
func (c *CLI) newFetcher() (*source.Fetcher, error) {
	dir, err := cacheDir()
	if err != nil {
		dir = "" // fall back to the cache package default
	}
	hc, err := httputil.NewCache(dir, pkgcache.TTLHTTP)
	if err != nil {
		return nil, err
	}
	return source.NewFetcher(hc), nil
}
