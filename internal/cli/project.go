package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grantline/grantline/pkg/config"
	"github.com/grantline/grantline/pkg/palette"
	"github.com/grantline/grantline/pkg/pipeline"
	"github.com/grantline/grantline/pkg/timeline"
)

// projectOpts holds the command-line flags for the project command.
type projectOpts struct {
	output      string  // output file path (stdout if empty)
	pin         string  // PI pinned at the top of the sequence
	zoom        float64 // zoom factor
	pan         float64 // pan offset in pixels
	width       float64 // projection width override
	interactive bool    // pick the pin in a TUI
	noCache     bool    // disable result caching
	refresh     bool    // recompute even when cached
}

// projectCommand creates the project command.
func (c *CLI) projectCommand() *cobra.Command {
	opts := projectOpts{zoom: pipeline.DefaultZoom}

	cmd := &cobra.Command{
		Use:   "project [file]",
		Short: "Project a dataset onto a positioned timeline",
		Long: `Project a dataset onto a positioned timeline.

The input is either a dataset file produced by 'grantline load' or a
raw CSV/JSON export, which is normalized first. PI swimlanes are ordered
by collaboration strength, vertical gaps shrink with shared proposal
counts, and every proposal gets a pixel position under the requested
zoom and pan.

Pinning a PI anchors them at the top and sorts everyone else by how
often they collaborate with the pin. With --interactive the pin is
chosen from the roster in a picker.

Results are cached locally for faster subsequent runs.

Examples:
  grantline project dataset.json -o projection.json
  grantline project proposals.csv --pin "Curie" -k 2.5
  grantline project dataset.json --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runProject(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.pin, "pin", "", "PI to pin at the top of the sequence")
	cmd.Flags().Float64VarP(&opts.zoom, "zoom", "k", opts.zoom, "zoom factor, clamped to [0.5, 10]")
	cmd.Flags().Float64Var(&opts.pan, "pan", 0, "horizontal pan in pixels")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "projection width in pixels (default from config)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the pinned PI interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached result exists")

	return cmd
}

// runProject loads the data, derives the projection, and writes output.
func (c *CLI) runProject(ctx context.Context, input string, opts projectOpts) error {
	cfg, err := c.loadConfig()
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
	popts.Pin = opts.pin
	popts.Zoom = opts.zoom
	popts.Pan = opts.pan
	if opts.width > 0 {
		popts.PixelWidth = opts.width
	}
	if cfg.Palette.Path != "" {
		pal, err := palette.Load(cfg.Palette.Path)
		if err != nil {
			return fmt.Errorf("load palette: %w", err)
		}
		popts.Palette = pal
	}

	data, _, err := c.loadData(ctx, runner, cfg, input, popts)
	if err != nil {
		return err
	}

	if opts.interactive {
		pin, err := pickPI(data.Index)
		if err != nil {
			return err
		}
		if pin != "" {
			popts.Pin = pin
		}
	}

	spinner := newSpinnerWithContext(ctx, "Projecting timeline...")
	spinner.Start()

	proj, cacheHit, err := runner.ProjectWithCacheInfo(ctx, data, popts)
	if err != nil {
		spinner.StopWithError("Projection failed")
		return fmt.Errorf("project timeline: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := timeline.WriteProjection(proj, out); err != nil {
		return fmt.Errorf("write projection: %w", err)
	}

	// Decorations would corrupt a projection streamed to stdout.
	if opts.output != "" {
		printSuccess("Projection complete")
		printFile(opts.output)
		printStats(len(data.Proposals), len(proj.Sequence), cacheHit)
		if proj.Pinned != "" {
			printDetail("Pinned: %s", proj.Pinned)
		}
		printNewline()
		printNextStep("Serve", "grantline serve")
	}

	return nil
}

// loadData accepts either a normalized dataset (the output of load) or
// raw rows, recomputing in the latter case. The returned flag reports a
// recompute cache hit; datasets read directly are never "cached".
func (c *CLI) loadData(ctx context.Context, runner *pipeline.Runner, cfg config.Config, input string, popts pipeline.Options) (*pipeline.Data, bool, error) {
	if input != "" && strings.HasSuffix(strings.ToLower(input), ".json") {
		if wire, err := timeline.ReadDatasetFile(input); err == nil && len(wire.Proposals) > 0 {
			data, err := pipeline.FromDataset(wire)
			if err != nil {
				return nil, false, fmt.Errorf("load dataset %s: %w", input, err)
			}
			c.Logger.Debugf("Loaded dataset %s (%d proposals)", input, len(data.Proposals))
			return data, false, nil
		}
	}

	rows, err := c.readRows(ctx, cfg, input, popts.Refresh)
	if err != nil {
		return nil, false, err
	}
	data, cacheHit, err := runner.RecomputeWithCacheInfo(ctx, rows, popts)
	if err != nil {
		return nil, false, fmt.Errorf("normalize rows: %w", err)
	}
	c.warnRejects(data.Rejected)
	return data, cacheHit, nil
}
