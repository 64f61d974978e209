package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/grantline/grantline/pkg/pipeline"
	"github.com/grantline/grantline/pkg/proposal"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	top     int  // roster rows to show, 0 for all
	rejects bool // list every rejected row
	noCache bool // disable result caching
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{top: 10}

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize a dataset's roster and collaborations",
		Long: `Summarize a dataset's roster and collaborations.

The input is either a dataset file produced by 'grantline load' or a
raw CSV/JSON export, which is normalized first. The report covers the
year span, how many proposals carry a precise submission date, and the
roster ranked by collaboration strength.

Examples:
  grantline inspect dataset.json
  grantline inspect proposals.csv --top 0 --rejects`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runInspect(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().IntVar(&opts.top, "top", opts.top, "number of roster rows to show (0 for all)")
	cmd.Flags().BoolVar(&opts.rejects, "rejects", false, "list every rejected row")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runInspect loads the data and prints the roster report.
func (c *CLI) runInspect(ctx context.Context, input string, opts inspectOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	data, _, err := c.loadData(ctx, runner, cfg, input, cfg.Options())
	if err != nil {
		return err
	}

	dated := 0
	for _, p := range data.Proposals {
		if p.HasDate() {
			dated++
		}
	}
	minYear, maxYear, _ := proposal.YearExtent(data.Proposals)

	fmt.Println(StyleTitle.Render("Dataset"))
	printKeyValue("Proposals", fmt.Sprintf("%d", len(data.Proposals)))
	printKeyValue("PIs", fmt.Sprintf("%d", data.Index.Len()))
	printKeyValue("Years", fmt.Sprintf("%d-%d", minYear, maxYear))
	printKeyValue("Dated", fmt.Sprintf("%d of %d proposals", dated, len(data.Proposals)))
	printKeyValue("Pairs", fmt.Sprintf("%d", data.Index.PairCount()))
	printNewline()

	c.printRoster(data, opts.top)

	if len(data.Rejected) > 0 {
		printNewline()
		printWarning("%d rows rejected during normalization", len(data.Rejected))
		if opts.rejects {
			for _, r := range data.Rejected {
				detail := string(r.Reason)
				if r.Detail != "" {
					detail += ": " + r.Detail
				}
				printDetail("row %d (%s) %s", r.Ordinal, r.ProposalID, detail)
			}
		} else {
			printDetail("re-run with --rejects to list them")
		}
	}

	return nil
}

// printRoster renders the roster ranked by collaboration strength,
// strongest first.
func (c *CLI) printRoster(data *pipeline.Data, top int) {
	entries := rosterEntries(data.Index)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Name < entries[j].Name
	})

	shown := len(entries)
	if top > 0 && top < shown {
		shown = top
	}

	rows := make([][]string, 0, shown)
	for _, e := range entries[:shown] {
		topPartner := e.TopPartner
		if topPartner == "" {
			topPartner = "—"
		}
		rows = append(rows, []string{
			e.Name,
			fmt.Sprintf("%d", e.Proposals),
			fmt.Sprintf("%d", e.Weight),
			topPartner,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	numberStyle := lipgloss.NewStyle().Foreground(colorCyan)
	nameStyle := lipgloss.NewStyle().Foreground(colorWhite)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("PI", "Proposals", "Collabs", "Top Partner").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 || col == 2 {
				return numberStyle
			}
			return nameStyle
		})

	fmt.Println(t.Render())
	if shown < len(entries) {
		printDetail("and %d more (use --top 0 to show all)", len(entries)-shown)
	}
}
