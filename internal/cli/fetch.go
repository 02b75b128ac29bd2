package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trialscope/internal/domain"
	"trialscope/internal/ui/views"
)

func newFetchCommand(opts *options) *cobra.Command {
	var (
		limit   int
		filters []string
	)

	cmd := &cobra.Command{
		Use:   "fetch [TERM]",
		Short: "Run one search and print the trials table",
		Long: `fetch performs a single GET /trials request and prints the results with
the same seven columns as the Trials tab. Without TERM no search parameter
is sent and the backend decides what to return.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(opts, os.Getenv)
			if err != nil {
				return err
			}
			defer a.Close()

			q := domain.SearchQuery{Limit: limit, Filters: filters}
			if len(args) == 1 {
				q.Term = args[0]
			}

			found, err := a.client.ListTrials(cmd.Context(), q)
			if err != nil {
				a.logger.Error("search failed", zap.String("query", q.Term), zap.Error(err))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderTrials(found))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of trials; 0 lets the backend decide")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "key:value filter, repeatable (e.g. status:Recruiting)")
	return cmd
}

// RenderTrials formats trials as a bordered table followed by a count line
func RenderTrials(trials []domain.Trial) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(views.TrialColumns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, tr := range trials {
		t.Row(views.TrialRow(tr)...)
	}

	count := fmt.Sprintf("%d trials", len(trials))
	if len(trials) == 1 {
		count = "1 trial"
	}
	return t.String() + "\n" + count
}
