package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/cli/formatter"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the rationale log of past regenerations",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Planner.History(context.Background(), app.LearnerID(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No regenerations yet. Run \"studyloop plan\" first.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					formatter.TruncID(e.ID),
					formatter.HumanTimestamp(e.CreatedAt),
					e.Summary,
				})
			}
			fmt.Print(formatter.RenderBox("Rationale",
				formatter.RenderTable([]string{"ID", "When", "Summary"}, rows)))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of entries to show")

	return cmd
}
