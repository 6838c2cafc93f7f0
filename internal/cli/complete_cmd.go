package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/cli/formatter"
	"github.com/studyloop/studyloop/internal/domain"
)

func newCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete UNIT_ID",
		Short: "Mark a scheduled item as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := app.Progress.CompleteItem(context.Background(), app.LearnerID(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s %s (%s)\n",
				formatter.StyleGreen.Render("✔ Completed"),
				formatter.Bold(item.Title),
				item.UnitID)
			if item.Kind == domain.ItemMilestone {
				fmt.Println(formatter.StyleYellow.Render("◆ Milestone reached") +
					formatter.Dim(" — it will not be rescheduled."))
			}
			fmt.Println(formatter.Dim("Run \"studyloop plan\" to rebalance the remaining schedule."))
			return nil
		},
	}
}
