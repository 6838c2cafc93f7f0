package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/cli/formatter"
	"github.com/studyloop/studyloop/internal/contract"
)

func newScheduleCmd(app *App) *cobra.Command {
	var startDay, days int

	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"slice"},
		Short:   "Show a window of the current schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Planner.Slice(context.Background(), contract.SliceRequest{
				LearnerID: app.LearnerID(),
				StartDay:  startDay,
				DaySpan:   days,
			})
			if err != nil {
				return err
			}

			if resp.Stale {
				fmt.Println(formatter.StyleYellow.Render("▲ This schedule is stale") +
					formatter.Dim(" — the last regeneration failed, run \"studyloop plan\" after fixing the catalog."))
			}

			title := fmt.Sprintf("%s – %s", formatter.DayLabel(resp.Meta.StartDay), formatter.DayLabel(resp.Meta.StartDay+resp.Meta.DaySpan-1))
			fmt.Print(formatter.RenderBox(title, formatter.RenderScheduleItems(resp.Items)))
			fmt.Println()

			fmt.Printf("%d of %d items shown\n", len(resp.Items), resp.Meta.TotalItems)
			if resp.Meta.HasMore {
				fmt.Println(formatter.Dim(fmt.Sprintf("More ahead: studyloop schedule --start %d", resp.Meta.NextStartDay)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&startDay, "start", 0, "First day of the window (zero-based)")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to show")

	return cmd
}
