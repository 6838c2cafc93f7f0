package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/cli/formatter"
	"github.com/studyloop/studyloop/internal/contract"
)

func newPlanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Regenerate the study schedule from current ratings and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Planner.Plan(context.Background(), contract.PlanRequest{
				LearnerID: app.LearnerID(),
			})
			if err != nil {
				return err
			}

			fmt.Println(formatter.PlanStatusLine(resp.Status))
			if len(resp.Warnings) > 0 {
				fmt.Println(formatter.RenderWarnings(resp.Warnings))
			}

			sched := resp.Schedule
			fmt.Printf("%s items over %s days, generated %s\n",
				formatter.Bold(fmt.Sprintf("%d", len(sched.Items))),
				formatter.Bold(fmt.Sprintf("%d", sched.HorizonDays)),
				formatter.HumanTimestamp(sched.GeneratedAt))
			if pacing := formatter.RenderPacing(sched.Pacing); pacing != "" {
				fmt.Print(formatter.RenderBox("Pacing", pacing))
				fmt.Println()
			}
			fmt.Println(formatter.Dim("Run \"studyloop schedule\" to see the upcoming items."))
			return nil
		},
	}
}
