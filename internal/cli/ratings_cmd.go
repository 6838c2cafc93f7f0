package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/cli/formatter"
)

func newRatingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Manage per-category skill ratings",
	}

	cmd.AddCommand(
		newRatingsListCmd(app),
		newRatingsSetCmd(app),
		newRatingsAssessCmd(app),
	)

	return cmd
}

func newRatingsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show current ratings for every category",
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := app.Ratings.ListRatings(context.Background(), app.LearnerID())
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Println("The catalog is empty. Import one with \"studyloop catalog import FILE\".")
				return nil
			}

			rows := make([][]string, 0, len(views))
			for _, v := range views {
				band := formatter.Dim("--")
				if v.Band != "" {
					band = formatter.StylePurple.Render(v.Band)
				}
				rows = append(rows, []string{
					formatter.Bold(v.Category.Key),
					v.Category.Label,
					strconv.Itoa(v.Rating),
					fmt.Sprintf("%d", v.Category.TargetRating),
					band,
				})
			}
			fmt.Print(formatter.RenderBox("Ratings",
				formatter.RenderTable([]string{"Key", "Category", "Rating", "Target", "Band"}, rows)))
			return nil
		},
	}
}

func newRatingsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set CATEGORY RATING",
		Short: "Set a category rating directly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating %q: expected a number", args[1])
			}
			if err := app.Ratings.SetRating(context.Background(), app.LearnerID(), args[0], rating); err != nil {
				return err
			}
			fmt.Printf("%s %s set to %s\n",
				formatter.StyleGreen.Render("✔"),
				formatter.Bold(args[0]),
				formatter.Bold(strconv.Itoa(rating)))
			return nil
		},
	}
}

func newRatingsAssessCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assess CATEGORY SCORE",
		Short: "Record an assessment score and apply its rating delta",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid score %q: expected a number between 0 and 100", args[1])
			}
			outcome, err := app.Ratings.RecordAssessment(context.Background(), app.LearnerID(), args[0], score)
			if err != nil {
				return err
			}

			delta := fmt.Sprintf("%+d", outcome.RatingDelta)
			styled := formatter.StyleGreen.Render(delta)
			if outcome.RatingDelta < 0 {
				styled = formatter.StyleRed.Render(delta)
			} else if outcome.RatingDelta == 0 {
				styled = formatter.Dim(delta)
			}
			fmt.Printf("%s scored %.1f on %s, rating %s\n",
				formatter.StyleGreen.Render("✔"),
				outcome.AvgScore,
				formatter.Bold(args[0]),
				styled)
			fmt.Println(formatter.Dim("Run \"studyloop plan\" to fold the new rating into the schedule."))
			return nil
		},
	}
}
