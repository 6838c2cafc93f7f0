package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/cli/formatter"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the curriculum catalog",
	}

	cmd.AddCommand(
		newCatalogImportCmd(app),
		newCatalogListCmd(app),
	)

	return cmd
}

func newCatalogImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a catalog file, replacing the current catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Catalog.Import(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s %d categories, %d modules, %d milestones\n",
				formatter.StyleGreen.Render("✔ Imported"),
				result.CategoryCount, result.ModuleCount, result.MilestoneCount)
			fmt.Println(formatter.Dim("Run \"studyloop plan\" to regenerate schedules against the new catalog."))
			return nil
		},
	}
}

func newCatalogListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := app.Catalog.Load(context.Background())
			if err != nil {
				return err
			}
			if len(catalog.Categories) == 0 {
				fmt.Println("The catalog is empty. Import one with \"studyloop catalog import FILE\".")
				return nil
			}

			catRows := make([][]string, 0, len(catalog.Categories))
			for _, c := range catalog.Categories {
				catRows = append(catRows, []string{
					formatter.Bold(c.Key),
					c.Label,
					fmt.Sprintf("%.1f", c.Weight),
					fmt.Sprintf("%d → %d", c.StartingRating, c.TargetRating),
				})
			}
			fmt.Print(formatter.RenderBox("Categories",
				formatter.RenderTable([]string{"Key", "Label", "Weight", "Ratings"}, catRows)))
			fmt.Println()

			modRows := make([][]string, 0, len(catalog.Modules))
			for _, m := range catalog.Modules {
				flags := ""
				if m.Refresher {
					flags = formatter.StylePurple.Render("refresher")
				}
				modRows = append(modRows, []string{
					formatter.Bold(m.ID),
					m.Title,
					string(m.Kind),
					formatter.StyleFg.Render(m.CategoryKey),
					formatter.FormatMinutes(m.EstimatedMin),
					formatter.Dim(strings.Join(m.Prereqs, ", ")),
					flags,
				})
			}
			fmt.Print(formatter.RenderBox("Modules",
				formatter.RenderTable([]string{"ID", "Title", "Kind", "Category", "Time", "Prereqs", ""}, modRows)))
			fmt.Println()

			if len(catalog.Milestones) == 0 {
				return nil
			}
			msRows := make([][]string, 0, len(catalog.Milestones))
			for _, ms := range catalog.Milestones {
				reqs := make([]string, 0, len(ms.Requirements))
				for _, r := range ms.Requirements {
					reqs = append(reqs, fmt.Sprintf("%s ≥ %d", r.CategoryKey, r.MinRating))
				}
				msRows = append(msRows, []string{
					formatter.Bold(ms.ID),
					ms.Title,
					formatter.StyleFg.Render(ms.CategoryKey),
					formatter.Dim(strings.Join(ms.RequiredIDs, ", ")),
					formatter.StyleYellow.Render(strings.Join(reqs, ", ")),
				})
			}
			fmt.Print(formatter.RenderBox("Milestones",
				formatter.RenderTable([]string{"ID", "Title", "Category", "After", "Requires"}, msRows)))
			return nil
		},
	}
}
