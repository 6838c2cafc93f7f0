package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/service"
)

// fullHorizonSpan is a slice window wide enough to cover any schedule.
const fullHorizonSpan = 365

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Planner  service.PlannerService
	Progress service.ProgressService
	Ratings  service.RatingService
	Catalog  service.CatalogService

	// IsInteractive reports whether stdin is a terminal. Interactive
	// commands fall back to flags when it returns false.
	IsInteractive func() bool

	learnerID string
}

// LearnerID resolves the learner every command operates on.
func (a *App) LearnerID() string {
	if a.learnerID != "" {
		return a.learnerID
	}
	if env := os.Getenv("STUDYLOOP_LEARNER"); env != "" {
		return env
	}
	return "default"
}

// NewRootCmd creates the top-level "studyloop" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "studyloop",
		Short: "Curriculum sequencer and study scheduler",
	}

	root.PersistentFlags().StringVar(&app.learnerID, "learner", "", "Learner ID (defaults to $STUDYLOOP_LEARNER, then \"default\")")

	root.AddCommand(
		newPlanCmd(app),
		newScheduleCmd(app),
		newAdjustCmd(app),
		newCompleteCmd(app),
		newCatalogCmd(app),
		newRatingsCmd(app),
		newHistoryCmd(app),
		newBrowseCmd(app),
	)

	return root
}
