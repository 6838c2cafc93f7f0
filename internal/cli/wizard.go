package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/studyloop/studyloop/internal/cli/formatter"
	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
)

// studyloopHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func studyloopHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// runAdjustWizard fills in the unit, day move, and reason interactively.
func runAdjustWizard(ctx context.Context, app *App, unitID *string, move *dayMove, reason *string) error {
	if *unitID == "" {
		resp, err := app.Planner.Slice(ctx, contract.SliceRequest{
			LearnerID: app.LearnerID(),
			DaySpan:   fullHorizonSpan,
		})
		if err != nil {
			return err
		}

		options := make([]huh.Option[string], 0, len(resp.Items))
		for _, it := range resp.Items {
			if it.Status == domain.ItemCompleted {
				continue
			}
			label := fmt.Sprintf("%s — %s (%s)", formatter.DayLabel(it.DayOffset), it.Title, it.UnitID)
			options = append(options, huh.NewOption(label, it.UnitID))
		}
		if len(options) == 0 {
			return fmt.Errorf("nothing left to move on this schedule")
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Which Item?").
					Options(options...).
					Value(unitID),
			),
		).WithTheme(studyloopHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return err
		}
	}

	if !move.set {
		var raw string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Move To").
					Description("A day number, or +N/-N relative to the current day").
					Placeholder("+3").
					Validate(func(s string) error {
						var probe dayMove
						return probe.Set(s)
					}).
					Value(&raw),
				huh.NewInput().
					Title("Reason").
					Description("Optional note kept with the adjustment").
					Value(reason),
			),
		).WithTheme(studyloopHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return err
		}
		if err := move.Set(raw); err != nil {
			return err
		}
	}

	return nil
}
