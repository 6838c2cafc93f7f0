package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studyloop/studyloop/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PressurePill returns a colored deferral pressure indicator such as "● HIGH".
func PressurePill(p domain.DeferralPressure) string {
	switch p {
	case domain.PressureHigh:
		return StyleRed.Render("● HIGH")
	case domain.PressureMedium:
		return StyleYellow.Render("● MEDIUM")
	case domain.PressureLow:
		return StyleGreen.Render("● LOW")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// ItemStatusPill returns a colored status indicator for a scheduled item.
func ItemStatusPill(status domain.ItemStatus) string {
	switch status {
	case domain.ItemPending:
		return StyleBlue.Render("○ Pending")
	case domain.ItemInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.ItemCompleted:
		return StyleDim.Render("✔ Done")
	default:
		return StyleDim.Render(string(status))
	}
}

// EffortBadge returns a colored effort level label.
func EffortBadge(e domain.EffortLevel) string {
	switch e {
	case domain.EffortFocus:
		return StylePurple.Render("focus")
	case domain.EffortModerate:
		return StyleBlue.Render("moderate")
	case domain.EffortLight:
		return StyleGreen.Render("light")
	default:
		return StyleDim.Render(string(e))
	}
}

// KindBadge returns a colored item kind label.
func KindBadge(k domain.ItemKind) string {
	switch k {
	case domain.ItemMilestone:
		return StyleYellow.Render("◆ milestone")
	case domain.ItemQuiz:
		return StylePurple.Render("quiz")
	default:
		return StyleFg.Render("lesson")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
