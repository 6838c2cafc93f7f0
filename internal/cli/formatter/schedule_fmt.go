package formatter

import (
	"fmt"
	"strings"

	"github.com/studyloop/studyloop/internal/domain"
)

// PlanStatusLine summarizes the outcome of a planning run.
func PlanStatusLine(status domain.PlanStatus) string {
	switch status {
	case domain.PlanCreated:
		return StyleGreen.Render("● Schedule created")
	case domain.PlanRegenerated:
		return StyleBlue.Render("● Schedule regenerated")
	case domain.PlanUnchanged:
		return StyleDim.Render("○ Schedule unchanged")
	case domain.PlanFailedStale:
		return StyleRed.Render("▲ Regeneration failed") + Dim(" — serving the previous schedule")
	default:
		return StyleDim.Render(string(status))
	}
}

// RenderScheduleItems renders scheduled items as a day-grouped table.
func RenderScheduleItems(items []domain.ScheduledItem) string {
	if len(items) == 0 {
		return Dim("Nothing scheduled in this window.")
	}

	rows := make([][]string, 0, len(items))
	lastDay := -1
	for _, it := range items {
		day := ""
		if it.DayOffset != lastDay {
			day = Bold(DayLabel(it.DayOffset))
			lastDay = it.DayOffset
		}
		rows = append(rows, []string{
			day,
			it.UnitID,
			itemTitle(it),
			KindBadge(it.Kind),
			StyleFg.Render(it.CategoryKey),
			FormatMinutes(it.Minutes),
			EffortBadge(it.Effort),
			ItemStatusPill(it.Status),
		})
	}
	return RenderTable(
		[]string{"Day", "Unit", "Title", "Kind", "Category", "Time", "Effort", "Status"},
		rows,
	)
}

func itemTitle(it domain.ScheduledItem) string {
	title := it.Title
	if it.UserAdjusted {
		title += " " + StylePurple.Render("(pinned)")
	}
	if it.LockedReason != nil {
		title += " " + StyleYellow.Render("🔒 "+*it.LockedReason)
	}
	return title
}

// RenderPacing renders per-category pacing allocations.
func RenderPacing(pacing []domain.PacingAllocation) string {
	if len(pacing) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(pacing))
	for _, p := range pacing {
		rows = append(rows, []string{
			StyleFg.Render(p.CategoryKey),
			FormatMinutes(p.PlannedMin),
			FormatShare(p.TargetShare),
			PressurePill(p.Pressure),
			fmt.Sprintf("%d", p.DeferralCount),
		})
	}
	return RenderTable(
		[]string{"Category", "Planned", "Target", "Pressure", "Deferrals"},
		rows,
	)
}

// RenderWarnings renders planner warnings one per line.
func RenderWarnings(warnings []domain.Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(StyleYellow.Render("▲ "))
		b.WriteString(StyleFg.Render(w.Message))
		b.WriteString(" ")
		b.WriteString(Dim("[" + w.Code + "]"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
