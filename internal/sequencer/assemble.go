package sequencer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studyloop/studyloop/internal/domain"
)

// placement is a unit moving through the pipeline: ordered by the mixer,
// then annotated with days, pins, and milestone state before final
// assembly.
type placement struct {
	unit         domain.Unit
	day          int
	pinned       bool
	userAdjusted bool
	milestone    *domain.Milestone
	lockedReason *string
}

// dayCursor walks the study-day calendar (sessionsPerWeek days out of
// every seven) filling each day up to the daily minute budget before
// advancing.
type dayCursor struct {
	cfg     Config
	week    int
	session int
	usedMin int
}

func newDayCursor(cfg Config) *dayCursor {
	return &dayCursor{cfg: cfg}
}

func (c *dayCursor) current() int {
	return c.week*7 + c.session
}

// place books minutes on the cursor, advancing to the next study day
// when the current one is full, and returns the assigned day offset.
func (c *dayCursor) place(minutes int) int {
	if c.usedMin > 0 && c.usedMin+minutes > c.cfg.DailyBudgetMin {
		c.advance()
	}
	c.usedMin += minutes
	return c.current()
}

func (c *dayCursor) advance() {
	c.usedMin = 0
	c.session++
	if c.session >= c.cfg.SessionsPerWeek || c.session >= 7 {
		c.session = 0
		c.week++
	}
}

// nextStudyDayAfter returns the first study day strictly after the given
// day offset.
func nextStudyDayAfter(day int, cfg Config) int {
	if day < 0 {
		return 0
	}
	sessions := cfg.SessionsPerWeek
	if sessions < 1 {
		sessions = 1
	} else if sessions > 7 {
		sessions = 7
	}
	w, d := day/7, day%7
	if d+1 < sessions {
		return w*7 + d + 1
	}
	return (w + 1) * 7
}

// assignDays stamps natural day offsets on every unpinned placement in
// list order: regular units fill study days against the daily budget,
// milestones land on the first study day after their latest
// prerequisite.
func assignDays(ordered []placement, cfg Config) []placement {
	dayOf := make(map[string]int, len(ordered))
	cursor := newDayCursor(cfg)

	for i := range ordered {
		p := &ordered[i]
		if p.pinned {
			dayOf[p.unit.ID] = p.day
			continue
		}
		if p.unit.Kind == domain.ItemMilestone {
			last := -1
			for _, pr := range p.unit.Prereqs {
				if d, ok := dayOf[pr]; ok && d > last {
					last = d
				}
			}
			p.day = nextStudyDayAfter(last, cfg)
			dayOf[p.unit.ID] = p.day
			continue
		}
		p.day = cursor.place(p.unit.Minutes)
		dayOf[p.unit.ID] = p.day
	}
	return ordered
}

// buildSchedule converts final placements into the committed schedule:
// items sorted by day (stable on pipeline order), pacing allocations,
// and one appended rationale entry.
func buildSchedule(ordered []placement, in *Inputs, priorities []CategoryPriority, rotation domain.RotationState, warnings []domain.Warning) *domain.Schedule {
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].day < ordered[j].day
	})

	items := make([]domain.ScheduledItem, 0, len(ordered))
	for _, p := range ordered {
		item := domain.ScheduledItem{
			UnitID:       p.unit.ID,
			ModuleID:     p.unit.ModuleID,
			PartIndex:    p.unit.PartIndex,
			Kind:         p.unit.Kind,
			CategoryKey:  p.unit.CategoryKey,
			Title:        p.unit.Title,
			Minutes:      p.unit.Minutes,
			DayOffset:    p.day,
			Effort:       domain.EffortForMinutes(p.unit.Minutes),
			UserAdjusted: p.userAdjusted,
			Status:       domain.ItemPending,
			LockedReason: p.lockedReason,
		}
		if s, ok := in.ItemStatuses[p.unit.ID]; ok {
			item.Status = s
		}
		if p.milestone != nil {
			item.BriefRef = p.milestone.BriefRef
			item.Requirements = append([]domain.RatingRequirement(nil), p.milestone.Requirements...)
		}
		items = append(items, item)
	}

	return &domain.Schedule{
		LearnerID:   in.LearnerID,
		GeneratedAt: in.Now,
		HorizonDays: in.Config.HorizonDays,
		Items:       items,
		Pacing:      buildPacing(items, priorities),
		Warnings:    warnings,
		Rotation:    rotation,
	}
}

func buildPacing(items []domain.ScheduledItem, priorities []CategoryPriority) []domain.PacingAllocation {
	minutes := make(map[string]int)
	for _, it := range items {
		minutes[it.CategoryKey] += it.Minutes
	}

	out := make([]domain.PacingAllocation, 0, len(priorities))
	for _, p := range priorities {
		out = append(out, domain.PacingAllocation{
			CategoryKey:     p.Key,
			PlannedMin:      minutes[p.Key],
			TargetShare:     p.Share,
			Pressure:        p.Pressure,
			DeferralCount:   p.DeferralCount,
			MaxDeferralDays: p.MaxDeferralDays,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryKey < out[j].CategoryKey })
	return out
}

// summarizeRun produces the rationale text appended for this generation.
func summarizeRun(priorities []CategoryPriority, warnings []domain.Warning, adjustments int) string {
	var b strings.Builder

	if len(priorities) > 0 {
		top := priorities[0]
		fmt.Fprintf(&b, "prioritized %s", top.Key)
		if len(top.Reasons) > 0 {
			fmt.Fprintf(&b, " (%s)", top.Reasons[0].Message)
		}
	} else {
		b.WriteString("no categories to prioritize")
	}
	if adjustments > 0 {
		fmt.Fprintf(&b, "; preserved %d adjustment(s)", adjustments)
	}
	if len(warnings) > 0 {
		fmt.Fprintf(&b, "; %d warning(s)", len(warnings))
	}
	return b.String()
}
