package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/cli/formatter"
	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the full schedule interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("browse needs an interactive terminal, use \"studyloop schedule\" instead")
			}
			_, err := tea.NewProgram(newBrowseModel(app), tea.WithAltScreen()).Run()
			return err
		},
	}
}

// browseLoadedMsg signals that schedule data has been loaded.
type browseLoadedMsg struct {
	items []domain.ScheduledItem
	stale bool
	err   error
}

// browseModel is a read-only schedule browser over a bubbles table.
// The category filter cycles with "c"; "h" hides completed items.
type browseModel struct {
	app           *App
	table         table.Model
	items         []domain.ScheduledItem
	categories    []string
	categoryIdx   int // 0 means no filter
	hideCompleted bool
	stale         bool
	loading       bool
	err           error
}

func newBrowseModel(app *App) *browseModel {
	t := table.New(
		table.WithColumns(browseColumns()),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(formatter.ColorHeader).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(formatter.ColorDim).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(formatter.ColorFg).
		Background(lipgloss.Color("#3c3836")).
		Bold(false)
	t.SetStyles(styles)

	return &browseModel{app: app, table: t, loading: true}
}

func browseColumns() []table.Column {
	return []table.Column{
		{Title: "Day", Width: 7},
		{Title: "Unit", Width: 18},
		{Title: "Title", Width: 34},
		{Title: "Kind", Width: 10},
		{Title: "Category", Width: 12},
		{Title: "Time", Width: 7},
		{Title: "Status", Width: 12},
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadSchedule()
}

func (m *browseModel) loadSchedule() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		resp, err := app.Planner.Slice(context.Background(), contract.SliceRequest{
			LearnerID: app.LearnerID(),
			DaySpan:   fullHorizonSpan,
		})
		if err != nil {
			return browseLoadedMsg{err: err}
		}
		return browseLoadedMsg{items: resp.Items, stale: resp.Stale}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case browseLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.items = msg.items
		m.stale = msg.stale
		m.categories = collectCategories(msg.items)
		m.refreshRows()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 6)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(m.categories) + 1)
			m.refreshRows()
			return m, nil
		case "C":
			m.categoryIdx = 0
			m.refreshRows()
			return m, nil
		case "h":
			m.hideCompleted = !m.hideCompleted
			m.refreshRows()
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadSchedule()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *browseModel) activeCategory() string {
	if m.categoryIdx == 0 || m.categoryIdx > len(m.categories) {
		return ""
	}
	return m.categories[m.categoryIdx-1]
}

func (m *browseModel) refreshRows() {
	category := m.activeCategory()
	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		if category != "" && it.CategoryKey != category {
			continue
		}
		if m.hideCompleted && it.Status == domain.ItemCompleted {
			continue
		}
		rows = append(rows, table.Row{
			formatter.DayLabel(it.DayOffset),
			it.UnitID,
			plainItemTitle(it),
			string(it.Kind),
			it.CategoryKey,
			formatter.FormatMinutes(it.Minutes),
			strings.ReplaceAll(string(it.Status), "_", " "),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func plainItemTitle(it domain.ScheduledItem) string {
	title := it.Title
	if it.UserAdjusted {
		title += " (pinned)"
	}
	if it.LockedReason != nil {
		title += " 🔒"
	}
	return title
}

func collectCategories(items []domain.ScheduledItem) []string {
	seen := map[string]bool{}
	var keys []string
	for _, it := range items {
		if !seen[it.CategoryKey] {
			seen[it.CategoryKey] = true
			keys = append(keys, it.CategoryKey)
		}
	}
	sort.Strings(keys)
	return keys
}

func (m *browseModel) View() string {
	if m.loading {
		return "\n  " + formatter.Dim("Loading schedule...")
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n\n  " + formatter.Dim("q to quit")
	}

	header := formatter.Header("Schedule")
	if m.stale {
		header += "\n" + formatter.StyleYellow.Render("▲ stale, last regeneration failed")
	}

	filter := "all categories"
	if c := m.activeCategory(); c != "" {
		filter = "category: " + c
	}
	if m.hideCompleted {
		filter += ", completed hidden"
	}

	help := formatter.Dim("c filter category  h hide completed  r reload  q quit")
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", header, formatter.Dim(filter), m.table.View(), help)
}
