package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/studyloop/studyloop/internal/cli/formatter"
	"github.com/studyloop/studyloop/internal/contract"
)

// dayMove is a pflag.Value accepting "+N" or "-N" as a relative shift and
// a bare number as an absolute day.
type dayMove struct {
	set      bool
	relative bool
	value    int
}

func (m *dayMove) String() string {
	if !m.set {
		return ""
	}
	if m.relative && m.value >= 0 {
		return fmt.Sprintf("+%d", m.value)
	}
	return strconv.Itoa(m.value)
}

func (m *dayMove) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("expected a day number or a +N/-N shift")
	}
	num := strings.TrimPrefix(s, "+")
	if s[0] == '+' && (num == "" || num[0] == '+' || num[0] == '-') {
		return fmt.Errorf("invalid day %q: expected a number or a +N/-N shift", s)
	}
	v, err := strconv.Atoi(num)
	if err != nil {
		return fmt.Errorf("invalid day %q: expected a number or a +N/-N shift", s)
	}
	m.relative = s[0] == '+' || s[0] == '-'
	m.set = true
	m.value = v
	return nil
}

func (m *dayMove) Type() string { return "day" }

var _ pflag.Value = (*dayMove)(nil)

func newAdjustCmd(app *App) *cobra.Command {
	var move dayMove
	var reason string

	cmd := &cobra.Command{
		Use:   "adjust [UNIT_ID]",
		Short: "Move a scheduled item to another day",
		Long: `Move a scheduled item to another day.

The item is pinned to its new day and survives future regenerations until
it is completed. Pass --to with an absolute day, or a +N/-N shift relative
to where the item currently sits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			unitID := ""
			if len(args) > 0 {
				unitID = args[0]
			}
			if unitID == "" || !move.set {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return fmt.Errorf("unit id and --to are required in non-interactive mode")
				}
				if err := runAdjustWizard(ctx, app, &unitID, &move, &reason); err != nil {
					return err
				}
			}

			req := contract.AdjustRequest{
				LearnerID: app.LearnerID(),
				UnitID:    unitID,
				Reason:    reason,
			}
			if move.relative {
				req.DeltaDays = &move.value
			} else {
				req.TargetDay = &move.value
			}

			resp, err := app.Planner.ApplyAdjustment(ctx, req)
			if err != nil {
				return err
			}

			fmt.Println(formatter.PlanStatusLine(resp.Status))
			if item := resp.Schedule.ItemByUnitID(unitID); item != nil {
				fmt.Printf("%s now sits on %s\n", formatter.Bold(item.Title), formatter.Bold(formatter.DayLabel(item.DayOffset)))
			}
			if len(resp.Warnings) > 0 {
				fmt.Println(formatter.RenderWarnings(resp.Warnings))
			}
			return nil
		},
	}

	cmd.Flags().Var(&move, "to", "Target day, or a +N/-N shift from the current day")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the item is being moved")

	return cmd
}
