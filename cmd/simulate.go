package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpulse/internal/analytics"
	"github.com/abhisek/learnpulse/internal/learner"
	"github.com/abhisek/learnpulse/internal/ui/components"
	"github.com/abhisek/learnpulse/internal/ui/theme"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a learner and show the nudges it would get",
	Long: `Builds a synthetic learner from a behaviour profile and runs the nudge
and urgent rules against it. No database is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, _ := cmd.Flags().GetString("profile")
		days, _ := cmd.Flags().GetInt("days")
		ticks, _ := cmd.Flags().GetInt("ticks")

		pt := learner.ProfileType(profile)
		if profile != "" && !slices.Contains(learner.AllProfileTypes(), pt) {
			return fmt.Errorf("unknown profile %q", profile)
		}

		s := seed()
		sim := newSimulator(s)
		const id = 1
		if profile != "" {
			sim.Enroll(id, pt)
		}
		for range ticks {
			sim.Tick()
		}
		state := sim.State(id, "Simulated Learner")

		eng, err := newEngine(s)
		if err != nil {
			return err
		}
		nudges, err := eng.Evaluate(state)
		if err != nil {
			return err
		}
		urgent, err := eng.EvaluateUrgent(state)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("%s (%s)", state.Name, state.ProfileType.DisplayName())))
		fmt.Fprintln(out, dashboard(state))
		if len(urgent) > 0 {
			fmt.Fprintln(out, components.NudgeList(urgent, cfg.Log.Verbose))
		}
		fmt.Fprintln(out, components.NudgeList(nudges, cfg.Log.Verbose))
		printInsights(out, analytics.LearnerInsights(state))

		if days > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("Last %d days", days)))
			for _, p := range sim.History(state, days) {
				fmt.Fprintf(out, "  %s  engagement %5.1f  time %.1fh  interactions %2d  completed %d\n",
					p.Date.Format("2006-01-02"), p.EngagementScore, p.TimeSpent, p.Interactions, p.CompletedActivities)
			}
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().String("profile", "", "Behaviour profile: high_engagement, moderate_engagement or at_risk (random when empty)")
	simulateCmd.Flags().Int("days", 0, "Also print this many days of simulated history")
	simulateCmd.Flags().Int("ticks", 0, "Advance the simulation this many steps first")
}
