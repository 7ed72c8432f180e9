package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpulse/internal/auth"
	"github.com/abhisek/learnpulse/internal/learner"
	"github.com/abhisek/learnpulse/internal/nudge"
	"github.com/abhisek/learnpulse/internal/store"
	"github.com/abhisek/learnpulse/internal/ui/components"
	"github.com/abhisek/learnpulse/internal/ui/theme"
)

var nudgesCmd = &cobra.Command{
	Use:   "nudges",
	Short: "Show a learner's ranked nudges",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}
		return withLearner(cmd, func(eng *nudge.Engine, _ *store.Store, u auth.User, s learner.State) error {
			nudges, err := eng.Evaluate(s)
			if err != nil {
				return err
			}
			if limit > 0 && len(nudges) > limit {
				nudges = nudges[:limit]
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, components.UserHeader(u.Name, u.ID))
			fmt.Fprintln(out, components.NudgeList(nudges, cfg.Log.Verbose))
			return nil
		})
	},
}

var urgentCmd = &cobra.Command{
	Use:   "urgent",
	Short: "Show a learner's urgent alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLearner(cmd, func(eng *nudge.Engine, _ *store.Store, u auth.User, s learner.State) error {
			nudges, err := eng.EvaluateUrgent(s)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, components.UserHeader(u.Name, u.ID))
			if len(nudges) == 0 {
				fmt.Fprintln(out, theme.Good.Render("No urgent issues."))
				return nil
			}
			fmt.Fprintln(out, components.NudgeList(nudges, cfg.Log.Verbose))
			return nil
		})
	},
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the top nudges of every learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		s := seed()
		states, err := newAuthService(st, s).States(cmd.Context())
		if err != nil {
			return err
		}
		eng, err := newEngine(s)
		if err != nil {
			return err
		}
		nudges, err := eng.ActiveNudges(states)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("Active nudges for %d learners", len(states))))
		for _, n := range nudges {
			fmt.Fprintf(out, "%-16s %s\n", n.User, components.NudgeLine(n))
		}
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Dispatch a learner's top nudges",
	Long: `Sends the learner's urgent alerts and top-ranked nudges through a
simulated channel and records each delivery. With --response the learner's
reaction is simulated and recorded too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		response, _ := cmd.Flags().GetString("response")
		if response != "" && !nudge.Response(response).Valid() {
			return fmt.Errorf("unknown response %q (want engaged, dismissed or no_response)", response)
		}

		return withLearner(cmd, func(eng *nudge.Engine, st *store.Store, u auth.User, s learner.State) error {
			urgent, err := eng.EvaluateUrgent(s)
			if err != nil {
				return err
			}
			ranked, err := eng.Evaluate(s)
			if err != nil {
				return err
			}
			if limit > 0 && len(ranked) > limit {
				ranked = ranked[:limit]
			}

			ctx := cmd.Context()
			d := nudge.NewDispatcher(st.NudgeEventRepo(), appLog, seed())
			out := cmd.OutOrStdout()
			for _, n := range append(urgent, ranked...) {
				del, err := d.Send(ctx, n)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %s\n", theme.Good.Render("sent via "+string(del.Channel)), components.NudgeLine(n))
				if response == "" {
					continue
				}
				eff, err := d.Track(ctx, del, nudge.Response(response))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("        %s after %s, engagement %+.1f",
					eff.Response, eff.ResponseTime.Round(time.Minute), eff.EngagementChange)))
			}
			return printRecentDeliveries(ctx, cmd, st, u.ID)
		})
	},
}

func printRecentDeliveries(ctx context.Context, cmd *cobra.Command, st *store.Store, userID int) error {
	recent, err := st.NudgeEventRepo().RecentDeliveries(ctx, userID, 5)
	if err != nil {
		return fmt.Errorf("recent deliveries: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("Last %d deliveries", len(recent))))
	for _, r := range recent {
		fmt.Fprintf(out, "  %s  %-18s %-12s %s\n",
			r.SentAt.Local().Format("2006-01-02 15:04"), r.Channel, r.Type,
			theme.ForPriority(r.Priority).Render(r.Priority))
	}
	return nil
}

// withLearner opens the store, resolves --email to a learner state and
// runs fn with a configured engine.
func withLearner(cmd *cobra.Command, fn func(*nudge.Engine, *store.Store, auth.User, learner.State) error) error {
	email, _ := cmd.Flags().GetString("email")

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	s := seed()
	svc := newAuthService(st, s)
	u, err := svc.GetByEmail(cmd.Context(), email)
	if err != nil {
		return fmt.Errorf("%s: %w", email, err)
	}
	state, err := svc.State(cmd.Context(), u)
	if err != nil {
		return err
	}
	eng, err := newEngine(s)
	if err != nil {
		return err
	}
	return fn(eng, st, u, state)
}

func init() {
	for _, c := range []*cobra.Command{nudgesCmd, urgentCmd, sendCmd} {
		c.Flags().String("email", "", "Learner email")
		_ = c.MarkFlagRequired("email")
	}
	nudgesCmd.Flags().Int("limit", 0, "Show at most this many nudges (0 shows all)")
	sendCmd.Flags().Int("limit", nudge.DefaultActiveLimit, "Ranked nudges to send in addition to urgent alerts")
	sendCmd.Flags().String("response", "", "Simulate a learner response: engaged, dismissed or no_response")
}
