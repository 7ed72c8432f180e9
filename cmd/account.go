package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpulse/internal/analytics"
	"github.com/abhisek/learnpulse/internal/auth"
	"github.com/abhisek/learnpulse/internal/learner"
	"github.com/abhisek/learnpulse/internal/ui/components"
	"github.com/abhisek/learnpulse/internal/ui/theme"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a learner account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := newAuthService(st, seed())
		u, err := svc.Register(cmd.Context(), auth.NewUser{Email: email, Password: password, Name: name})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), theme.Good.Render(fmt.Sprintf("Welcome, %s! Your account (#%d) is ready.", u.Name, u.ID)))
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and show your dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		s := seed()
		sess, err := newAuthService(st, s).Authenticate(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		eng, err := newEngine(s)
		if err != nil {
			return err
		}

		nudges, err := eng.Evaluate(sess.State)
		if err != nil {
			return err
		}
		urgent, err := eng.EvaluateUrgent(sess.State)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, components.UserHeader(sess.User.Name, sess.User.ID))
		fmt.Fprintln(out, dashboard(sess.State))
		if len(urgent) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, components.NudgeList(urgent, cfg.Log.Verbose))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, components.NudgeList(nudges, cfg.Log.Verbose))
		printInsights(out, analytics.LearnerInsights(sess.State))
		return nil
	},
}

// dashboard renders the headline metrics of a learner state.
func dashboard(s learner.State) string {
	const width = 48
	return theme.Card.Render(
		components.NewMeter("Engagement", s.Engagement(), 100, width).View() + "\n" +
			components.NewMeter("Completion", s.CompletionRate, 100, width).View() + "\n" +
			components.NewMeter("Dropout risk", s.Risk(), 1, width).View() + "\n" +
			components.NewMeter("Attendance", s.Attendance(), 1, width).View() + "\n" +
			theme.Subtitle.Render(fmt.Sprintf("Streak %d days · last active %s", s.Streak, s.LastActive)),
	)
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().String("email", "", "Account email")
		c.Flags().String("password", "", "Account password")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	signupCmd.Flags().String("name", "", "Display name (defaults to the email's local part)")
}
