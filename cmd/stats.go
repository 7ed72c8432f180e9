package cmd

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpulse/internal/analytics"
	"github.com/abhisek/learnpulse/internal/nudge"
	"github.com/abhisek/learnpulse/internal/ui/components"
	"github.com/abhisek/learnpulse/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cohort engagement analytics and insights",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		s := seed()
		states, err := newAuthService(st, s).States(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		m, err := analytics.New(rand.New(rand.NewPCG(s, s>>1))).Calculate(states)
		if errors.Is(err, analytics.ErrNoUsers) {
			fmt.Fprintln(out, theme.Hint.Render("No learners registered yet. Run `learnpulse signup` first."))
			return nil
		}
		if err != nil {
			return err
		}

		const width = 48
		fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("Cohort of %d learners", m.Users)))
		fmt.Fprintln(out, theme.Card.Render(
			components.NewMeter("Engagement", m.Engagement.Mean, 100, width).View()+"\n"+
				theme.Subtitle.Render(fmt.Sprintf("median %.1f · sd %.1f · range %.1f-%.1f · trend %+.1f/wk",
					m.Engagement.Median, m.Engagement.StdDev, m.Engagement.Min, m.Engagement.Max, m.Engagement.Trend)),
		))

		fmt.Fprintln(out, theme.Subtitle.Render("Dropout risk"))
		for _, lvl := range analytics.AllRiskLevels() {
			fmt.Fprintf(out, "  %-7s %3d  (%.1f%%)\n", lvl, m.Risk.Counts[lvl], m.Risk.Percentages[lvl])
		}

		fmt.Fprintln(out, theme.Subtitle.Render("Study time"))
		fmt.Fprintf(out, "  total %.1fh · mean %.1fh · session %.2fh · daily %.2fh\n",
			m.Time.TotalTimeSum, m.Time.TotalTimeMean, m.Time.SessionMean, m.Time.DailyTimeMean)
		for _, b := range analytics.TimeBuckets() {
			fmt.Fprintf(out, "  %-7s %3d\n", b, m.Time.TotalTimeBuckets[b])
		}

		fmt.Fprintln(out, theme.Subtitle.Render("Prediction"))
		fmt.Fprintf(out, "  quality %.2f · accuracy %.2f · precision %.2f · recall %.2f · f1 %.2f\n",
			m.Prediction.DataQuality, m.Prediction.Accuracy, m.Prediction.Precision, m.Prediction.Recall, m.Prediction.F1)

		counts, err := st.NudgeEventRepo().ResponseCounts(ctx)
		if err != nil {
			return fmt.Errorf("response counts: %w", err)
		}
		if len(counts) > 0 {
			fmt.Fprintln(out, theme.Subtitle.Render("Nudge responses"))
			for _, r := range []nudge.Response{nudge.ResponseEngaged, nudge.ResponseDismissed, nudge.ResponseNoResponse} {
				fmt.Fprintf(out, "  %-12s %3d\n", r, counts[string(r)])
			}
		}

		printInsights(out, analytics.Insights(m))
		return nil
	},
}

func printInsights(out io.Writer, insights []analytics.Insight) {
	if len(insights) > 0 {
		fmt.Fprintln(out)
	}
	for _, in := range insights {
		fmt.Fprintln(out, theme.ForInsight(string(in.Kind)).Render(in.Title))
		fmt.Fprintln(out, "  "+theme.Body.Render(in.Message))
		if in.Action != "" {
			fmt.Fprintln(out, "  "+theme.Hint.Render(in.Action))
		}
	}
}
