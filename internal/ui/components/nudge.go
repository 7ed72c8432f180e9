package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/learnpulse/internal/nudge"
	"github.com/abhisek/learnpulse/internal/ui/theme"
)

// NudgeLine renders one nudge as a single line: priority badge, type and
// message. Urgent nudges get the urgent badge.
func NudgeLine(n nudge.Nudge) string {
	var badge string
	if n.IsUrgent {
		badge = theme.Urgent.Render("URGENT")
	} else {
		badge = theme.ForPriority(string(n.Priority)).Render(fmt.Sprintf("%-6s", strings.ToUpper(string(n.Priority))))
	}
	kind := theme.Subtitle.Render(fmt.Sprintf("%-12s", n.Type))
	return badge + "  " + kind + "  " + theme.Body.Render(n.Message)
}

// NudgeList renders nudges one per line, each followed by its trigger
// reason when verbose is set. An empty list renders a hint.
func NudgeList(nudges []nudge.Nudge, verbose bool) string {
	if len(nudges) == 0 {
		return theme.Hint.Render("No nudges right now.")
	}
	var b strings.Builder
	for i, n := range nudges {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(NudgeLine(n))
		if verbose && n.TriggerReason != "" {
			b.WriteString("\n        ")
			b.WriteString(theme.Hint.Render(n.TriggerReason))
		}
	}
	return b.String()
}

// UserHeader renders a card heading for a learner's nudges.
func UserHeader(name string, id int) string {
	return theme.Title.Render(fmt.Sprintf("%s (#%d)", name, id))
}
