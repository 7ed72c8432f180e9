package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpulse/internal/ui/theme"
)

// Meter displays a labelled horizontal bar for a value within [0, Max].
type Meter struct {
	Label string
	Value float64
	Max   float64
	Width int
}

// NewMeter creates a meter. A non-positive limit is treated as 1.
func NewMeter(label string, value, limit float64, width int) Meter {
	if limit <= 0 {
		limit = 1
	}
	return Meter{Label: label, Value: value, Max: limit, Width: width}
}

// Fraction returns Value/Max clamped to [0, 1].
func (m Meter) Fraction() float64 {
	f := m.Value / m.Max
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// View renders the meter.
func (m Meter) View() string {
	var result string

	if m.Label != "" {
		result += theme.Body.Render(fmt.Sprintf("%-12s", m.Label)) + "  "
	}

	const valueWidth = 8
	barWidth := m.Width - lipgloss.Width(result) - valueWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * m.Fraction())
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", empty))
	result += theme.Subtitle.Render(fmt.Sprintf("  %s", formatValue(m.Value, m.Max)))

	return result
}

// formatValue prints fractions of one as percentages and anything else
// with one decimal.
func formatValue(v, limit float64) string {
	if limit == 1 {
		return fmt.Sprintf("%d%%", int(v*100))
	}
	return fmt.Sprintf("%.1f", v)
}
