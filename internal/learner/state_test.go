package learner

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLastActive(t *testing.T) {
	tests := []struct {
		label    string
		wantDays int
		wantOK   bool
	}{
		{"Today", 0, true},
		{"Yesterday", 1, true},
		{"3 days ago", 3, true},
		{"12 days ago", 12, true},
		{"a while ago", 1, false},
		{"", 1, false},
		{"-2 days ago", 1, false},
		{"+2 days ago", 1, false},
	}

	for _, tt := range tests {
		days, ok := ParseLastActive(tt.label)
		if days != tt.wantDays || ok != tt.wantOK {
			t.Errorf("ParseLastActive(%q) = (%d, %v), want (%d, %v)", tt.label, days, ok, tt.wantDays, tt.wantOK)
		}
	}
}

func TestLastActiveLabel(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "Today"},
		{23.9, "Today"},
		{24, "Yesterday"},
		{47.5, "Yesterday"},
		{48, "2 days ago"},
		{100, "4 days ago"},
	}

	for _, tt := range tests {
		if got := LastActiveLabel(tt.hours); got != tt.want {
			t.Errorf("LastActiveLabel(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestOptionalDefaults(t *testing.T) {
	var s State
	assert.Equal(t, DefaultEngagementScore, s.Engagement())
	assert.Equal(t, DefaultDropoutRisk, s.Risk())
	assert.Equal(t, DefaultAttendanceRate, s.Attendance())
	assert.Equal(t, DefaultGrade, s.AverageGrade())

	_, ok := s.PassRate()
	assert.False(t, ok)

	s.FirstSemGrade = Float(6)
	assert.Equal(t, 8.0, s.AverageGrade())
}

func TestPassRate(t *testing.T) {
	s := State{EvaluationsAttempted: 10, EvaluationsPassed: 2}
	rate, ok := s.PassRate()
	require.True(t, ok)
	assert.InDelta(t, 0.2, rate, 1e-9)
}

func TestValidate(t *testing.T) {
	valid := State{
		ID:              1,
		EngagementScore: Float(55),
		DropoutRisk:     Float(0.4),
		AttendanceRate:  Float(0.9),
		FirstSemGrade:   Float(12),
		SecondSemGrade:  Float(13),
		CompletionRate:  70,
		AvgSession:      1.5,
		Streak:          4,
		LastActive:      "Today",
	}
	require.NoError(t, valid.Validate())
	require.NoError(t, State{}.Validate(), "sparse state must be valid")

	bad := valid
	bad.EngagementScore = Float(140)
	bad.DropoutRisk = Float(math.NaN())
	bad.EvaluationsAttempted = -1

	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))

	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.UserID)
	require.Len(t, invalid.Fields, 3)
	assert.Equal(t, "engagement_score", invalid.Fields[0].Field)
	assert.Equal(t, "dropout_risk", invalid.Fields[1].Field)
	assert.Equal(t, "evaluations_attempted", invalid.Fields[2].Field)
}

func TestPercentFromFraction(t *testing.T) {
	assert.InDelta(t, 70.0, PercentFromFraction(0.7), 1e-9)
}

func TestValidateAcceptsAnyLastActiveLabel(t *testing.T) {
	for _, label := range []string{"", "Today", "a while back", "-3 days ago"} {
		s := State{ID: 1, Name: "Lee", CompletionRate: 50, LastActive: label}
		assert.NoError(t, s.Validate(), "label %q", label)
	}
}
