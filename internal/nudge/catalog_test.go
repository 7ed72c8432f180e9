package nudge

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, AllCategories(), c.Categories())
	for _, cat := range c.Categories() {
		assert.NotEmpty(t, c.Rules(cat), "rules for %s", cat)
		assert.Len(t, c.Templates(cat), 5, "templates for %s", cat)
	}
	assert.Len(t, c.Rules(CategoryReminder), 4)
	assert.Equal(t, Rule{CondHoursInactive, 48, PriorityHigh}, c.Rules(CategoryReminder)[1])
}

func TestRenderEveryTemplateEveryChoice(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	for _, cat := range c.Categories() {
		for i, tmpl := range c.Templates(cat) {
			// Cycle every candidate index so all substitutions are covered.
			for k := 0; k < 4; k++ {
				pick := func(n int) int { return k % n }
				msg := c.Render(tmpl, pick)
				if toks := Tokens(msg); len(toks) > 0 {
					t.Errorf("%s template %d left tokens %v in %q", cat, i, toks, msg)
				}
				if strings.ContainsAny(msg, "{}") {
					t.Errorf("%s template %d left braces in %q", cat, i, msg)
				}
			}
		}
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"plain text", nil},
		{"Compete with {peer} on {task}", []string{"peer", "task"}},
		{"{topic} and {topic} again", []string{"topic"}},
		{"not a {token with spaces}", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokens(tt.text), tt.text)
	}
}

func TestLoadCatalogRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing placeholders section",
			yaml:    "templates:\n  reminder:\n    - text: hi\n",
			wantErr: "schema",
		},
		{
			name:    "unknown field",
			yaml:    "templates:\n  reminder:\n    - text: hi\n      weight: heavy\nplaceholders: {}\n",
			wantErr: "schema",
		},
		{
			name:    "not yaml",
			yaml:    "templates: [unclosed",
			wantErr: "decode",
		},
		{
			name: "undeclared token",
			yaml: `templates:
  reminder: [{text: "Finish {activity}"}]
  assessment: [{text: a}]
  challenge: [{text: c}]
  mentor: [{text: m}]
placeholders:
  activity: [Quiz]
`,
			wantErr: "token {activity} not declared",
		},
		{
			name: "placeholder without candidates",
			yaml: `templates:
  reminder: [{text: "Finish {activity}", placeholders: [activity]}]
  assessment: [{text: a}]
  challenge: [{text: c}]
  mentor: [{text: m}]
placeholders: {}
`,
			wantErr: `placeholder "activity" has no candidates`,
		},
		{
			name: "candidate with a brace",
			yaml: `templates:
  reminder: [{text: "Back to {activity}", placeholders: [activity]}]
  assessment: [{text: a}]
  challenge: [{text: c}]
  mentor: [{text: m}]
placeholders:
  activity: ["Lab {3"]
`,
			wantErr: `candidate "Lab {3" contains a brace`,
		},
		{
			name: "category without templates",
			yaml: `templates:
  reminder: [{text: r}]
  assessment: [{text: a}]
  challenge: [{text: c}]
placeholders: {}
`,
			wantErr: `category "mentor" has no templates`,
		},
		{
			name: "templates for unknown category",
			yaml: `templates:
  reminder: [{text: r}]
  assessment: [{text: a}]
  challenge: [{text: c}]
  mentor: [{text: m}]
  gossip: [{text: g}]
placeholders: {}
`,
			wantErr: `unknown category "gossip"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)

			var ce *CatalogError
			require.True(t, errors.As(err, &ce))
			assert.Contains(t, ce.Error(), tt.wantErr)
		})
	}
}

func TestLoadCatalogMinimal(t *testing.T) {
	doc := `templates:
  reminder: [{text: "Back to {activity}!", placeholders: [activity]}]
  assessment: [{text: a}]
  challenge: [{text: c}]
  mentor: [{text: m}]
placeholders:
  activity: [Lab 3]
`
	c, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Back to Lab 3!", c.Render(c.Templates(CategoryReminder)[0], func(int) int { return 0 }))

	e, err := NewEngine(WithCatalog(c), WithSeed(1), WithSignals(FixedSignals{}))
	require.NoError(t, err)
	assert.Same(t, c, e.Catalog())
}

func TestRenderDoesNotRescanSubstitutions(t *testing.T) {
	c := &Catalog{candidates: map[string][]string{
		"a": {"{"},
		"b": {"x"},
	}}
	tmpl := Template{Text: "{a}b} and {b}", Placeholders: []string{"a", "b"}}
	assert.Equal(t, "{b} and x", c.Render(tmpl, func(int) int { return 0 }))
}

func TestNewCatalogRuleProblems(t *testing.T) {
	templates := map[Category][]Template{"reminder": {{Text: "hi"}}}
	rules := []CategoryRules{
		{CategoryReminder, []Rule{
			{Condition("moon_phase"), 1, PriorityLow},
			{CondStreakRisk, 1, Priority("urgent")},
		}},
		{CategoryReminder, []Rule{{CondStreakRisk, 1, PriorityLow}}},
	}

	_, err := NewCatalog(rules, templates, nil)
	var ce *CatalogError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{
		`category "reminder" declared twice`,
		`reminder rule 0: unknown condition "moon_phase"`,
		`reminder rule 1: invalid priority "urgent"`,
	}, ce.Problems)
}

func TestNewCatalogEmptyCategory(t *testing.T) {
	_, err := NewCatalog([]CategoryRules{{CategoryMentor, nil}}, nil, nil)
	require.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), `category "mentor" has no rules`)
	assert.Contains(t, err.Error(), `category "mentor" has no templates`)
}
