package nudge

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalogYAML []byte

//go:embed data/catalog.schema.json
var catalogSchemaJSON []byte

// ErrInvalidCatalog is the sentinel wrapped by every *CatalogError.
var ErrInvalidCatalog = errors.New("invalid nudge catalog")

// CatalogError lists every problem found while loading a catalogue.
type CatalogError struct {
	Problems []string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("invalid nudge catalog: %s", strings.Join(e.Problems, "; "))
}

func (e *CatalogError) Unwrap() error { return ErrInvalidCatalog }

// Rule maps a condition and threshold to a nudge priority.
type Rule struct {
	Condition Condition
	Threshold float64
	Priority  Priority
}

// CategoryRules is the ordered rule list of one category.
type CategoryRules struct {
	Category Category
	Rules    []Rule
}

// DefaultRules returns the built-in rule table in evaluation order.
func DefaultRules() []CategoryRules {
	return []CategoryRules{
		{CategoryReminder, []Rule{
			{CondHoursInactive, 24, PriorityMedium},
			{CondHoursInactive, 48, PriorityHigh},
			{CondEngagementDrop, 20, PriorityHigh},
			{CondStreakRisk, 1, PriorityMedium},
		}},
		{CategoryAssessment, []Rule{
			{CondCompletionRateLow, 0.5, PriorityMedium},
			{CondTimeSpentHigh, 2.0, PriorityLow},
			{CondNoAssessment, 72, PriorityHigh},
		}},
		{CategoryChallenge, []Rule{
			{CondEngagementModerate, 70, PriorityLow},
			{CondPeerActive, 1, PriorityMedium},
			{CondStreakHigh, 7, PriorityLow},
		}},
		{CategoryMentor, []Rule{
			{CondDropoutRiskHigh, 0.7, PriorityHigh},
			{CondStruggleDetected, 1, PriorityHigh},
			{CondMentorAvailable, 1, PriorityMedium},
		}},
	}
}

// Template is a message with the placeholder tokens it requires.
type Template struct {
	Text         string   `yaml:"text"`
	Placeholders []string `yaml:"placeholders"`
}

type catalogDoc struct {
	Templates    map[Category][]Template `yaml:"templates"`
	Placeholders map[string][]string     `yaml:"placeholders"`
}

var tokenPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Tokens returns the placeholder names referenced by text, in order of
// first appearance.
func Tokens(text string) []string {
	var out []string
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(out, m[1]) {
			out = append(out, m[1])
		}
	}
	return out
}

// Catalog holds the rule table, message templates and placeholder
// candidates. It is immutable once built.
type Catalog struct {
	order      []Category
	rules      map[Category][]Rule
	templates  map[Category][]Template
	candidates map[string][]string
}

// DefaultCatalog builds the catalogue from the built-in rules and the
// embedded template data.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalogYAML))
}

// LoadCatalog reads template data from r and combines it with the
// built-in rules.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	if err := validateCatalogDoc(raw); err != nil {
		return nil, err
	}

	var doc catalogDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &CatalogError{Problems: []string{fmt.Sprintf("decode: %v", err)}}
	}
	return NewCatalog(DefaultRules(), doc.Templates, doc.Placeholders)
}

// NewCatalog validates and assembles a catalogue.
func NewCatalog(rules []CategoryRules, templates map[Category][]Template, candidates map[string][]string) (*Catalog, error) {
	c := &Catalog{
		rules:      make(map[Category][]Rule, len(rules)),
		templates:  make(map[Category][]Template, len(templates)),
		candidates: make(map[string][]string, len(candidates)),
	}
	var problems []string

	for _, cr := range rules {
		if _, dup := c.rules[cr.Category]; dup {
			problems = append(problems, fmt.Sprintf("category %q declared twice", cr.Category))
			continue
		}
		if len(cr.Rules) == 0 {
			problems = append(problems, fmt.Sprintf("category %q has no rules", cr.Category))
		}
		for i, r := range cr.Rules {
			if !r.Condition.Known() {
				problems = append(problems, fmt.Sprintf("%s rule %d: unknown condition %q", cr.Category, i, r.Condition))
			}
			if !r.Priority.Valid() {
				problems = append(problems, fmt.Sprintf("%s rule %d: invalid priority %q", cr.Category, i, r.Priority))
			}
		}
		c.order = append(c.order, cr.Category)
		c.rules[cr.Category] = slices.Clone(cr.Rules)
	}

	for name, list := range candidates {
		if len(list) == 0 {
			problems = append(problems, fmt.Sprintf("placeholder %q has no candidates", name))
		}
		for _, v := range list {
			if strings.ContainsAny(v, "{}") {
				problems = append(problems, fmt.Sprintf("placeholder %q candidate %q contains a brace", name, v))
			}
		}
		c.candidates[name] = slices.Clone(list)
	}

	for cat, list := range templates {
		if _, ok := c.rules[cat]; !ok {
			problems = append(problems, fmt.Sprintf("templates for unknown category %q", cat))
		}
		for i, t := range list {
			problems = append(problems, checkTemplate(cat, i, t, c.candidates)...)
		}
		c.templates[cat] = slices.Clone(list)
	}

	for _, cat := range c.order {
		if len(c.templates[cat]) == 0 {
			problems = append(problems, fmt.Sprintf("category %q has no templates", cat))
		}
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return nil, &CatalogError{Problems: problems}
	}
	return c, nil
}

func checkTemplate(cat Category, i int, t Template, candidates map[string][]string) []string {
	var problems []string
	used := Tokens(t.Text)
	for _, tok := range used {
		if !slices.Contains(t.Placeholders, tok) {
			problems = append(problems, fmt.Sprintf("%s template %d: token {%s} not declared", cat, i, tok))
		}
	}
	for _, p := range t.Placeholders {
		if !slices.Contains(used, p) {
			problems = append(problems, fmt.Sprintf("%s template %d: placeholder %q unused", cat, i, p))
		}
		if len(candidates[p]) == 0 {
			problems = append(problems, fmt.Sprintf("%s template %d: placeholder %q has no candidates", cat, i, p))
		}
	}
	return problems
}

// Categories returns the categories in evaluation order.
func (c *Catalog) Categories() []Category {
	return slices.Clone(c.order)
}

// Rules returns the ordered rules of a category.
func (c *Catalog) Rules(cat Category) []Rule {
	return c.rules[cat]
}

// Templates returns the message templates of a category.
func (c *Catalog) Templates(cat Category) []Template {
	return c.templates[cat]
}

// Candidates returns the substitution values for a placeholder.
func (c *Catalog) Candidates(placeholder string) []string {
	return c.candidates[placeholder]
}

// Render substitutes every placeholder in t using pick to choose among
// the candidates, one pick per placeholder in declared order. pick(n) must
// return a value in [0, n). Substituted text is never rescanned for tokens.
func (c *Catalog) Render(t Template, pick func(n int) int) string {
	chosen := make(map[string]string, len(t.Placeholders))
	for _, p := range t.Placeholders {
		values := c.candidates[p]
		chosen[p] = values[pick(len(values))]
	}
	return tokenPattern.ReplaceAllStringFunc(t.Text, func(tok string) string {
		if v, ok := chosen[tok[1:len(tok)-1]]; ok {
			return v
		}
		return tok
	})
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(catalogSchemaJSON, &def); err != nil {
			schemaErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://nudge-catalog.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
	})
	return compiledSchema, schemaErr
}

// validateCatalogDoc checks the raw YAML document against the embedded
// JSON schema before it is decoded into typed structures.
func validateCatalogDoc(raw []byte) error {
	sch, err := catalogSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return &CatalogError{Problems: []string{fmt.Sprintf("decode: %v", err)}}
	}
	if err := sch.Validate(doc); err != nil {
		return &CatalogError{Problems: []string{fmt.Sprintf("schema: %v", err)}}
	}
	return nil
}
