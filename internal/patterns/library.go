package patterns

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in library with all category rules compiled.
func Default() *Library {
	lib := &Library{
		Version:        "builtin-1",
		Patterns:       defaultPatterns(),
		Categories:     defaultCategories(),
		Contradictions: defaultContradictions(),
		Extraction:     defaultExtraction(),
		LeadValues:     defaultLeadValues(),
		CaseValues:     defaultCaseValues(),
		Templates:      defaultTemplates(),
	}
	if err := lib.compile(); err != nil {
		// Built-in expressions are covered by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("patterns: compiling built-in library: %v", err))
	}
	return lib
}

// Load reads a complete library from a YAML file. The file replaces the
// built-in tables wholesale; partial overlays are not supported so that the
// active rule set is always auditable from one place.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pattern library %s: %w", path, err)
	}

	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parsing pattern library %s: %w", path, err)
	}
	if err := lib.validate(); err != nil {
		return nil, fmt.Errorf("invalid pattern library %s: %w", path, err)
	}
	if err := lib.compile(); err != nil {
		return nil, fmt.Errorf("compiling pattern library %s: %w", path, err)
	}
	return &lib, nil
}

func (l *Library) validate() error {
	if len(l.Patterns) == 0 {
		return fmt.Errorf("no patterns defined")
	}
	seen := map[string]bool{}
	for _, p := range l.Patterns {
		if p.ID == "" {
			return fmt.Errorf("pattern with empty id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate pattern id %q", p.ID)
		}
		seen[p.ID] = true
		if len(p.Keywords) == 0 {
			return fmt.Errorf("pattern %q has no keywords", p.ID)
		}
		if p.BaseScore < 0 || p.BaseScore > 100 {
			return fmt.Errorf("pattern %q base score %d out of range", p.ID, p.BaseScore)
		}
		if TierRank(p.Attorney) == 0 {
			return fmt.Errorf("pattern %q has unknown tier %q", p.ID, p.Attorney)
		}
	}
	for _, c := range l.Categories {
		if c.Name == "" || c.Expression == "" {
			return fmt.Errorf("score category missing name or expression")
		}
		if c.Points <= 0 {
			return fmt.Errorf("score category %q has non-positive points", c.Name)
		}
	}
	for _, p := range l.Contradictions {
		if len(p.Positive) == 0 || len(p.Negative) == 0 {
			return fmt.Errorf("contradiction pair %q must have both sides", p.Name)
		}
	}
	return nil
}

// compile builds the category regexes and sorts the value tables so lookup
// is a forward scan.
func (l *Library) compile() error {
	for i := range l.Categories {
		re, err := regexp.Compile("(?i)" + l.Categories[i].Expression)
		if err != nil {
			return fmt.Errorf("category %q: %w", l.Categories[i].Name, err)
		}
		l.Categories[i].re = re
	}
	sort.SliceStable(l.LeadValues, func(i, j int) bool {
		return l.LeadValues[i].MinScore > l.LeadValues[j].MinScore
	})
	sort.SliceStable(l.CaseValues, func(i, j int) bool {
		return l.CaseValues[i].MinScore > l.CaseValues[j].MinScore
	})
	return nil
}

// ExtractKeywords canonicalizes the transcript into the library's keyword
// vocabulary. Output order follows the extraction table, so repeated calls
// over the same text are identical.
func (l *Library) ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, g := range l.Extraction {
		for _, term := range g.Terms {
			if strings.Contains(lower, term) {
				out = append(out, g.Canonical)
				break
			}
		}
	}
	return out
}

// LeadValueRange returns the scorer's estimated-value bracket for a score.
func (l *Library) LeadValueRange(score int) string {
	for _, v := range l.LeadValues {
		if score >= v.MinScore {
			return v.Label
		}
	}
	return "$5k-$25k"
}

// CaseValueRange returns the bracket for a pattern candidate score.
func (l *Library) CaseValueRange(score int) string {
	for _, v := range l.CaseValues {
		if score >= v.MinScore {
			return v.Label
		}
	}
	return "$1k-$10k"
}

// Template returns the response template for a pattern id, falling back to
// the default template.
func (l *Library) Template(patternID string) ResponseTemplate {
	if t, ok := l.Templates[patternID]; ok {
		return t
	}
	return l.Templates["default"]
}
