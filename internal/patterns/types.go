package patterns

import "regexp"

// Tier is an ordered staffing level a conversation can be routed to.
type Tier string

const (
	TierJunior          Tier = "Junior Attorney"
	TierAssociate       Tier = "Associate Attorney"
	TierSenior          Tier = "Senior Attorney"
	TierSeniorPartner   Tier = "Senior Partner"
	TierCriminalPartner Tier = "Criminal Defense Partner"
)

// TierRank returns the ordinal rank of a tier. Higher is more senior.
// The criminal defense partner sits at the same rank as a senior partner.
func TierRank(t Tier) int {
	switch t {
	case TierJunior:
		return 1
	case TierAssociate:
		return 2
	case TierSenior:
		return 3
	case TierSeniorPartner, TierCriminalPartner:
		return 4
	default:
		return 0
	}
}

// CasePattern is a single entry in the case pattern library.
type CasePattern struct {
	ID           string             `yaml:"id"`
	Description  string             `yaml:"description"`
	BaseScore    int                `yaml:"base_score"`
	Strength     string             `yaml:"strength"`
	Attorney     Tier               `yaml:"attorney"`
	Keywords     []string           `yaml:"keywords"`
	Multipliers  map[string]float64 `yaml:"multipliers"`
	PracticeArea string             `yaml:"practice_area"`
	Urgency      string             `yaml:"urgency"`
}

// ScoreCategory is a named keyword-detection rule with a fixed point value.
// Expression is compiled once when the library is built.
type ScoreCategory struct {
	Name       string `yaml:"name"`
	Points     int    `yaml:"points"`
	Expression string `yaml:"expression"`

	re *regexp.Regexp
}

// Matches reports whether the category's rule fires anywhere in text.
func (c *ScoreCategory) Matches(text string) bool {
	return c.re != nil && c.re.MatchString(text)
}

// ContradictionPair names two mutually exclusive keyword groups. When both
// sides appear in one transcript, a bounded downward score correction is
// permitted.
type ContradictionPair struct {
	Name     string   `yaml:"name"`
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// KeywordGroup maps surface phrases to one canonical extraction keyword.
type KeywordGroup struct {
	Canonical string   `yaml:"canonical"`
	Terms     []string `yaml:"terms"`
}

// ValueRange maps a minimum score to an estimated case value bracket.
type ValueRange struct {
	MinScore int    `yaml:"min_score"`
	Label    string `yaml:"label"`
}

// ResponseTemplate holds the canned reply text for one pattern, by stage.
type ResponseTemplate struct {
	Initial      string `yaml:"initial"`
	FollowUp     string `yaml:"follow_up"`
	Consultation string `yaml:"consultation"`
}

// Library is the immutable, versioned rule set shared read-only by the
// classifier, scorer and matcher. Load it once at startup.
type Library struct {
	Version        string                      `yaml:"version"`
	Patterns       []CasePattern               `yaml:"patterns"`
	Categories     []ScoreCategory             `yaml:"categories"`
	Contradictions []ContradictionPair         `yaml:"contradictions"`
	Extraction     []KeywordGroup              `yaml:"extraction"`
	LeadValues     []ValueRange                `yaml:"lead_values"`
	CaseValues     []ValueRange                `yaml:"case_values"`
	Templates      map[string]ResponseTemplate `yaml:"templates"`
}
