package patterns

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultCompiles(t *testing.T) {
	lib := Default()
	if len(lib.Patterns) == 0 || len(lib.Categories) == 0 {
		t.Fatal("builtin library is empty")
	}
	for i := range lib.Categories {
		if !lib.Categories[i].Matches("surgery") && lib.Categories[i].Name == "medical" {
			t.Errorf("medical category should match %q", "surgery")
		}
	}
}

func TestCategoryWordBoundaries(t *testing.T) {
	lib := Default()
	var truck *ScoreCategory
	for i := range lib.Categories {
		if lib.Categories[i].Name == "truck" {
			truck = &lib.Categories[i]
		}
	}
	if truck == nil {
		t.Fatal("no truck category")
	}
	if !truck.Matches("i was hit by a semi truck on the highway") {
		t.Error("expected match for semi truck")
	}
	if truck.Matches("i love my food trucker-hat collection") {
		// "trucker" requires a word boundary on both sides.
		t.Error("unexpected match inside a larger word")
	}
}

func TestExtractKeywordsCanonicalizes(t *testing.T) {
	lib := Default()
	got := lib.ExtractKeywords("a drunk guy rear ended me and i went to er")

	want := map[string]bool{"drunk driver": true, "rear-end": true, "emergency room": true}
	have := map[string]bool{}
	for _, k := range got {
		have[k] = true
	}
	for k := range want {
		if !have[k] {
			t.Errorf("missing canonical keyword %q in %v", k, got)
		}
	}
}

func TestExtractKeywordsDeterministicOrder(t *testing.T) {
	lib := Default()
	text := "drunk driver rear ended me, went to the emergency room, missed work"
	first := lib.ExtractKeywords(text)
	second := lib.ExtractKeywords(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction order not stable: %v vs %v", first, second)
	}
}

func TestTierRank(t *testing.T) {
	tests := []struct {
		tier Tier
		want int
	}{
		{TierJunior, 1},
		{TierAssociate, 2},
		{TierSenior, 3},
		{TierSeniorPartner, 4},
		{TierCriminalPartner, 4},
		{Tier("Paralegal"), 0},
	}
	for _, tt := range tests {
		if got := TierRank(tt.tier); got != tt.want {
			t.Errorf("TierRank(%q) = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestLeadValueRange(t *testing.T) {
	lib := Default()
	tests := []struct {
		score int
		want  string
	}{
		{90, "$100k-$500k+"},
		{85, "$100k-$500k+"},
		{70, "$50k-$200k"},
		{55, "$25k-$100k"},
		{30, "$10k-$50k"},
		{10, "$5k-$25k"},
	}
	for _, tt := range tests {
		if got := lib.LeadValueRange(tt.score); got != tt.want {
			t.Errorf("LeadValueRange(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestTemplateFallsBackToDefault(t *testing.T) {
	lib := Default()
	tpl := lib.Template("no-such-pattern")
	if tpl.Initial == "" || tpl.FollowUp == "" {
		t.Error("default template should be complete")
	}
	if tpl.Initial != lib.Template("default").Initial {
		t.Error("unknown pattern id should resolve to the default template")
	}
}

func TestLoadReplacesWholesale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	content := `
patterns:
  - id: test-pattern
    description: test pattern
    base_score: 50
    strength: Moderate
    attorney: Associate Attorney
    keywords: ["alpha", "beta"]
    practice_area: general
    urgency: low
categories:
  - name: alpha
    points: 10
    expression: '\balpha\b'
lead_values:
  - min_score: 0
    label: "$1k"
case_values:
  - min_score: 0
    label: "$1k"
templates:
  default:
    initial: hi
    follow_up: more
    consultation: book
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lib.Patterns) != 1 || lib.Patterns[0].ID != "test-pattern" {
		t.Errorf("patterns not replaced: %+v", lib.Patterns)
	}
	if len(lib.Categories) != 1 || !lib.Categories[0].Matches("alpha centauri") {
		t.Error("category not compiled from file")
	}
}

func TestLoadRejectsBadExpression(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	content := `
patterns:
  - id: p
    description: p
    base_score: 50
    strength: Moderate
    attorney: Associate Attorney
    keywords: ["x"]
    practice_area: general
    urgency: low
categories:
  - name: broken
    points: 10
    expression: '\b(unclosed'
lead_values:
  - min_score: 0
    label: "$1k"
case_values:
  - min_score: 0
    label: "$1k"
templates:
  default:
    initial: hi
    follow_up: more
    consultation: book
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid regexp")
	}
}
