package analysis

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/listing-lens/pkg/types"
)

// --- Parse: sections ---

func TestParseNoHeadings(t *testing.T) {
	inputs := []string{
		"",
		"no headings at all",
		"just some\nplain text\nwith newlines",
		"# wrong level heading\nbody",
		"## Unknown Section\nbody",
	}
	for _, input := range inputs {
		doc := Parse(input)
		if doc.OverallAssessment != "" {
			t.Errorf("Parse(%q).OverallAssessment = %q, want empty", input, doc.OverallAssessment)
		}
		if doc.PriceAnalysis != "" {
			t.Errorf("Parse(%q).PriceAnalysis = %q, want empty", input, doc.PriceAnalysis)
		}
		if len(doc.Recommendations) != 0 {
			t.Errorf("Parse(%q) returned %d recommendations, want 0", input, len(doc.Recommendations))
		}
		if len(doc.SuggestedKeywords) != 0 {
			t.Errorf("Parse(%q) returned %d keywords, want 0", input, len(doc.SuggestedKeywords))
		}
	}
}

func TestParseAssessmentOnly(t *testing.T) {
	doc := Parse("## Overall Assessment\nGreat listing.")
	if doc.OverallAssessment != "Great listing." {
		t.Errorf("OverallAssessment = %q, want %q", doc.OverallAssessment, "Great listing.")
	}
	if doc.PriceAnalysis != "" || len(doc.Recommendations) != 0 || len(doc.SuggestedKeywords) != 0 {
		t.Errorf("other fields not at defaults: %+v", doc)
	}
}

func TestParseSectionBoundaries(t *testing.T) {
	input := strings.Join([]string{
		"## Overall Assessment",
		"Strong photos, weak title.",
		"",
		"## Price Analysis",
		"Priced below comparable items.",
		"Consider raising by 10%.",
		"## Suggested SEO Tags (13)",
		"- handmade sign",
	}, "\n")

	doc := Parse(input)
	if doc.OverallAssessment != "Strong photos, weak title." {
		t.Errorf("OverallAssessment = %q", doc.OverallAssessment)
	}
	wantPrice := "Priced below comparable items.\nConsider raising by 10%."
	if doc.PriceAnalysis != wantPrice {
		t.Errorf("PriceAnalysis = %q, want %q", doc.PriceAnalysis, wantPrice)
	}
	if !reflect.DeepEqual(doc.SuggestedKeywords, []string{"handmade sign"}) {
		t.Errorf("SuggestedKeywords = %v", doc.SuggestedKeywords)
	}
}

func TestParseDuplicateHeadingFirstWins(t *testing.T) {
	input := strings.Join([]string{
		"## Overall Assessment",
		"First assessment.",
		"## Overall Assessment",
		"Second assessment.",
	}, "\n")

	doc := Parse(input)
	if doc.OverallAssessment != "First assessment." {
		t.Errorf("OverallAssessment = %q, want first occurrence", doc.OverallAssessment)
	}
}

// --- keywords ---

func TestParseKeywordsTruncation(t *testing.T) {
	input := strings.Join([]string{
		"## Suggested SEO Tags (13)",
		"- handmade wedding sign",
		"- custom welcome decor extremely long tag name",
	}, "\n")

	doc := Parse(input)
	want := []string{
		"handmade wedding sig",
		"custom welcome decor",
	}
	if !reflect.DeepEqual(doc.SuggestedKeywords, want) {
		t.Errorf("SuggestedKeywords = %v, want %v", doc.SuggestedKeywords, want)
	}
	for i, kw := range doc.SuggestedKeywords {
		if n := len([]rune(kw)); n > maxKeywordLen {
			t.Errorf("keyword[%d] length = %d, want <= %d", i, n, maxKeywordLen)
		}
	}
}

func TestParseKeywordsBlankAndBulletVariants(t *testing.T) {
	input := strings.Join([]string{
		"## Suggested SEO Tags (13)",
		"- first tag",
		"",
		"   ",
		"* second tag",
		"third tag",
	}, "\n")

	doc := Parse(input)
	want := []string{"first tag", "second tag", "third tag"}
	if !reflect.DeepEqual(doc.SuggestedKeywords, want) {
		t.Errorf("SuggestedKeywords = %v, want %v", doc.SuggestedKeywords, want)
	}
}

func TestTruncateTagRunes(t *testing.T) {
	// 25 multibyte runes must cut at 20 runes, not 20 bytes.
	tag := strings.Repeat("ü", 25)
	got := truncateTag(tag)
	if got != strings.Repeat("ü", 20) {
		t.Errorf("truncateTag cut mid-rune: %q", got)
	}
}

// --- recommendations ---

func TestParseRecommendationsOrderAndFields(t *testing.T) {
	input := strings.Join([]string{
		"## Actionable Recommendations",
		"### Element: Title",
		"#### Suggestion:",
		"Add the material to the title.",
		"#### Reasoning:",
		"Buyers search by material.",
		"### Element: Description",
		"#### Suggestion:",
		"Lead with dimensions.",
		"#### Reasoning:",
		"Size questions dominate messages.",
		"## Suggested SEO Tags (13)",
		"- tag",
	}, "\n")

	doc := Parse(input)
	if len(doc.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(doc.Recommendations))
	}

	want := []types.RecommendationItem{
		{Element: "Title", Suggestion: "Add the material to the title.", Reasoning: "Buyers search by material."},
		{Element: "Description", Suggestion: "Lead with dimensions.", Reasoning: "Size questions dominate messages."},
	}
	if !reflect.DeepEqual(doc.Recommendations, want) {
		t.Errorf("Recommendations = %+v, want %+v", doc.Recommendations, want)
	}
}

func TestParseRecommendationsPartialBlocks(t *testing.T) {
	input := strings.Join([]string{
		"## Actionable Recommendations",
		"### Element: Photos",
		"#### Suggestion:",
		"Shoot in daylight.",
		"### Element: Shipping",
		"#### Reasoning:",
		"Free shipping boosts conversion.",
	}, "\n")

	doc := Parse(input)
	if len(doc.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(doc.Recommendations))
	}
	if doc.Recommendations[0].Suggestion != "Shoot in daylight." || doc.Recommendations[0].Reasoning != "" {
		t.Errorf("suggestion-only block = %+v", doc.Recommendations[0])
	}
	if doc.Recommendations[1].Reasoning != "Free shipping boosts conversion." || doc.Recommendations[1].Suggestion != "" {
		t.Errorf("reasoning-only block = %+v", doc.Recommendations[1])
	}
}

func TestParseRecommendationsSkipPolicies(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{
			name: "empty element label skipped",
			lines: []string{
				"### Element:",
				"#### Suggestion:",
				"Something useful.",
			},
			want: 0,
		},
		{
			name: "empty suggestion and reasoning skipped",
			lines: []string{
				"### Element: Title",
				"#### Suggestion:",
				"#### Reasoning:",
			},
			want: 0,
		},
		{
			name: "text before first field heading ignored",
			lines: []string{
				"### Element: Title",
				"stray preamble",
				"#### Suggestion:",
				"Keep it short.",
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "## Actionable Recommendations\n" + strings.Join(tt.lines, "\n")
			doc := Parse(input)
			if len(doc.Recommendations) != tt.want {
				t.Errorf("got %d recommendations, want %d: %+v", len(doc.Recommendations), tt.want, doc.Recommendations)
			}
		})
	}
}

func TestParseRecommendationsMultilineFields(t *testing.T) {
	input := strings.Join([]string{
		"## Actionable Recommendations",
		"### Element: Description",
		"#### Suggestion:",
		"First line.",
		"Second line.",
		"#### Reasoning:",
		"Because.",
	}, "\n")

	doc := Parse(input)
	if len(doc.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(doc.Recommendations))
	}
	if doc.Recommendations[0].Suggestion != "First line.\nSecond line." {
		t.Errorf("Suggestion = %q", doc.Recommendations[0].Suggestion)
	}
}

// --- sources ---

func TestAttachSources(t *testing.T) {
	doc := Parse("## Overall Assessment\nFine.")
	sources := []types.WebSource{{URI: "https://example.com", Title: "Example"}}
	AttachSources(doc, sources)
	if !reflect.DeepEqual(doc.Sources, sources) {
		t.Errorf("Sources = %+v, want %+v", doc.Sources, sources)
	}
}

// --- document helpers ---

func TestRecommendationLookup(t *testing.T) {
	doc := &types.AnalysisDocument{
		Recommendations: []types.RecommendationItem{
			{Element: "Title", Suggestion: "New title."},
			{Element: "Description", Suggestion: "New description."},
		},
	}
	if r := doc.Recommendation("Title"); r == nil || r.Suggestion != "New title." {
		t.Errorf("Recommendation(Title) = %+v", r)
	}
	if r := doc.Recommendation("Photos"); r != nil {
		t.Errorf("Recommendation(Photos) = %+v, want nil", r)
	}
}
