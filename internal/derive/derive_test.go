package derive

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/listing-lens/internal/genai"
	"github.com/pdiddy/listing-lens/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	response string
	err      error
	prompts  []string
}

func (m *mockBackend) Analyze(_ context.Context, _ string) (genai.Generation, error) {
	return genai.Generation{}, fmt.Errorf("not used")
}

func (m *mockBackend) GenerateJSON(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// --- BuildContext ---

func TestBuildContext(t *testing.T) {
	tests := []struct {
		name  string
		doc   *types.AnalysisDocument
		wantT string
		wantD string
	}{
		{
			name: "both recommendations present",
			doc: &types.AnalysisDocument{Recommendations: []types.RecommendationItem{
				{Element: "Title", Suggestion: "Better Title"},
				{Element: "Description", Suggestion: "Better Description"},
			}},
			wantT: "Better Title",
			wantD: "Better Description",
		},
		{
			name: "missing recommendations leave fields empty",
			doc: &types.AnalysisDocument{Recommendations: []types.RecommendationItem{
				{Element: "Photos", Suggestion: "Use daylight"},
			}},
		},
		{
			name: "element match is exact",
			doc: &types.AnalysisDocument{Recommendations: []types.RecommendationItem{
				{Element: "title", Suggestion: "lowercase element"},
			}},
		},
		{
			name: "nil document",
			doc:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dctx := BuildContext("the listing", tt.doc)
			if dctx.Listing != "the listing" {
				t.Errorf("Listing = %q", dctx.Listing)
			}
			if dctx.Title != tt.wantT {
				t.Errorf("Title = %q, want %q", dctx.Title, tt.wantT)
			}
			if dctx.Description != tt.wantD {
				t.Errorf("Description = %q, want %q", dctx.Description, tt.wantD)
			}
		})
	}
}

// --- consumers ---

func TestVariations(t *testing.T) {
	backend := &mockBackend{response: `{"variations":[
		{"title":"T1","description":"D1"},
		{"title":"T2","description":"D2"}
	]}`}

	dctx := Context{Listing: "oak sign", Title: "Rustic Oak Sign"}
	got, err := Variations(context.Background(), backend, dctx)
	if err != nil {
		t.Fatalf("Variations: %v", err)
	}
	if len(got) != 2 || got[0].Title != "T1" || got[1].Description != "D2" {
		t.Errorf("Variations = %+v", got)
	}

	prompt := backend.prompts[0]
	if !strings.Contains(prompt, "oak sign") || !strings.Contains(prompt, "Rustic Oak Sign") {
		t.Errorf("prompt missing context: %q", prompt)
	}
	if strings.Contains(prompt, "Recommended description:") {
		t.Errorf("prompt mentions absent description: %q", prompt)
	}
}

func TestVariationsFencedResponse(t *testing.T) {
	backend := &mockBackend{response: "```json\n{\"variations\":[{\"title\":\"T\",\"description\":\"D\"}]}\n```"}
	got, err := Variations(context.Background(), backend, Context{Listing: "l"})
	if err != nil {
		t.Fatalf("Variations: %v", err)
	}
	if len(got) != 1 || got[0].Title != "T" {
		t.Errorf("Variations = %+v", got)
	}
}

func TestPromo(t *testing.T) {
	backend := &mockBackend{response: `{"instagram_post":"insta","promotional_email":"email"}`}
	got, err := Promo(context.Background(), backend, Context{Listing: "l"})
	if err != nil {
		t.Fatalf("Promo: %v", err)
	}
	if got.InstagramPost != "insta" || got.PromotionalEmail != "email" {
		t.Errorf("Promo = %+v", got)
	}
}

func TestFAQs(t *testing.T) {
	backend := &mockBackend{response: `{"faqs":[{"question":"Q?","answer":"A."}]}`}
	got, err := FAQs(context.Background(), backend, Context{Listing: "l"})
	if err != nil {
		t.Fatalf("FAQs: %v", err)
	}
	if len(got) != 1 || got[0].Question != "Q?" {
		t.Errorf("FAQs = %+v", got)
	}
}

func TestMalformedResponsePropagates(t *testing.T) {
	backend := &mockBackend{response: `not json at all`}
	if _, err := FAQs(context.Background(), backend, Context{Listing: "l"}); err == nil {
		t.Fatal("want parse error, got nil")
	}
}

func TestBackendErrorPropagates(t *testing.T) {
	backend := &mockBackend{err: fmt.Errorf("quota exceeded")}
	if _, err := Promo(context.Background(), backend, Context{Listing: "l"}); err == nil {
		t.Fatal("want backend error, got nil")
	}
}
