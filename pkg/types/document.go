// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for listing-lens:
// the analysis document parsed from model output, derived content
// shapes, and stage configuration.
package types

// WebSource is a citation returned alongside a search-grounded
// generation: the page the model consulted and its title. Sources come
// from the API's grounding metadata, never from the analysis text.
type WebSource struct {
	URI   string `json:"uri" yaml:"uri"`
	Title string `json:"title" yaml:"title"`
}

// RecommendationItem is one element-specific suggestion with its
// rationale. Element is a short label such as "Title" or "Description".
type RecommendationItem struct {
	Element    string `json:"element" yaml:"element"`
	Suggestion string `json:"suggestion" yaml:"suggestion"`
	Reasoning  string `json:"reasoning" yaml:"reasoning"`
}

// AnalysisDocument is the structured result of parsing the model's
// heading-delimited analysis of a product listing.
//
// OverallAssessment is always present, possibly empty. PriceAnalysis is
// empty when the model produced no price section. Recommendations keep
// the order their blocks appeared in the source text, and
// SuggestedKeywords keep line order with each tag capped at 20
// characters. Sources are attached after parsing when the generation
// was search-grounded.
type AnalysisDocument struct {
	OverallAssessment string               `json:"overall_assessment" yaml:"overall_assessment"`
	PriceAnalysis     string               `json:"price_analysis,omitempty" yaml:"price_analysis,omitempty"`
	Recommendations   []RecommendationItem `json:"recommendations" yaml:"recommendations"`
	SuggestedKeywords []string             `json:"suggested_keywords" yaml:"suggested_keywords"`
	Sources           []WebSource          `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Recommendation returns the first recommendation whose element label
// matches exactly, or nil when the document has none for that element.
func (d *AnalysisDocument) Recommendation(element string) *RecommendationItem {
	for i := range d.Recommendations {
		if d.Recommendations[i].Element == element {
			return &d.Recommendations[i]
		}
	}
	return nil
}
