// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Variation is one A/B test candidate for a listing: an alternative
// title and description pair.
type Variation struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// PromoContent holds promotional copy generated from the current
// analysis.
type PromoContent struct {
	InstagramPost    string `json:"instagram_post" yaml:"instagram_post"`
	PromotionalEmail string `json:"promotional_email" yaml:"promotional_email"`
}

// FAQ is one buyer question with its answer.
type FAQ struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// DerivedKind names a category of derived content in the session store.
type DerivedKind string

const (
	DerivedVariations DerivedKind = "variations"
	DerivedPromo      DerivedKind = "promo"
	DerivedFAQ        DerivedKind = "faq"
)
