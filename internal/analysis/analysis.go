// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis parses the model's heading-delimited listing
// analysis into a typed AnalysisDocument.
//
// The grammar is fixed by the analysis prompt: four level-2 sections
// (Overall Assessment, Price Analysis, Actionable Recommendations,
// Suggested SEO Tags), with recommendation blocks introduced by
// "### Element:" headings and "#### Suggestion:" / "#### Reasoning:"
// subsections. Parsing never fails: missing sections produce zero
// values, and duplicate headings of the same kind are ignored after
// the first occurrence.
package analysis

import (
	"strings"

	"github.com/pdiddy/listing-lens/pkg/types"
)

// maxKeywordLen caps each suggested SEO tag, in runes.
const maxKeywordLen = 20

// Section headings recognized in the model's analysis output. These
// mirror the vocabulary the analysis prompt requests.
const (
	headingAssessment      = "## Overall Assessment"
	headingPrice           = "## Price Analysis"
	headingRecommendations = "## Actionable Recommendations"
	headingKeywords        = "## Suggested SEO Tags (13)"

	elementPrefix     = "### Element:"
	headingSuggestion = "#### Suggestion:"
	headingReasoning  = "#### Reasoning:"
)

// sectionKind identifies which level-2 section the scanner is inside.
type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionAssessment
	sectionPrice
	sectionRecommendations
	sectionKeywords
)

// Parse converts raw model output into an AnalysisDocument. It is a
// single pass over lines: each recognized level-2 heading opens a
// section, and any level-2 heading closes the one before it. Text
// before the first heading and unrecognized sections are dropped.
func Parse(text string) *types.AnalysisDocument {
	doc := &types.AnalysisDocument{}

	current := sectionNone
	seen := map[sectionKind]bool{}
	var body []string

	flush := func() {
		switch current {
		case sectionAssessment:
			doc.OverallAssessment = strings.TrimSpace(strings.Join(body, "\n"))
		case sectionPrice:
			doc.PriceAnalysis = strings.TrimSpace(strings.Join(body, "\n"))
		case sectionKeywords:
			doc.SuggestedKeywords = parseKeywords(body)
		case sectionRecommendations:
			doc.Recommendations = parseRecommendations(body)
		}
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if isLevel2Heading(trimmed) {
			flush()
			kind := classifyHeading(trimmed)
			// First occurrence wins: a repeated heading of an
			// already-captured kind does not reopen it.
			if kind != sectionNone && !seen[kind] {
				seen[kind] = true
				current = kind
			} else {
				current = sectionNone
			}
			continue
		}
		if current != sectionNone {
			body = append(body, line)
		}
	}
	flush()

	return doc
}

// AttachSources sets the document's cited web sources. Sources come
// from the generation call's grounding metadata, not from the parsed
// text, so attachment is a separate step after Parse.
func AttachSources(doc *types.AnalysisDocument, sources []types.WebSource) {
	doc.Sources = sources
}

// isLevel2Heading reports whether the line is a level-2 heading and
// not a deeper one.
func isLevel2Heading(line string) bool {
	return strings.HasPrefix(line, "## ") && !strings.HasPrefix(line, "###")
}

// classifyHeading maps a level-2 heading line to its section kind, or
// sectionNone when the heading is not part of the grammar.
func classifyHeading(line string) sectionKind {
	switch line {
	case headingAssessment:
		return sectionAssessment
	case headingPrice:
		return sectionPrice
	case headingRecommendations:
		return sectionRecommendations
	case headingKeywords:
		return sectionKeywords
	}
	return sectionNone
}

// parseKeywords converts the SEO tag section body into keywords, one
// per non-empty line, in line order. Each line has its leading bullet
// marker stripped and is then truncated per the tag policy.
func parseKeywords(body []string) []string {
	var keywords []string
	for _, line := range body {
		tag := stripBullet(line)
		if tag == "" {
			continue
		}
		keywords = append(keywords, truncateTag(tag))
	}
	return keywords
}

// stripBullet trims a line and removes one leading hyphen or asterisk
// bullet marker together with the whitespace after it.
func stripBullet(line string) string {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "*") {
		s = strings.TrimSpace(s[1:])
	}
	return s
}

// truncateTag caps a tag at maxKeywordLen runes. Truncation is by
// rune, not byte, so multibyte tags are never cut mid-character.
func truncateTag(tag string) string {
	runes := []rune(tag)
	if len(runes) <= maxKeywordLen {
		return tag
	}
	return string(runes[:maxKeywordLen])
}

// recField identifies the recommendation block field being accumulated.
type recField int

const (
	fieldNone recField = iota
	fieldSuggestion
	fieldReasoning
)

// parseRecommendations splits the recommendations section body into
// blocks at "### Element:" headings and extracts each block's
// suggestion and reasoning. A block contributes an item only when its
// element label is non-empty and at least one of suggestion or
// reasoning is non-empty (skip-if-empty policy). Block order follows
// source order.
func parseRecommendations(body []string) []types.RecommendationItem {
	var items []types.RecommendationItem

	var (
		inBlock    bool
		element    string
		suggestion []string
		reasoning  []string
		field      recField
	)

	flush := func() {
		if !inBlock {
			return
		}
		item := types.RecommendationItem{
			Element:    element,
			Suggestion: strings.TrimSpace(strings.Join(suggestion, "\n")),
			Reasoning:  strings.TrimSpace(strings.Join(reasoning, "\n")),
		}
		if item.Element != "" && (item.Suggestion != "" || item.Reasoning != "") {
			items = append(items, item)
		}
		inBlock = false
		element = ""
		suggestion = nil
		reasoning = nil
		field = fieldNone
	}

	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, elementPrefix):
			flush()
			inBlock = true
			element = strings.TrimSpace(strings.TrimPrefix(trimmed, elementPrefix))
		case trimmed == headingSuggestion:
			field = fieldSuggestion
		case trimmed == headingReasoning:
			field = fieldReasoning
		case strings.HasPrefix(trimmed, "#### "):
			// An unrecognized level-4 heading still terminates the
			// field before it.
			field = fieldNone
		default:
			switch field {
			case fieldSuggestion:
				suggestion = append(suggestion, line)
			case fieldReasoning:
				reasoning = append(reasoning, line)
			}
		}
	}
	flush()

	return items
}
