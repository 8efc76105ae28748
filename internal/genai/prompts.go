// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"bytes"
	"text/template"
)

// analysisPromptTmpl is the prompt sent to the API for the initial
// listing analysis. The heading vocabulary here is a contract: the
// analysis parser recognizes exactly these headings, so changes must
// be made in both places together.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`You are an expert e-commerce marketing consultant. Analyze the following product listing and respond in markdown using exactly the structure below. Do not add, rename, or reorder the headings.

## Overall Assessment
Two or three paragraphs assessing the listing's strengths and weaknesses as a whole. Use **bold** for the points the seller should act on first.

## Price Analysis
A short assessment of the asking price against comparable listings. If you have no basis for a price opinion, omit this section entirely.

## Actionable Recommendations
One block per listing element that needs work, each in this form:

### Element: <element name, e.g. Title, Description, Photos>
#### Suggestion:
The concrete replacement text or change to make.
#### Reasoning:
Why this change helps buyers find or choose the listing.

## Suggested SEO Tags (13)
Exactly 13 search tags, one per line, each prefixed with "- ". Every tag must be 20 characters or fewer.

Product listing:
{{.Listing}}
`))

// renderAnalysisPrompt executes the analysis prompt template with the
// given listing text.
func renderAnalysisPrompt(listing string) (string, error) {
	var buf bytes.Buffer
	if err := analysisPromptTmpl.Execute(&buf, struct{ Listing string }{Listing: listing}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
