// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package derive generates A/B variations, promotional copy, and FAQs
// from the current analysis. Each action is one generation call with a
// strict JSON response contract; responses are assumed well-formed
// beyond JSON parsing, and a parse failure propagates to the caller.
package derive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/listing-lens/internal/genai"
	"github.com/pdiddy/listing-lens/pkg/types"
)

// Context carries the inputs a derived-content prompt is built from:
// the original listing and, when the analysis recommended them, the
// improved title and description. Absent recommendations leave the
// fields empty; that is not an error.
type Context struct {
	Listing     string
	Title       string
	Description string
}

// BuildContext selects the "Title" and "Description" recommendation
// suggestions from the document, when present, as prompt inputs.
func BuildContext(listing string, doc *types.AnalysisDocument) Context {
	dctx := Context{Listing: listing}
	if doc == nil {
		return dctx
	}
	if r := doc.Recommendation("Title"); r != nil {
		dctx.Title = r.Suggestion
	}
	if r := doc.Recommendation("Description"); r != nil {
		dctx.Description = r.Suggestion
	}
	return dctx
}

var variationsPromptTmpl = template.Must(template.New("variations").Parse(`You are an e-commerce copywriter. Write 3 A/B test variations for the product listing below. Each variation needs a distinct angle (emotional, practical, luxury, etc.).

Respond with a JSON object of this exact shape and nothing else:
{"variations": [{"title": "...", "description": "..."}]}

Original listing:
{{.Listing}}
{{if .Title}}
Recommended title: {{.Title}}
{{end}}{{if .Description}}
Recommended description: {{.Description}}
{{end}}`))

var promoPromptTmpl = template.Must(template.New("promo").Parse(`You are an e-commerce copywriter. Write promotional content for the product listing below: an Instagram post with hashtags, and a short promotional email with a subject line.

Respond with a JSON object of this exact shape and nothing else:
{"instagram_post": "...", "promotional_email": "..."}

Original listing:
{{.Listing}}
{{if .Title}}
Recommended title: {{.Title}}
{{end}}{{if .Description}}
Recommended description: {{.Description}}
{{end}}`))

var faqPromptTmpl = template.Must(template.New("faq").Parse(`You are an e-commerce assistant. Write 5 frequently asked questions a buyer would have about the product listing below, with helpful answers a seller could publish as-is.

Respond with a JSON object of this exact shape and nothing else:
{"faqs": [{"question": "...", "answer": "..."}]}

Original listing:
{{.Listing}}
{{if .Title}}
Recommended title: {{.Title}}
{{end}}{{if .Description}}
Recommended description: {{.Description}}
{{end}}`))

// Variations generates A/B test candidates for the listing.
func Variations(ctx context.Context, backend genai.Backend, dctx Context) ([]types.Variation, error) {
	var resp struct {
		Variations []types.Variation `json:"variations"`
	}
	if err := generate(ctx, backend, variationsPromptTmpl, dctx, &resp); err != nil {
		return nil, err
	}
	return resp.Variations, nil
}

// Promo generates promotional copy for the listing.
func Promo(ctx context.Context, backend genai.Backend, dctx Context) (*types.PromoContent, error) {
	var resp types.PromoContent
	if err := generate(ctx, backend, promoPromptTmpl, dctx, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FAQs generates buyer questions and answers for the listing.
func FAQs(ctx context.Context, backend genai.Backend, dctx Context) ([]types.FAQ, error) {
	var resp struct {
		FAQs []types.FAQ `json:"faqs"`
	}
	if err := generate(ctx, backend, faqPromptTmpl, dctx, &resp); err != nil {
		return nil, err
	}
	return resp.FAQs, nil
}

// generate renders the prompt, runs the JSON generation call, and
// unmarshals the response into out.
func generate(ctx context.Context, backend genai.Backend, tmpl *template.Template, dctx Context, out any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, dctx); err != nil {
		return fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}

	text, err := backend.GenerateJSON(ctx, buf.String())
	if err != nil {
		return fmt.Errorf("generating %s: %w", tmpl.Name(), err)
	}

	if err := json.Unmarshal([]byte(stripFences(text)), out); err != nil {
		return fmt.Errorf("parsing %s response: %w", tmpl.Name(), err)
	}
	return nil
}

// stripFences removes a surrounding markdown code fence some models
// wrap JSON responses in.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
