// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/listing-lens/internal/analysis"
	"github.com/pdiddy/listing-lens/internal/genai"
	"github.com/pdiddy/listing-lens/internal/render"
	"github.com/pdiddy/listing-lens/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a product listing and store it as the current session",
	Long: `Analyze sends the listing text (from a file or stdin) to the generation
API, parses the heading-structured response into an analysis document,
and stores it as the current session analysis. With --grounding the
model may search the web for comparable listings and its cited pages
are recorded as sources.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("model", "", "AI model identifier for the analysis")
	analyzeCmd.Flags().Bool("grounding", true, "allow the model to search the web and cite sources")
	analyzeCmd.Flags().Bool("json", false, "output the analysis document as JSON")
	analyzeCmd.Flags().Bool("html", false, "output the analysis formatted as HTML fragments")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	listing, err := readListing(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(listing) == "" {
		return fmt.Errorf("empty listing: provide listing text via file argument or stdin")
	}

	cfg := analyzeConfig(cmd)
	if cfg.APIKey == "" {
		return fmt.Errorf("no API key configured: set LISTING_LENS_API_KEY or .secrets/anthropic-api-key")
	}
	cfg.Grounding, _ = cmd.Flags().GetBool("grounding")

	backend := &genai.ClaudeBackend{
		Config: cfg,
		Client: &http.Client{Timeout: cfg.Timeout},
	}

	fmt.Fprintln(os.Stderr, "analyzing listing...")
	gen, err := backend.Analyze(context.Background(), listing)
	if err != nil {
		return err
	}

	doc := analysis.Parse(gen.Text)
	analysis.AttachSources(doc, gen.Sources)

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.Save(context.Background(), listing, doc); err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	htmlOutput, _ := cmd.Flags().GetBool("html")
	switch {
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case htmlOutput:
		fmt.Print(formatAnalysisHTML(doc))
		return nil
	default:
		printAnalysis(os.Stdout, doc)
		return nil
	}
}

// readListing returns the listing text from the file argument, or from
// stdin when no argument is given.
func readListing(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading listing: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading listing from stdin: %w", err)
	}
	return string(data), nil
}

// printAnalysis writes a plain-text view of the document.
func printAnalysis(w io.Writer, doc *types.AnalysisDocument) {
	fmt.Fprintln(w, "Overall Assessment")
	fmt.Fprintln(w, doc.OverallAssessment)

	if doc.PriceAnalysis != "" {
		fmt.Fprintln(w, "\nPrice Analysis")
		fmt.Fprintln(w, doc.PriceAnalysis)
	}

	if len(doc.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations")
		for _, rec := range doc.Recommendations {
			fmt.Fprintf(w, "- %s\n", rec.Element)
			if rec.Suggestion != "" {
				fmt.Fprintf(w, "  suggestion: %s\n", rec.Suggestion)
			}
			if rec.Reasoning != "" {
				fmt.Fprintf(w, "  reasoning:  %s\n", rec.Reasoning)
			}
		}
	}

	if len(doc.SuggestedKeywords) > 0 {
		fmt.Fprintf(w, "\nSEO Tags: %s\n", strings.Join(doc.SuggestedKeywords, ", "))
	}

	if len(doc.Sources) > 0 {
		fmt.Fprintln(w, "\nSources")
		for _, src := range doc.Sources {
			fmt.Fprintf(w, "- %s (%s)\n", src.Title, src.URI)
		}
	}
}

// formatAnalysisHTML renders the document's prose fields through the
// inline formatter and assembles one HTML fragment per section.
func formatAnalysisHTML(doc *types.AnalysisDocument) string {
	var b strings.Builder

	b.WriteString("<h2>Overall Assessment</h2>\n")
	b.WriteString(render.HTML(doc.OverallAssessment))
	b.WriteString("\n")

	if doc.PriceAnalysis != "" {
		b.WriteString("<h2>Price Analysis</h2>\n")
		b.WriteString(render.HTML(doc.PriceAnalysis))
		b.WriteString("\n")
	}

	if len(doc.Recommendations) > 0 {
		b.WriteString("<h2>Recommendations</h2>\n")
		for _, rec := range doc.Recommendations {
			fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(rec.Element))
			if rec.Suggestion != "" {
				b.WriteString(render.HTML("**Suggestion:** " + rec.Suggestion))
				b.WriteString("\n")
			}
			if rec.Reasoning != "" {
				b.WriteString(render.HTML("**Reasoning:** " + rec.Reasoning))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}
