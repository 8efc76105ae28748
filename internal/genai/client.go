// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genai is the client for the hosted generation API. It issues
// the listing analysis call (optionally search-grounded, returning
// cited sources) and the strict-JSON derived-content calls.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/listing-lens/internal/httputil"
	"github.com/pdiddy/listing-lens/pkg/types"
)

// ErrEmptyGeneration is returned when the API completes successfully
// but produces no text. Callers surface it to the user; it is never
// retried.
var ErrEmptyGeneration = errors.New("generation returned no text")

// Generation is the result of one generation call: the raw text and,
// for search-grounded calls, the pages the model cited.
type Generation struct {
	Text    string
	Sources []types.WebSource
}

// Backend abstracts the generation API so tests can supply a mock.
type Backend interface {
	// Analyze runs the listing analysis prompt and returns the model's
	// heading-structured text plus any cited sources.
	Analyze(ctx context.Context, listing string) (Generation, error)

	// GenerateJSON runs a prompt that demands a strict JSON response
	// and returns the raw response text.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// messagesURL is the Anthropic Messages API endpoint. Package-level
// var for test substitution.
var messagesURL = "https://api.anthropic.com/v1/messages"

const defaultMaxSearchUses = 5

// ClaudeBackend calls the Anthropic Messages API. The zero Client
// falls back to http.DefaultClient.
type ClaudeBackend struct {
	Config types.AnalyzeConfig
	Client *http.Client
}

// claudeRequest is the request body for the Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
	Tools     []claudeTool    `json:"tools,omitempty"`
}

// claudeMessage is a single message in the API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeTool enables a server-side tool such as web search.
type claudeTool struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	MaxUses int    `json:"max_uses,omitempty"`
}

// claudeResponse is the response body from the Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the API response. Text blocks
// from search-grounded calls carry citations.
type claudeContent struct {
	Type      string           `json:"type"`
	Text      string           `json:"text"`
	Citations []claudeCitation `json:"citations,omitempty"`
}

// claudeCitation locates a web page a text span was grounded on.
type claudeCitation struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Analyze sends the analysis prompt for a listing. When grounding is
// configured the web search tool is enabled and cited pages are
// collected into Sources, de-duplicated by URL in first-seen order.
func (c *ClaudeBackend) Analyze(ctx context.Context, listing string) (Generation, error) {
	prompt, err := renderAnalysisPrompt(listing)
	if err != nil {
		return Generation{}, fmt.Errorf("rendering prompt: %w", err)
	}
	return c.send(ctx, prompt, c.Config.Grounding)
}

// GenerateJSON sends a derived-content prompt without grounding and
// returns the raw response text. The caller owns JSON parsing.
func (c *ClaudeBackend) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	gen, err := c.send(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	return gen.Text, nil
}

func (c *ClaudeBackend) send(ctx context.Context, prompt string, grounded bool) (Generation, error) {
	reqBody := claudeRequest{
		Model:     c.Config.Model,
		MaxTokens: 4096,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}
	if grounded {
		maxUses := c.Config.MaxSearchUses
		if maxUses <= 0 {
			maxUses = defaultMaxSearchUses
		}
		reqBody.Tools = []claudeTool{
			{Type: "web_search_20250305", Name: "web_search", MaxUses: maxUses},
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Generation{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, messagesURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Generation{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.Config.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.Config.MaxRetries)
	if err != nil {
		return Generation{}, fmt.Errorf("calling generation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Generation{}, fmt.Errorf("generation API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return Generation{}, fmt.Errorf("decoding API response: %w", err)
	}

	gen := collectGeneration(cResp)
	if strings.TrimSpace(gen.Text) == "" {
		return Generation{}, ErrEmptyGeneration
	}
	return gen, nil
}

// collectGeneration concatenates the response's text blocks and gathers
// their citations into sources, first occurrence of each URL wins.
func collectGeneration(resp claudeResponse) Generation {
	var text strings.Builder
	var sources []types.WebSource
	seen := map[string]bool{}

	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		text.WriteString(block.Text)
		for _, cit := range block.Citations {
			if cit.URL == "" || seen[cit.URL] {
				continue
			}
			seen[cit.URL] = true
			sources = append(sources, types.WebSource{URI: cit.URL, Title: cit.Title})
		}
	}

	return Generation{Text: text.String(), Sources: sources}
}
