// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/listing-lens/internal/derive"
	"github.com/pdiddy/listing-lens/internal/genai"
	"github.com/pdiddy/listing-lens/internal/session"
)

// derivedSetup opens the session store, loads the current analysis,
// and prepares the prompt context and backend shared by the
// derived-content commands (variations, promo, faq).
func derivedSetup(cmd *cobra.Command) (*session.Store, *session.Analysis, derive.Context, genai.Backend, error) {
	store, err := openStore(cmd)
	if err != nil {
		return nil, nil, derive.Context{}, nil, err
	}

	current, err := store.Current(context.Background())
	if err != nil {
		store.Close()
		return nil, nil, derive.Context{}, nil, err
	}

	cfg := analyzeConfig(cmd)
	if cfg.APIKey == "" {
		store.Close()
		return nil, nil, derive.Context{}, nil,
			fmt.Errorf("no API key configured: set LISTING_LENS_API_KEY or .secrets/anthropic-api-key")
	}

	backend := &genai.ClaudeBackend{
		Config: cfg,
		Client: &http.Client{Timeout: cfg.Timeout},
	}

	dctx := derive.BuildContext(current.Listing, &current.Document)
	return store, current, dctx, backend, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// registerDerivedFlags adds the flags every derived-content command
// shares.
func registerDerivedFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "AI model identifier for the generation")
	cmd.Flags().Bool("refresh", false, "regenerate instead of reusing cached content")
	cmd.Flags().Bool("json", false, "output as JSON")
}
