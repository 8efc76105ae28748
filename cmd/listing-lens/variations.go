// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/listing-lens/internal/derive"
	"github.com/pdiddy/listing-lens/pkg/types"
)

var variationsCmd = &cobra.Command{
	Use:   "variations",
	Short: "Generate A/B test variations from the current analysis",
	Long: `Variations writes alternative title and description pairs for the
listing of the current session analysis, each taking a different
marketing angle. Results are cached in the session store; use --refresh
to regenerate.`,
	RunE: runVariations,
}

func init() {
	registerDerivedFlags(variationsCmd)
	rootCmd.AddCommand(variationsCmd)
}

func runVariations(cmd *cobra.Command, args []string) error {
	store, current, dctx, backend, err := derivedSetup(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	refresh, _ := cmd.Flags().GetBool("refresh")

	var variations []types.Variation
	cached := false
	if !refresh {
		cached, err = store.LoadDerived(ctx, current.ID, types.DerivedVariations, &variations)
		if err != nil {
			return err
		}
	}

	if !cached {
		fmt.Fprintln(os.Stderr, "generating variations...")
		variations, err = derive.Variations(ctx, backend, dctx)
		if err != nil {
			return err
		}
		if err := store.SaveDerived(ctx, current.ID, types.DerivedVariations, variations); err != nil {
			return err
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(variations)
	}

	for i, v := range variations {
		fmt.Printf("Variation %d: %s\n%s\n\n", i+1, v.Title, v.Description)
	}
	return nil
}
