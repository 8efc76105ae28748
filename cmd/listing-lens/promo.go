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

var promoCmd = &cobra.Command{
	Use:   "promo",
	Short: "Generate promotional copy from the current analysis",
	Long: `Promo writes an Instagram post and a promotional email for the listing
of the current session analysis. Results are cached in the session
store; use --refresh to regenerate.`,
	RunE: runPromo,
}

func init() {
	registerDerivedFlags(promoCmd)
	rootCmd.AddCommand(promoCmd)
}

func runPromo(cmd *cobra.Command, args []string) error {
	store, current, dctx, backend, err := derivedSetup(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	refresh, _ := cmd.Flags().GetBool("refresh")

	var promo types.PromoContent
	cached := false
	if !refresh {
		cached, err = store.LoadDerived(ctx, current.ID, types.DerivedPromo, &promo)
		if err != nil {
			return err
		}
	}

	if !cached {
		fmt.Fprintln(os.Stderr, "generating promo content...")
		generated, err := derive.Promo(ctx, backend, dctx)
		if err != nil {
			return err
		}
		promo = *generated
		if err := store.SaveDerived(ctx, current.ID, types.DerivedPromo, promo); err != nil {
			return err
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(promo)
	}

	fmt.Printf("Instagram Post\n%s\n\nPromotional Email\n%s\n", promo.InstagramPost, promo.PromotionalEmail)
	return nil
}
