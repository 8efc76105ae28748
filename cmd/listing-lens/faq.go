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

var faqCmd = &cobra.Command{
	Use:   "faq",
	Short: "Generate buyer FAQs from the current analysis",
	Long: `Faq writes frequently asked questions with publishable answers for the
listing of the current session analysis. Results are cached in the
session store; use --refresh to regenerate.`,
	RunE: runFAQ,
}

func init() {
	registerDerivedFlags(faqCmd)
	rootCmd.AddCommand(faqCmd)
}

func runFAQ(cmd *cobra.Command, args []string) error {
	store, current, dctx, backend, err := derivedSetup(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	refresh, _ := cmd.Flags().GetBool("refresh")

	var faqs []types.FAQ
	cached := false
	if !refresh {
		cached, err = store.LoadDerived(ctx, current.ID, types.DerivedFAQ, &faqs)
		if err != nil {
			return err
		}
	}

	if !cached {
		fmt.Fprintln(os.Stderr, "generating FAQs...")
		faqs, err = derive.FAQs(ctx, backend, dctx)
		if err != nil {
			return err
		}
		if err := store.SaveDerived(ctx, current.ID, types.DerivedFAQ, faqs); err != nil {
			return err
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(faqs)
	}

	for _, f := range faqs {
		fmt.Printf("Q: %s\nA: %s\n\n", f.Question, f.Answer)
	}
	return nil
}
