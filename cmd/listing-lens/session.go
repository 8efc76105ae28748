// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect the session store (show, export, history, prune)",
	Long: `Session manages the local SQLite store that holds the current analysis
and its history. Use subcommands to show the current analysis, export
it as YAML, list past analyses, or prune old ones.`,
}

// --- show subcommand ---

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current analysis",
	RunE:  runSessionShow,
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	current, err := store.Current(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(current.Document)
	}

	fmt.Printf("Analysis %d (%s)\n\n", current.ID, current.CreatedAt.Format("2006-01-02 15:04"))
	printAnalysis(os.Stdout, &current.Document)
	return nil
}

// --- export subcommand ---

var sessionExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the current analysis as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessionExport,
}

func runSessionExport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	out := os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return store.ExportYAML(context.Background(), out)
}

// --- history subcommand ---

var sessionHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyses, newest first",
	RunE:  runSessionHistory,
}

func runSessionHistory(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = sessionConfig(cmd).HistoryLimit
	}

	entries, err := store.History(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No analyses stored.")
		return nil
	}

	fmt.Printf("%-6s  %-17s  %-6s  %s\n", "ID", "Created", "Recs", "Listing")
	for _, e := range entries {
		fmt.Printf("%-6d  %-17s  %-6d  %s\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.Recommendations, e.ListingPreview)
	}
	return nil
}

// --- prune subcommand ---

var sessionPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old analyses, keeping the newest",
	RunE:  runSessionPrune,
}

func runSessionPrune(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	keep, _ := cmd.Flags().GetInt("keep")
	removed, err := store.Prune(context.Background(), keep)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d analyses.\n", removed)
	return nil
}

func init() {
	sessionShowCmd.Flags().Bool("json", false, "output the analysis document as JSON")
	sessionHistoryCmd.Flags().Int("limit", 0, "maximum entries to list (0 = use default)")
	sessionPruneCmd.Flags().Int("keep", 1, "number of newest analyses to keep")

	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionHistoryCmd)
	sessionCmd.AddCommand(sessionPruneCmd)

	rootCmd.AddCommand(sessionCmd)
}
