// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the listing-lens CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/listing-lens/internal/secrets"
	"github.com/pdiddy/listing-lens/internal/session"
	"github.com/pdiddy/listing-lens/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultModel = "claude-sonnet-4-5"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the listing-lens CLI.
var rootCmd = &cobra.Command{
	Use:   "listing-lens",
	Short: "AI-driven analysis of e-commerce product listings",
	Long: `listing-lens analyzes a product listing with a hosted language model and
turns the response into structured marketing recommendations: an overall
assessment, price commentary, element-level suggestions, and SEO tags.

The analyze command stores its result as the current session analysis;
variations, promo, and faq generate derived content from it. Session
state lives in a local SQLite database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./listing-lens.yaml or ~/.config/listing-lens/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "session data directory (default: .listing-lens)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("listing-lens")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "listing-lens"))
		}
	}

	viper.SetEnvPrefix("LISTING_LENS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// analyzeConfig assembles the generation stage configuration from
// flags, config file, and secrets, in that precedence order.
func analyzeConfig(cmd *cobra.Command) types.AnalyzeConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("analyze.model")
	}
	if model == "" {
		model = defaultModel
	}

	cfg := types.AnalyzeConfig{
		AIConfig: types.AIConfig{
			Model:      model,
			APIKey:     secrets.APIKey(loadedSecrets),
			MaxRetries: viper.GetInt("analyze.max_retries"),
		},
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("analyze.timeout"),
			UserAgent: "listing-lens/" + version,
		},
		MaxSearchUses: viper.GetInt("analyze.max_search_uses"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return cfg
}

// sessionConfig assembles the session store configuration.
func sessionConfig(cmd *cobra.Command) types.SessionConfig {
	dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("session.data_dir")
	}
	return types.SessionConfig{
		DataDir:      dataDir,
		HistoryLimit: viper.GetInt("session.history_limit"),
	}
}

// openStore opens the session store for a command.
func openStore(cmd *cobra.Command) (*session.Store, error) {
	return session.NewStore(sessionConfig(cmd))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
