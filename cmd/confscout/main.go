// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the confscout CLI: scraping
// conference paper listings, ranking authors and institutions, and
// resolving contact details for outreach.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/confscout/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the confscout CLI.
var rootCmd = &cobra.Command{
	Use:   "confscout",
	Short: "Scout conference authorship for research outreach",
	Long: `confscout scrapes the public schedule pages of NeurIPS, ICML, and ICLR,
aggregates accepted papers by author and institution, and resolves public
contact details for the most prolific authors.

Scraped papers persist in a local SQLite dataset, so show, from, and
contacts operate offline once a scrape has run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is the normal case.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./confscout.yaml or ~/.config/confscout/config.yaml)")
	rootCmd.PersistentFlags().String("data", "", "dataset database path (default: papers.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("confscout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "confscout"))
		}
	}

	viper.SetDefault("scrape.data_path", "papers.db")
	viper.SetDefault("analyze.top_n", 10)
	viper.SetDefault("analyze.group_threshold", 2)
	viper.SetDefault("analyze.confirm_threshold", 3)
	viper.SetDefault("contact.min_confidence", 0.5)

	viper.SetEnvPrefix("CONFSCOUT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dataPath resolves the dataset path from the flag, then config, then the
// built-in default.
func dataPath() string {
	if p, _ := rootCmd.PersistentFlags().GetString("data"); p != "" {
		return p
	}
	return viper.GetString("scrape.data_path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
