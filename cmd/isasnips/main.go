// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the isasnips CLI.
// See docs/ARCHITECTURE § CLI Surface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the isasnips CLI.
var rootCmd = &cobra.Command{
	Use:   "isasnips",
	Short: "Extract addressable LaTeX snippets from Isabelle theories",
	Long: `isasnips builds Isabelle theories through the standard document
preparation and extracts the generated LaTeX of each top-level command as
individually addressable snippet macros. A consuming LaTeX document
includes declarations (or line ranges of them) by stable name instead of
copy-pasting generated markup that changes with every theory edit.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./isasnips.yaml or ~/.config/isasnips/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("isasnips")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "isasnips"))
		}
	}

	viper.SetEnvPrefix("ISASNIPS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
