// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/isasnips/internal/isabelle"
	"github.com/pdiddy/isasnips/internal/pipeline"
	"github.com/pdiddy/isasnips/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <theory.thy|session-dir> [theories...]",
	Short: "Build theories and extract their LaTeX snippets",
	Long: `Extract prepares a marked copy of the given theory file or session
directory, runs the Isabelle document build on it, and writes one
\DefineSnippet macro per output line of every top-level command to the
output file. With a session directory, the optional theory arguments
restrict extraction to the named theories.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return fmt.Errorf("an output path is required: use --output")
	}

	bin, _ := cmd.Flags().GetString("isabelle")
	if bin == "" {
		bin = viper.GetString("isabelle.binary")
	}

	library, _ := cmd.Flags().GetBool("library")
	quick, _ := cmd.Flags().GetBool("quick-and-dirty")
	symbols, _ := cmd.Flags().GetString("symbols")
	keep, _ := cmd.Flags().GetBool("keep")

	indexDir, _ := cmd.Flags().GetString("index-dir")
	if !cmd.Flags().Changed("index-dir") && viper.IsSet("index_dir") {
		indexDir = viper.GetString("index_dir")
	}

	cfg := types.ExtractConfig{
		Build: types.BuildConfig{
			Binary:        bin,
			Library:       library,
			QuickAndDirty: quick,
		},
		Input:       args[0],
		Output:      output,
		Theories:    args[1:],
		SymbolsFile: symbols,
		IndexDir:    indexDir,
		KeepWorkDir: keep,
	}

	tc := isabelle.New(cfg.Build.Binary)
	_, err := pipeline.Run(cmd.Context(), tc, cfg, os.Stderr)
	return err
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "path the snippet file is written to")
	extractCmd.Flags().String("isabelle", "", "isabelle binary name or path")
	extractCmd.Flags().Bool("library", false, "base single-file sessions on HOL-Library instead of HOL")
	extractCmd.Flags().Bool("quick-and-dirty", false, "skip proof checking in the build")
	extractCmd.Flags().String("symbols", "", "YAML file of symbol-table overrides")
	extractCmd.Flags().String("index-dir", pipeline.DefaultIndexDir, "snippet index directory (empty disables the index)")
	extractCmd.Flags().Bool("keep", false, "keep the temporary session directory")

	rootCmd.AddCommand(extractCmd)
}
