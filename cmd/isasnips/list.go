// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/isasnips/internal/index"
	"github.com/pdiddy/isasnips/internal/pipeline"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the snippet groups recorded by the last extract run",
	Long: `List prints the snippet groups the most recent extract run recorded in
the snippet index: each group key and the number of addressable lines it
holds. Use the keys with the snippet include macros of the consuming
document.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("index-dir")
	theory, _ := cmd.Flags().GetString("theory")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	store, err := index.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	groups, err := store.Groups(cmd.Context(), theory)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(os.Stderr, "no snippets recorded; run extract first")
		return nil
	}

	if asYAML {
		data, err := yaml.Marshal(groups)
		if err != nil {
			return fmt.Errorf("marshaling groups: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	for _, g := range groups {
		fmt.Printf("%-50s %d line(s)\n", g.Key(), g.Lines)
	}
	return nil
}

func init() {
	listCmd.Flags().String("index-dir", pipeline.DefaultIndexDir, "snippet index directory")
	listCmd.Flags().String("theory", "", "restrict to one theory prefix")
	listCmd.Flags().Bool("yaml", false, "output groups as YAML")

	rootCmd.AddCommand(listCmd)
}
