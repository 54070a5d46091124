// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcodagnone/polyfix/utils/textutils"
	"github.com/spf13/cobra"
)

var storeDBPath string

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspects the chains stored by fix --db",
}

func requireStore() error {
	if _, err := os.Stat(storeDBPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("database not found at %s - run 'fix --db %s' first", storeDBPath, storeDBPath)
	}

	return nil
}

var storeSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Prints the stored chains per file",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireStore(); err != nil {
			return err
		}

		db, repo, err := openStore(storeDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		summary, err := repo.Summary()
		if err != nil {
			return fmt.Errorf("summarizing chains: %w", err)
		}

		a, b := strings.Repeat("─", 40), strings.Repeat("─", 10)
		fmt.Printf("╭─%s─┬─%s─┬─%s─┬─%s─┬─%s─╮\n", a, b, b, b, b)
		fmt.Printf("│ %-40s │ %10s │ %10s │ %10s │ %10s │\n", "File", "Features", "Completed", "Residual", "Nodes")
		fmt.Printf("├─%s─┼─%s─┼─%s─┼─%s─┼─%s─┤\n", a, b, b, b, b)

		for _, s := range summary {
			fmt.Printf("│ %-40s │ %10s │ %10s │ %10s │ %10s │\n",
				abbreviatePath(s.File, 40),
				textutils.FormatInt(s.Features),
				textutils.FormatInt(s.Completed),
				textutils.FormatInt(s.Residual),
				textutils.FormatInt(s.Nodes),
			)
		}

		fmt.Printf("╰─%s─┴─%s─┴─%s─┴─%s─┴─%s─╯\n", a, b, b, b, b)

		return nil
	},
}

var storeDumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Prints the stored chains of a list as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := requireStore(); err != nil {
			return err
		}

		db, repo, err := openStore(storeDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		chains, err := repo.ListChains(filepath.Clean(args[0]))
		if err != nil {
			return fmt.Errorf("listing chains: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if err := enc.Encode(chains); err != nil {
			return fmt.Errorf("marshaling chains: %w", err)
		}

		return nil
	},
}

// abbreviatePath keeps the end of p, which carries the file name.
func abbreviatePath(p string, width int) string {
	r := []rune(p)
	if len(r) <= width {
		return p
	}

	return "…" + string(r[len(r)-width+1:])
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeSummaryCmd)
	storeCmd.AddCommand(storeDumpCmd)
	storeCmd.PersistentFlags().StringVar(
		&storeDBPath,
		"db",
		filepath.Join("db", "polyfix.duckdb"),
		"duckdb database written by fix --db",
	)
}
