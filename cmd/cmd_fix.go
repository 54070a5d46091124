// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/jcodagnone/polyfix/batch"
	"github.com/spf13/cobra"
)

var fixFlags = &batchFlags{}

var fixDBPath string

var fixCmd = &cobra.Command{
	Use:   "fix <file|dir>...",
	Short: "Stitches the pieces of every polygon back into closed rings",
	Long: `
Reads each list, groups the rows of every feature by their sub-label ("12-1",
"12-2", ...) and joins the pieces end to end. Closed rings are written first,
followed by the chains that could not be closed.

Where more than two pieces meet at the same point the result depends on the
order of the pieces; those points are logged as warnings.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		opts := &batch.FixOptions{
			Output: fixFlags.output,
			Only:   fixFlags.nameFilter(),
		}

		if fixDBPath != "" {
			db, repo, err := openStore(fixDBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			opts.Repo = repo
		}

		return fixFlags.run("Fixing", args, batch.Fix(opts))
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
	fixFlags.register(fixCmd, batch.DefaultFixSuffix, true)
	fixCmd.Flags().StringVar(
		&fixDBPath,
		"db",
		"",
		"Also store the stitched chains in this duckdb database",
	)
}
