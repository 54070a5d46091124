// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/jcodagnone/polyfix/server"
	"github.com/jcodagnone/polyfix/store"
	"github.com/spf13/cobra"
)

var serveOptions = struct {
	addr   string
	dbPath string
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the stitching HTTP API (local only)",
	Long: `
POST /api/stitch takes {"nodes": [...]} with the nodes of one feature and
answers with the completed rings, the residual chains, the number of joins
and the junction points. GET /api/summary lists what fix stored in --db.
`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		var repo store.ChainRepository

		if serveOptions.dbPath != "" {
			db, r, err := openStore(serveOptions.dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			repo = r
		}

		return server.NewServer(repo).Run(serveOptions.addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveOptions.addr, "addr", server.DefaultAddr, "Address to listen on")
	serveCmd.Flags().StringVar(&serveOptions.dbPath, "db", "", "duckdb database written by fix --db")
}
