// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/jcodagnone/polyfix/batch"
	"github.com/jcodagnone/polyfix/export"
	"github.com/spf13/cobra"
)

var exportFlags = &batchFlags{}

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <file|dir>...",
	Short: "Converts lists into KML or GeoJSON documents",
	Long: `
Writes one placemark per labelled run. Closed runs of more than three points
become polygons when the file name ends with "area" and linear rings
otherwise; single points become points and everything else a line string.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		return exportFlags.run("Exporting", args, batch.Export(&batch.ExportOptions{
			Output: exportFlags.output,
			Format: format,
			Only:   exportFlags.nameFilter(),
		}))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportFlags.register(exportCmd, "", false)
	exportCmd.Flags().StringVarP(
		&exportFormat,
		"format",
		"f",
		string(export.FormatKML),
		"Output format: kml or geojson",
	)
}
