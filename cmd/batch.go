// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/polyfix/batch"
	"github.com/jcodagnone/polyfix/store"
	"github.com/jcodagnone/polyfix/txtlist"
	"github.com/jcodagnone/polyfix/utils/fileutils"
	"github.com/jcodagnone/polyfix/utils/textutils"
	"github.com/spf13/cobra"
)

// batchFlags are shared by the commands that process lists.
type batchFlags struct {
	output   batch.Output
	maxProcs int
	only     []string
}

func (f *batchFlags) register(cmd *cobra.Command, defaultSuffix string, replace bool) {
	cmd.Flags().StringVarP(
		&f.output.Suffix,
		"output-suffix",
		"s",
		defaultSuffix,
		"Suffix added to the input base name when not replacing",
	)
	cmd.Flags().StringVarP(
		&f.output.Folder,
		"output-folder",
		"o",
		"",
		"Folder for the outputs, defaults to the folder of each input",
	)
	cmd.Flags().IntVar(
		&f.maxProcs,
		"max-procs",
		0,
		"Files processed concurrently, 0 uses every CPU",
	)
	cmd.Flags().StringSliceVar(
		&f.only,
		"only",
		nil,
		"Process only the features with these names (accents and case ignored)",
	)

	if replace {
		cmd.Flags().BoolVarP(
			&f.output.Replace,
			"replace",
			"r",
			false,
			"Replace each input with its output, keeping a "+fileutils.BackupSuffix+" copy",
		)
	}
}

func (f *batchFlags) run(description string, inputs []string, job batch.Job) error {
	files, err := fileutils.Discover(inputs, txtlist.Extension, f.output.Suffix)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no %s files found in %v", txtlist.Extension, inputs)
	}

	metrics, err := batch.Run(description, files, f.maxProcs, job)
	if metrics != nil {
		reportMetrics(description, metrics)
	}

	return err
}

func (f *batchFlags) nameFilter() textutils.NameFilter {
	return textutils.NewNameFilter(f.only)
}

func reportMetrics(description string, m *batch.Metrics) {
	log.Printf(
		"%s complete - %s files (%s failed), %s features, %s nodes in, %s nodes out.",
		description,
		textutils.FormatInt(m.Files),
		textutils.FormatInt(m.FailedFiles),
		textutils.FormatInt(m.Features),
		textutils.FormatInt(m.NodesIn),
		textutils.FormatInt(m.NodesOut),
	)

	if m.Completed+m.Residual > 0 {
		log.Printf(
			"%s rings completed, %s residual chains (%s almost closed), %s joins, %s junctions.",
			textutils.FormatInt(m.Completed),
			textutils.FormatInt(m.Residual),
			textutils.FormatInt(m.NearMisses),
			textutils.FormatInt(m.Joins),
			textutils.FormatInt(m.Junctions),
		)
	}
}

// openStore opens (creating when needed) the duckdb database at path.
func openStore(path string) (*sql.DB, store.ChainRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repo := store.NewChainRepository(db)
	if err := repo.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("creating table: %w", err)
	}

	return db, repo, nil
}
