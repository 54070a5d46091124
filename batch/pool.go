// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

// Package batch runs the per-file commands over many files concurrently.
package batch

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Metrics counts what a batch did.
type Metrics struct {
	Files       int
	FailedFiles int
	Features    int
	NodesIn     int
	NodesOut    int
	Completed   int
	Residual    int
	Joins       int
	Junctions   int
	NearMisses  int
}

// Merge adds other into m.
func (m *Metrics) Merge(other *Metrics) {
	m.Files += other.Files
	m.FailedFiles += other.FailedFiles
	m.Features += other.Features
	m.NodesIn += other.NodesIn
	m.NodesOut += other.NodesOut
	m.Completed += other.Completed
	m.Residual += other.Residual
	m.Joins += other.Joins
	m.Junctions += other.Junctions
	m.NearMisses += other.NearMisses
}

// Job processes one file.
type Job func(path string) (*Metrics, error)

// Run calls job for every file using at most maxProcs goroutines (all CPUs
// when zero). Failures are logged and do not stop the other files; the
// returned error only reports how many failed.
func Run(description string, files []string, maxProcs int, job Job) (*Metrics, error) {
	n := len(files)

	if maxProcs <= 0 {
		maxProcs = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var wg sync.WaitGroup

	semaphore := make(chan struct{}, maxProcs)
	errChan := make(chan error, n)
	metricsChan := make(chan *Metrics, n)

	for _, path := range files {
		wg.Add(1)

		go func(path string) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			metrics, err := job(path)
			if err != nil {
				errChan <- fmt.Errorf("%s - %w", path, err)
				metrics = &Metrics{FailedFiles: 1}
			}

			if metrics != nil {
				metricsChan <- metrics
			}

			if bar == nil {
				log.Printf("%s %s", description, path)
			} else if err := bar.Add(1); err != nil {
				log.Printf("updating progress bar for %s: %v", path, err)
			}
		}(path)
	}

	wg.Wait()
	close(errChan)
	close(metricsChan)

	for err := range errChan {
		log.Printf("%s failed - %s", description, err)
	}

	total := &Metrics{}
	for metrics := range metricsChan {
		total.Merge(metrics)
	}

	if total.FailedFiles > 0 {
		return total, fmt.Errorf("%d of %d files failed", total.FailedFiles, n)
	}

	return total, nil
}
