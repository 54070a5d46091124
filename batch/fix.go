// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"fmt"
	"log"

	"github.com/jcodagnone/polyfix/spatial"
	"github.com/jcodagnone/polyfix/stitch"
	"github.com/jcodagnone/polyfix/store"
	"github.com/jcodagnone/polyfix/txtlist"
	"github.com/jcodagnone/polyfix/utils/textutils"
)

// DefaultFixSuffix names the output of fix when not replacing in place.
const DefaultFixSuffix = "_multipolygon_fixed"

// nearMissMeters is the largest gap between the ends of a residual chain
// that is reported as a probable digitizing slip.
const nearMissMeters = 5.0

// FixOptions configure Fix.
type FixOptions struct {
	Output
	// Only limits stitching to the matching features; the others are copied
	// unchanged.
	Only textutils.NameFilter
	// Repo, when set, receives the stitched chains of every file.
	Repo store.ChainRepository
}

// Fix returns a job that stitches the pieces of every feature of a list and
// writes completed rings followed by residual chains.
func Fix(opts *FixOptions) Job {
	return func(path string) (*Metrics, error) {
		t, err := opts.Output.resolve(path, "")
		if err != nil {
			return nil, err
		}

		metrics, err := fixFile(t, path, opts)

		return metrics, t.finish(err)
	}
}

func fixFile(t *target, path string, opts *FixOptions) (*Metrics, error) {
	w, err := txtlist.Append(t.out)
	if err != nil {
		return nil, err
	}

	metrics := &Metrics{Files: 1}

	var stored []*store.Chain

	err = txtlist.Each(t.in, func(feature []spatial.Node) error {
		metrics.Features++
		metrics.NodesIn += len(feature)

		name := feature[0].Name
		if !opts.Only.Match(name) {
			metrics.NodesOut += len(feature)

			return w.Write(feature)
		}

		res, err := stitch.Feature(feature)
		if err != nil {
			return fmt.Errorf("feature %s: %w", name, err)
		}

		if len(res.Junctions) > 0 {
			log.Printf("⚠️ %s feature %s: more than two pieces meet at %v, result depends on piece order", path, name, res.Junctions)
		}

		metrics.Completed += len(res.Completed)
		metrics.Residual += len(res.Residual)
		metrics.Joins += res.Joins
		metrics.Junctions += len(res.Junctions)

		for _, c := range res.Residual {
			if gap, ok := nearMiss(c); ok {
				metrics.NearMisses++
				log.Printf("⚠️ %s feature %s: chain of %d nodes left open, its ends are %.2fm apart", path, name, len(c), gap)
			}
		}

		for _, chains := range [][]stitch.Chain{res.Completed, res.Residual} {
			for _, c := range chains {
				if err := w.Write(c); err != nil {
					return err
				}

				metrics.NodesOut += len(c)
			}
		}

		if opts.Repo != nil {
			chains, err := store.Chains(name, res)
			if err != nil {
				return fmt.Errorf("feature %s: %w", name, err)
			}

			stored = append(stored, chains...)
		}

		return nil
	})

	if cErr := w.Close(); err == nil {
		err = cErr
	}

	if err != nil {
		return nil, err
	}

	if opts.Repo != nil {
		if err := opts.Repo.ReplaceFile(path, stored); err != nil {
			return nil, fmt.Errorf("storing chains: %w", err)
		}
	}

	return metrics, nil
}

// nearMiss reports open chains whose ends almost meet.
func nearMiss(c stitch.Chain) (float64, bool) {
	if len(c) < 3 || c.EndsMatch() {
		return 0, false
	}

	first, last := c[0].Point(), c[len(c)-1].Point()
	gap := first.HaversineDistance(&last)

	return gap, gap <= nearMissMeters
}
