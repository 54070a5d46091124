// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"github.com/jcodagnone/polyfix/spatial"
	"github.com/jcodagnone/polyfix/thinner"
	"github.com/jcodagnone/polyfix/txtlist"
	"github.com/jcodagnone/polyfix/utils/textutils"
)

// DefaultThinSuffix names the output of thin when not replacing in place.
const DefaultThinSuffix = "_points_reduced"

// ThinOptions configure Thin.
type ThinOptions struct {
	Output
	Thinner thinner.Options
	Only    textutils.NameFilter
}

// Thin returns a job that removes redundant points from every labelled run
// of every feature of a list. Consecutive repeated nodes are dropped first.
func Thin(opts *ThinOptions) Job {
	return func(path string) (*Metrics, error) {
		t, err := opts.Output.resolve(path, "")
		if err != nil {
			return nil, err
		}

		metrics, err := thinFile(t, opts)

		return metrics, t.finish(err)
	}
}

func thinFile(t *target, opts *ThinOptions) (*Metrics, error) {
	w, err := txtlist.Append(t.out)
	if err != nil {
		return nil, err
	}

	metrics := &Metrics{Files: 1}

	err = txtlist.Each(t.in, func(feature []spatial.Node) error {
		metrics.Features++
		metrics.NodesIn += len(feature)

		if !opts.Only.Match(feature[0].Name) {
			metrics.NodesOut += len(feature)

			return w.Write(feature)
		}

		for _, run := range thinner.ReduceFeature(spatial.DedupeNodes(feature), opts.Thinner) {
			if err := w.Write(run); err != nil {
				return err
			}

			metrics.NodesOut += len(run)
		}

		return nil
	})

	if cErr := w.Close(); err == nil {
		err = cErr
	}

	if err != nil {
		return nil, err
	}

	return metrics, nil
}
