// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jcodagnone/polyfix/export"
	"github.com/jcodagnone/polyfix/utils/textutils"
)

// ExportOptions configure Export. Replace is ignored: the input is never
// overwritten by a document of another type.
type ExportOptions struct {
	Output
	Format export.Format
	Only   textutils.NameFilter
}

// Export returns a job that converts a list into a KML or GeoJSON document.
func Export(opts *ExportOptions) Job {
	return func(path string) (*Metrics, error) {
		out := opts.Output
		out.Replace = false

		t, err := out.resolve(path, opts.Format.Extension())
		if err != nil {
			return nil, err
		}

		placemarks, err := export.ReadPlacemarks(t.in)
		if err != nil {
			return nil, err
		}

		placemarks = slices.DeleteFunc(placemarks, func(p export.Placemark) bool {
			return !opts.Only.Match(p.Nodes[0].Name)
		})

		f, err := os.Create(filepath.Clean(t.out))
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", t.out, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		err = export.Write(f, opts.Format, name, placemarks)
		if err = errors.Join(err, f.Close()); err != nil {
			return nil, err
		}

		metrics := &Metrics{Files: 1, Features: len(placemarks)}
		for _, p := range placemarks {
			metrics.NodesIn += len(p.Nodes)
		}

		metrics.NodesOut = metrics.NodesIn

		return metrics, nil
	}
}
