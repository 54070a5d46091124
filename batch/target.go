// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"errors"
	"fmt"
	"os"

	"github.com/jcodagnone/polyfix/utils/fileutils"
)

// Output says where the results of a command go.
type Output struct {
	// Folder receives the outputs; empty writes next to each input.
	Folder string
	// Suffix is appended to the input base name.
	Suffix string
	// Replace writes over the input, keeping a backup of it.
	Replace bool
}

// target pairs the file a job reads with the file it writes.
type target struct {
	in, out string
	backup  string
}

// resolve prepares the output for input, swapping its extension for ext when
// set. The returned target reads from the backup when replacing in place.
func (o Output) resolve(input, ext string) (*target, error) {
	if o.Replace {
		backup, err := fileutils.Backup(input)
		if err != nil {
			return nil, err
		}

		return &target{in: backup, out: input, backup: backup}, nil
	}

	if o.Folder != "" {
		if err := os.MkdirAll(o.Folder, 0o750); err != nil {
			return nil, fmt.Errorf("creating output folder: %w", err)
		}
	}

	t := &target{in: input, out: fileutils.OutputPath(input, o.Folder, o.Suffix, ext)}
	if t.out == t.in {
		return nil, fmt.Errorf("output would overwrite %s, use a suffix, an output folder or --replace", input)
	}

	if err := fileutils.RemoveIfExists(t.out); err != nil {
		return nil, err
	}

	return t, nil
}

// finish undoes a failed replacement by putting the backup back in place.
func (t *target) finish(err error) error {
	if err == nil || t.backup == "" {
		return err
	}

	if rErr := os.Rename(t.backup, t.out); rErr != nil {
		return errors.Join(err, fmt.Errorf("restoring %s: %w", t.out, rErr))
	}

	return err
}
