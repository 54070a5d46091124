// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileutils resolves the input and output paths of the batch commands.
package fileutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// BackupSuffix is appended to the base name of a file replaced in place.
const BackupSuffix = "_before"

// Discover expands inputs into the files with extension ext. Files are taken
// as given when their extension matches; directories contribute their direct
// children, except backups and files whose base name ends with one of the
// skip suffixes. The result is sorted and has no duplicates.
func Discover(inputs []string, ext string, skip ...string) ([]string, error) {
	var files []string

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("reading input %s: %w", input, err)
		}

		if !info.IsDir() {
			if HasExt(input, ext) {
				files = append(files, filepath.Clean(input))
			}

			continue
		}

		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", input, err)
		}

		for _, e := range entries {
			if e.Type().IsRegular() && HasExt(e.Name(), ext) && !generated(e.Name(), skip) {
				files = append(files, filepath.Join(input, e.Name()))
			}
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

// generated reports whether name looks like the output of an earlier run.
func generated(name string, skip []string) bool {
	if IsBackup(name) {
		return true
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for _, suffix := range skip {
		if suffix != "" && strings.HasSuffix(stem, suffix) {
			return true
		}
	}

	return false
}

// HasExt reports whether path ends with ext, ignoring case.
func HasExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// WithSuffix inserts suffix between the base name and the extension of path
// and swaps the extension for ext. An empty ext keeps the original one.
func WithSuffix(path, suffix, ext string) string {
	old := filepath.Ext(path)
	if ext == "" {
		ext = old
	}

	return strings.TrimSuffix(path, old) + suffix + ext
}

// OutputPath returns where the result for input goes: into folder when set,
// otherwise next to input, named with suffix and ext.
func OutputPath(input, folder, suffix, ext string) string {
	out := WithSuffix(input, suffix, ext)
	if folder == "" {
		return out
	}

	return filepath.Join(folder, filepath.Base(out))
}

// Backup moves path aside to its first free backup name (name_before.txt,
// then name_before_1.txt, name_before_2.txt, ...) and returns the new
// location. Older backups are never overwritten.
func Backup(path string) (string, error) {
	backup := WithSuffix(path, BackupSuffix, "")

	for i := 1; ; i++ {
		_, err := os.Lstat(backup)
		if errors.Is(err, os.ErrNotExist) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("backing up %s: %w", path, err)
		}

		backup = WithSuffix(path, BackupSuffix+"_"+strconv.Itoa(i), "")
	}

	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("backing up %s: %w", path, err)
	}

	return backup, nil
}

// IsBackup reports whether path is named like a file written by Backup.
func IsBackup(path string) bool {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	i := strings.LastIndex(stem, BackupSuffix)
	if i < 0 {
		return false
	}

	rest := stem[i+len(BackupSuffix):]
	if rest == "" {
		return true
	}

	n, ok := strings.CutPrefix(rest, "_")
	if !ok || n == "" {
		return false
	}

	for _, r := range n {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// RemoveIfExists deletes path, ignoring a missing file.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}

	return nil
}
