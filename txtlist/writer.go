// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package txtlist

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jcodagnone/polyfix/spatial"
)

// tailSize is how much of an existing list is read to find its last index.
const tailSize = 512

// Writer appends rows to a list file, continuing the index of the rows
// already there.
type Writer struct {
	path string
	file *os.File
	csv  *csv.Writer
	next int
	rows int
}

// Append opens path for appending, creating it (and its directory) with a
// header when it does not exist or is empty. A missing .txt extension is
// added.
func Append(path string) (*Writer, error) {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		path += Extension
	}

	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	last, err := LastIndex(path)

	fresh := false

	switch {
	case errors.Is(err, os.ErrNotExist), IsEmptyFileError(err):
		fresh = true
		last = -1
	case err != nil:
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening list for writing: %w", err)
	}

	w := &Writer{path: path, file: f, csv: csv.NewWriter(f), next: last + 1}
	w.csv.Comma = '\t'

	if fresh {
		if err := w.csv.Write(Header); err != nil {
			f.Close()

			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	return w, nil
}

// Path returns the file being written, including the added extension.
func (w *Writer) Path() string {
	return w.path
}

// Rows returns the number of rows written through w.
func (w *Writer) Rows() int {
	return w.rows
}

// Write appends one row per node.
func (w *Writer) Write(nodes []spatial.Node) error {
	for _, n := range nodes {
		record := []string{
			strconv.Itoa(w.next),
			formatFloat(n.Lon),
			formatFloat(n.Lat),
			formatFloat(n.Alt),
			n.Label(),
		}

		if err := w.csv.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", w.next, err)
		}

		w.next++
		w.rows++
	}

	return nil
}

// Close flushes pending rows and closes the file.
func (w *Writer) Close() error {
	w.csv.Flush()

	return errors.Join(w.csv.Error(), w.file.Close())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// LastIndex returns the index of the last row of the list at path, or -1
// when the list only has a header.
func LastIndex(path string) (int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat list: %w", err)
	}

	if info.Size() == 0 {
		return 0, &Error{Type: ErrorTypeEmptyFile, Path: path}
	}

	offset := info.Size() - tailSize
	if offset < 0 {
		offset = 0
	}

	tail := make([]byte, info.Size()-offset)
	if _, err := f.ReadAt(tail, offset); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("reading list tail: %w", err)
	}

	lines := bytes.Split(bytes.TrimRight(tail, "\r\n"), []byte("\n"))
	last := strings.TrimSpace(string(lines[len(lines)-1]))

	if last == "" {
		return 0, &Error{Type: ErrorTypeEmptyFile, Path: path}
	}

	first, _, _ := strings.Cut(last, "\t")
	if isHeader([]string{first}) {
		return -1, nil
	}

	idx, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, &Error{Type: ErrorTypeMalformedRow, Path: path, Err: fmt.Errorf("last row index %q: %w", first, err)}
	}

	return idx, nil
}
