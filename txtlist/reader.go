// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

// Package txtlist reads and writes the tab separated coordinate lists produced
// by the digitizing workflow.
//
// Each row carries an index, longitude, latitude, altitude and a name. Names
// of the form "N-M", with both parts numeric, identify piece M of feature N:
//
//	id	longitude	latitude	altitude	name
//	0	-56.1645	-34.9011	0	12-1
//	1	-56.1650	-34.9020	0	12-1
//	2	-56.1650	-34.9020	0	12-2
//
// Consecutive rows with the same feature name form one feature.
package txtlist

import (
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

// Extension is the file extension of list files.
const Extension = ".txt"

// Header is the column header written at the top of every list file.
var Header = []string{"id", "longitude", "latitude", "altitude", "name"}

const minColumns = 5

// Reader iterates over the features of a list file.
type Reader struct {
	path string
	file *os.File
	csv  *csv.Reader
	next *spatial.Node // first node of the following feature
	done bool
}

// Open validates path as a non empty list file and returns a Reader
// positioned after its header.
func Open(path string) (*Reader, error) {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return nil, &Error{Type: ErrorTypeNotTxtList, Path: path}
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening list: %w", err)
	}

	r := &Reader{path: path, file: f, csv: newCSVReader(f)}

	header, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		f.Close()

		return nil, &Error{Type: ErrorTypeEmptyFile, Path: path}
	}

	if err != nil {
		f.Close()

		return nil, &Error{Type: ErrorTypeBadHeader, Path: path, Line: 1, Err: err}
	}

	if !isHeader(header) || len(header) < minColumns {
		f.Close()

		return nil, &Error{
			Type: ErrorTypeBadHeader,
			Path: path,
			Line: 1,
			Err:  fmt.Errorf("got %q, expected %q", header, Header),
		}
	}

	return r, nil
}

func newCSVReader(rd io.Reader) *csv.Reader {
	c := csv.NewReader(rd)
	c.Comma = '\t'
	c.FieldsPerRecord = -1
	c.LazyQuotes = true

	return c
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.HasPrefix(strings.ToLower(strings.TrimSpace(record[0])), "id")
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Next returns the nodes of the next feature, or io.EOF when there are no
// more features.
func (r *Reader) Next() ([]spatial.Node, error) {
	if r.done && r.next == nil {
		return nil, io.EOF
	}

	var feature []spatial.Node

	if r.next != nil {
		feature = append(feature, *r.next)
		r.next = nil
	}

	for {
		n, err := r.readNode()
		if errors.Is(err, io.EOF) {
			r.done = true

			if len(feature) == 0 {
				return nil, io.EOF
			}

			return feature, nil
		}

		if err != nil {
			return nil, err
		}

		if len(feature) > 0 && feature[0].Name != n.Name {
			r.next = &n

			return feature, nil
		}

		feature = append(feature, n)
	}
}

func (r *Reader) readNode() (spatial.Node, error) {
	for {
		record, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return spatial.Node{}, io.EOF
			}

			return spatial.Node{}, &Error{Type: ErrorTypeMalformedRow, Path: r.path, Err: err}
		}

		if isHeader(record) {
			continue
		}

		line, _ := r.csv.FieldPos(0)

		n, err := ParseRow(record)
		if err != nil {
			return spatial.Node{}, &Error{Type: ErrorTypeMalformedRow, Path: r.path, Line: line, Err: err}
		}

		return n, nil
	}
}

// ParseRow converts one list record into a node.
func ParseRow(record []string) (spatial.Node, error) {
	if len(record) < minColumns {
		return spatial.Node{}, fmt.Errorf("expected %d columns, got %d", minColumns, len(record))
	}

	var (
		values [3]float64
		err    error
	)

	for i := range values {
		values[i], err = strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return spatial.Node{}, fmt.Errorf("parsing %s %q: %w", Header[i+1], record[i+1], err)
		}
	}

	name, sub := ParseName(record[len(record)-1])

	return spatial.Node{
		Lon:      values[0],
		Lat:      values[1],
		Alt:      values[2],
		Name:     name,
		SubLabel: sub,
	}, nil
}

// ParseName splits "N-M" into feature N and sub-label M when the first two
// dash separated parts are integers; anything after a second dash is ignored.
// Any other name is returned whole with an empty sub-label.
func ParseName(s string) (string, string) {
	s = strings.TrimSpace(s)

	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return s, ""
	}

	name, sub := parts[0], parts[1]

	if _, err := strconv.Atoi(name); err != nil {
		return s, ""
	}

	if _, err := strconv.Atoi(sub); err != nil {
		return s, ""
	}

	return name, sub
}

// Each calls fn with every feature of the list at path, in file order.
func Each(path string, fn func(feature []spatial.Node) error) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		feature, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		if err := fn(feature); err != nil {
			return err
		}
	}
}
