// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

// Package export converts coordinate lists into KML or GeoJSON documents.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jcodagnone/polyfix/spatial"
	"github.com/jcodagnone/polyfix/txtlist"
)

// Format selects the output document type.
type Format string

const (
	FormatKML     Format = "kml"
	FormatGeoJSON Format = "geojson"
)

// Extension returns the file extension for f.
func (f Format) Extension() string {
	if f == FormatGeoJSON {
		return ".geojson"
	}

	return ".kml"
}

// ParseFormat accepts "kml" or "geojson", case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatKML, FormatGeoJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Kind is the geometry a run of nodes is exported as.
type Kind int

const (
	KindPoint Kind = iota
	KindLineString
	KindLinearRing
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLineString:
		return "LineString"
	case KindLinearRing:
		return "LinearRing"
	case KindPolygon:
		return "Polygon"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Placemark is one named geometry of a document.
type Placemark struct {
	Name  string
	Kind  Kind
	Nodes []spatial.Node
}

// IsAreaFile reports whether rings read from path describe areas, which is
// the case when the file basename ends with "area".
func IsAreaFile(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return strings.HasSuffix(strings.ToLower(base), "area")
}

// KindOf classifies a run of nodes.
func KindOf(nodes []spatial.Node, areas bool) Kind {
	switch {
	case len(nodes) == 1:
		return KindPoint
	case len(nodes) > 3 && nodes[0].Key() == nodes[len(nodes)-1].Key():
		if areas {
			return KindPolygon
		}

		return KindLinearRing
	default:
		return KindLineString
	}
}

// Placemarks splits a feature into one placemark per label, in
// first-appearance order.
func Placemarks(feature []spatial.Node, areas bool) []Placemark {
	var ret []Placemark

	index := make(map[string]int)

	for _, n := range feature {
		label := n.Label()

		i, ok := index[label]
		if !ok {
			i = len(ret)
			index[label] = i
			ret = append(ret, Placemark{Name: label})
		}

		ret[i].Nodes = append(ret[i].Nodes, n)
	}

	for i := range ret {
		ret[i].Kind = KindOf(ret[i].Nodes, areas)
	}

	return ret
}

// ReadPlacemarks reads every feature of the list at path.
func ReadPlacemarks(path string) ([]Placemark, error) {
	var ret []Placemark

	areas := IsAreaFile(path)

	err := txtlist.Each(path, func(feature []spatial.Node) error {
		ret = append(ret, Placemarks(feature, areas)...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// Write renders placemarks as a document of the given format.
func Write(w io.Writer, format Format, name string, placemarks []Placemark) error {
	switch format {
	case FormatGeoJSON:
		return WriteGeoJSON(w, placemarks)
	case FormatKML:
		return WriteKML(w, name, placemarks)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
