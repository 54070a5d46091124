// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"fmt"
	"io"

	"github.com/jcodagnone/polyfix/spatial"
	kml "github.com/twpayne/go-kml/v3"
)

// WriteKML renders placemarks as an indented KML document.
func WriteKML(w io.Writer, name string, placemarks []Placemark) error {
	children := make([]kml.Element, 0, len(placemarks)+1)
	children = append(children, kml.Name(name))

	for _, p := range placemarks {
		children = append(children, kml.Placemark(
			kml.Name(p.Name),
			kmlGeometry(p),
		))
	}

	if err := kml.KML(kml.Document(children...)).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("writing kml: %w", err)
	}

	return nil
}

func kmlGeometry(p Placemark) kml.Element {
	coords := kmlCoordinates(p.Nodes)

	switch p.Kind {
	case KindPoint:
		return kml.Point(coords)
	case KindPolygon:
		return kml.Polygon(kml.OuterBoundaryIs(kml.LinearRing(coords)))
	case KindLinearRing:
		return kml.LinearRing(coords)
	default:
		return kml.LineString(coords)
	}
}

func kmlCoordinates(nodes []spatial.Node) kml.CoordinatesElement {
	coords := make([]kml.Coordinate, len(nodes))
	for i, n := range nodes {
		coords[i] = kml.Coordinate{Lon: n.Lon, Lat: n.Lat, Alt: n.Alt}
	}

	return kml.Coordinates(coords...)
}
