// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"fmt"
	"io"

	"github.com/jcodagnone/polyfix/spatial"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// WriteGeoJSON renders placemarks as a FeatureCollection. GeoJSON has no
// linear ring type, so rings that are not areas become closed LineStrings.
// Altitudes are kept in an "altitudes" property.
func WriteGeoJSON(w io.Writer, placemarks []Placemark) error {
	fc := geojson.NewFeatureCollection()

	for _, p := range placemarks {
		f := geojson.NewFeature(Geometry(p))
		f.Properties["name"] = p.Name
		f.Properties["kind"] = p.Kind.String()
		f.Properties["altitudes"] = altitudes(p.Nodes)

		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing geojson: %w", err)
	}

	return nil
}

// Geometry converts a placemark into an orb geometry.
func Geometry(p Placemark) orb.Geometry {
	switch p.Kind {
	case KindPoint:
		return p.Nodes[0].OrbPoint()
	case KindPolygon:
		return orb.Polygon{orb.Ring(lineString(p.Nodes))}
	default:
		return lineString(p.Nodes)
	}
}

func lineString(nodes []spatial.Node) orb.LineString {
	ls := make(orb.LineString, len(nodes))
	for i, n := range nodes {
		ls[i] = n.OrbPoint()
	}

	return ls
}

func altitudes(nodes []spatial.Node) []float64 {
	ret := make([]float64, len(nodes))
	for i, n := range nodes {
		ret[i] = n.Alt
	}

	return ret
}
