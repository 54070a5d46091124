// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jcodagnone/polyfix/spatial"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const list = "id\tlongitude\tlatitude\taltitude\tname\n" +
	"0\t0\t0\t1\t1-1\n" +
	"1\t1\t0\t1\t1-1\n" +
	"2\t1\t1\t1\t1-1\n" +
	"3\t0\t0\t1\t1-1\n" +
	"4\t5\t5\t0\t1-2\n" +
	"5\t6\t6\t0\t1-2\n" +
	"6\t9\t9\t2\ttree\n"

func TestIsAreaFile(t *testing.T) {
	assert.True(t, IsAreaFile("/data/forest_area.txt"))
	assert.True(t, IsAreaFile("Lakes-AREA.txt"))
	assert.False(t, IsAreaFile("roads.txt"))
	assert.False(t, IsAreaFile("area/roads.txt"))
}

func TestKindOf(t *testing.T) {
	ring := []spatial.Node{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 0}}

	tests := []struct {
		name     string
		nodes    []spatial.Node
		areas    bool
		expected Kind
	}{
		{"point", ring[:1], false, KindPoint},
		{"segment", ring[:2], true, KindLineString},
		{"open", ring[:3], true, KindLineString},
		{"ring", ring, false, KindLinearRing},
		{"area", ring, true, KindPolygon},
		{"closed triangle too short", []spatial.Node{ring[0], ring[1], ring[0]}, true, KindLineString},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, KindOf(tc.nodes, tc.areas))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" GeoJSON")
	require.NoError(t, err)
	assert.Equal(t, FormatGeoJSON, f)
	assert.Equal(t, ".geojson", f.Extension())

	f, err = ParseFormat("kml")
	require.NoError(t, err)
	assert.Equal(t, ".kml", f.Extension())

	_, err = ParseFormat("shp")
	assert.Error(t, err)
}

func readList(t *testing.T, name string) []Placemark {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(list), 0o600))

	placemarks, err := ReadPlacemarks(path)
	require.NoError(t, err)

	return placemarks
}

func TestReadPlacemarks(t *testing.T) {
	placemarks := readList(t, "lakes_area.txt")

	require.Len(t, placemarks, 3)
	assert.Equal(t, "1-1", placemarks[0].Name)
	assert.Equal(t, KindPolygon, placemarks[0].Kind)
	assert.Equal(t, "1-2", placemarks[1].Name)
	assert.Equal(t, KindLineString, placemarks[1].Kind)
	assert.Equal(t, "tree", placemarks[2].Name)
	assert.Equal(t, KindPoint, placemarks[2].Kind)
}

func TestWriteKML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, FormatKML, "lakes", readList(t, "lakes_area.txt")))

	doc := buf.String()
	assert.Contains(t, doc, "<name>lakes</name>")
	assert.Contains(t, doc, "<name>1-1</name>")
	assert.Contains(t, doc, "<outerBoundaryIs>")
	assert.Contains(t, doc, "<LineString>")
	assert.Contains(t, doc, "<Point>")
	assert.Equal(t, 3, strings.Count(doc, "<Placemark>"))

	buf.Reset()
	require.NoError(t, Write(&buf, FormatKML, "lakes", readList(t, "lakes.txt")))
	assert.NotContains(t, buf.String(), "<Polygon>")
	assert.Contains(t, buf.String(), "<LinearRing>")
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, FormatGeoJSON, "lakes", readList(t, "lakes_area.txt")))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)

	assert.Equal(t, orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, fc.Features[0].Geometry)
	assert.Equal(t, "1-1", fc.Features[0].Properties.MustString("name"))
	assert.Equal(t, "Polygon", fc.Features[0].Properties.MustString("kind"))
	assert.Equal(t, orb.LineString{{5, 5}, {6, 6}}, fc.Features[1].Geometry)
	assert.Equal(t, orb.Point{9, 9}, fc.Features[2].Geometry)
}
