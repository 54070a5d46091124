// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package thinner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jcodagnone/polyfix/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(name string, coords ...[2]float64) []spatial.Node {
	ret := make([]spatial.Node, len(coords))
	for i, c := range coords {
		ret[i] = spatial.Node{Lon: c[0], Lat: c[1], Name: name}
	}

	return ret
}

func coordsOf(nodes []spatial.Node) [][2]float64 {
	ret := make([][2]float64, len(nodes))
	for i, n := range nodes {
		ret[i] = [2]float64{n.Lon, n.Lat}
	}

	return ret
}

func TestAngleAt(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  [2]float64
		expected float64
	}{
		{"straight", [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{2, 0}, 180},
		{"right", [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{1, 1}, 90},
		{"back", [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{0, 0}, 0},
		{"duplicate", [2]float64{0, 0}, [2]float64{0, 0}, [2]float64{1, 1}, 180},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := spatial.Node{Lon: tc.a[0], Lat: tc.a[1]}
			b := spatial.Node{Lon: tc.b[0], Lat: tc.b[1]}
			c := spatial.Node{Lon: tc.c[0], Lat: tc.c[1]}
			assert.InDelta(t, tc.expected, angleAt(a, b, c), 1e-5)
		})
	}
}

func TestReduceByAngle(t *testing.T) {
	nodes := line("road", [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{2, 0}, [2]float64{2, 1}, [2]float64{2, 2})

	got := Reduce(nodes, DefaultOptions())

	expected := []spatial.Node{nodes[0], nodes[2], nodes[4]}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Reduce mismatch (-expected +got):\n%s", diff)
	}
}

func TestReduceWeightedTolerance(t *testing.T) {
	nodes := line("path", [2]float64{0, 0}, [2]float64{0.001, 0}, [2]float64{0.002, 0.0001})

	opts := DefaultOptions()
	assert.Len(t, Reduce(nodes, opts), 3)

	opts.UseWeightedTolerance = true
	assert.Equal(t, [][2]float64{{0, 0}, {0.002, 0.0001}}, coordsOf(Reduce(nodes, opts)))
}

func TestReduceShortLines(t *testing.T) {
	nodes := line("p", [2]float64{0, 0}, [2]float64{1, 1})
	assert.Equal(t, nodes, Reduce(nodes, DefaultOptions()))
	assert.Empty(t, Reduce(nil, DefaultOptions()))
}

func TestReduceOrbSimplifiers(t *testing.T) {
	nodes := line("river", [2]float64{0, 0}, [2]float64{1, 1e-9}, [2]float64{2, 0}, [2]float64{3, 1}, [2]float64{4, 0})

	for _, algorithm := range []Algorithm{AlgorithmDouglasPeucker, AlgorithmVisvalingam} {
		t.Run(string(algorithm), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Algorithm = algorithm

			got := Reduce(nodes, opts)

			expected := []spatial.Node{nodes[0], nodes[2], nodes[3], nodes[4]}
			if diff := cmp.Diff(expected, got); diff != "" {
				t.Errorf("Reduce mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestReduceAreaToPoint(t *testing.T) {
	small := line("tree",
		[2]float64{0, 0}, [2]float64{0.00001, 0}, [2]float64{0.00001, 0.00001}, [2]float64{0, 0.00001}, [2]float64{0, 0})

	for i := range small {
		small[i].Alt = float64(i)
	}

	opts := DefaultOptions()
	assert.Greater(t, len(Reduce(small, opts)), 1)

	opts.ReduceAreaToPoint = true
	got := Reduce(small, opts)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.000005, got[0].Lon, 1e-9)
	assert.InDelta(t, 0.000005, got[0].Lat, 1e-9)
	assert.InDelta(t, 2.0, got[0].Alt, 1e-9)
	assert.Equal(t, "tree", got[0].Name)

	big := line("lake", [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{1, 1}, [2]float64{0, 1}, [2]float64{0, 0})
	assert.Len(t, Reduce(big, opts), 5)
}

func TestReduceFeatureKeepsRunsApart(t *testing.T) {
	feature := []spatial.Node{
		{Lon: 0, Lat: 0, Name: "3", SubLabel: "1"},
		{Lon: 1, Lat: 0, Name: "3", SubLabel: "1"},
		{Lon: 2, Lat: 0, Name: "3", SubLabel: "1"},
		{Lon: 2, Lat: 0, Name: "3", SubLabel: "2"},
		{Lon: 2, Lat: 5, Name: "3", SubLabel: "2"},
	}

	got := ReduceFeature(feature, DefaultOptions())

	require.Len(t, got, 2)
	assert.Equal(t, [][2]float64{{0, 0}, {2, 0}}, coordsOf(got[0]))
	assert.Equal(t, [][2]float64{{2, 0}, {2, 5}}, coordsOf(got[1]))
}

func TestOptions(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	bad := DefaultOptions()
	bad.Algorithm = "spline"
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.Tolerance = -1
	assert.Error(t, bad.Validate())

	dir := t.TempDir()

	opts, err := LoadOptions(filepath.Join(dir, "missing.json"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)

	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"algorithm":"dp","tolerance":0.5}`), 0o600))

	opts, err = LoadOptions(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, AlgorithmDouglasPeucker, opts.Algorithm)
	assert.InDelta(t, 0.5, opts.Tolerance, 0)
	assert.InDelta(t, 1.0, opts.AllowedAngleDeviation, 0)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err = LoadOptions(path, DefaultOptions())
	assert.Error(t, err)
}
