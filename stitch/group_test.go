// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package stitch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jcodagnone/polyfix/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(lon, lat float64, name, sub string) spatial.Node {
	return spatial.Node{Lon: lon, Lat: lat, Name: name, SubLabel: sub}
}

func TestGroup(t *testing.T) {
	t.Run("empty feature", func(t *testing.T) {
		_, err := Group(nil)
		assert.ErrorIs(t, err, ErrEmptyFeature)
	})

	t.Run("single unlabeled point passes through", func(t *testing.T) {
		nodes := []spatial.Node{node(3, 4, "9", "")}

		g, err := Group(nodes)
		require.NoError(t, err)
		assert.False(t, g.Stitchable())
		assert.Equal(t, []Chain{Chain(nodes)}, g.PassThrough)
	})

	t.Run("too few nodes even if labelled", func(t *testing.T) {
		nodes := []spatial.Node{node(1, 1, "2", "1"), node(1, 2, "2", "2")}

		g, err := Group(nodes)
		require.NoError(t, err)
		assert.False(t, g.Stitchable())
		assert.Equal(t, []Chain{Chain(nodes)}, g.PassThrough)
	})

	t.Run("no sub label passes through", func(t *testing.T) {
		nodes := []spatial.Node{node(1, 1, "road", ""), node(1, 2, "road", ""), node(1, 3, "road", "")}

		g, err := Group(nodes)
		require.NoError(t, err)
		assert.False(t, g.Stitchable())
		assert.Equal(t, []Chain{Chain(nodes)}, g.PassThrough)
	})

	t.Run("partition preserves first appearance and inner order", func(t *testing.T) {
		nodes := []spatial.Node{
			node(1, 1, "1", "2"),
			node(2, 2, "1", "1"),
			node(1, 2, "1", "2"),
			node(2, 3, "1", "1"),
			node(9, 9, "1", ""),
		}

		g, err := Group(nodes)
		require.NoError(t, err)

		expected := Grouping{
			Chains: []Chain{
				{nodes[0], nodes[2]},
				{nodes[1], nodes[3]},
			},
			PassThrough: []Chain{{nodes[4]}},
		}

		if diff := cmp.Diff(expected, g); diff != "" {
			t.Errorf("grouping mismatch (-expected +got):\n%s", diff)
		}
	})
}

func TestFeature(t *testing.T) {
	t.Run("three chains one unclosable", func(t *testing.T) {
		nodes := []spatial.Node{
			node(1, 1, "1", "1"), node(1, 4, "1", "1"), node(1, 8, "1", "1"),
			node(10, 8, "1", "3"), node(5, 8, "1", "3"), node(5, 1, "1", "3"), node(10, 9, "1", "3"),
			node(1, 8, "1", "2"), node(5, 8, "1", "2"), node(5, 1, "1", "2"), node(1, 1, "1", "2"),
		}

		res, err := Feature(nodes)
		require.NoError(t, err)

		expectedCompleted := []Chain{
			{nodes[0], nodes[1], nodes[2], nodes[8], nodes[9], nodes[10]},
		}
		expectedResidual := []Chain{
			{nodes[3], nodes[4], nodes[5], nodes[6]},
		}

		if diff := cmp.Diff(expectedCompleted, res.Completed); diff != "" {
			t.Errorf("completed mismatch (-expected +got):\n%s", diff)
		}

		if diff := cmp.Diff(expectedResidual, res.Residual); diff != "" {
			t.Errorf("residual mismatch (-expected +got):\n%s", diff)
		}
	})

	t.Run("unlabeled single point bypasses the stitcher", func(t *testing.T) {
		nodes := []spatial.Node{node(3, 4, "point", "")}

		res, err := Feature(nodes)
		require.NoError(t, err)
		assert.Empty(t, res.Completed)
		assert.Equal(t, []Chain{Chain(nodes)}, res.Residual)
		assert.Zero(t, res.Joins)
	})

	t.Run("unlabeled nodes follow stitched residuals", func(t *testing.T) {
		nodes := []spatial.Node{
			node(0, 0, "1", "1"), node(1, 0, "1", "1"),
			node(7, 7, "1", ""),
			node(1, 0, "1", "2"), node(1, 1, "1", "2"), node(0, 0, "1", "2"),
		}

		res, err := Feature(nodes)
		require.NoError(t, err)
		require.Len(t, res.Completed, 1)
		assert.Equal(t, []Chain{{nodes[2]}}, res.Residual)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Feature(nil)
		assert.ErrorIs(t, err, ErrEmptyFeature)
	})
}
