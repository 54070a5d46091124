// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

// Package spatial holds the coordinate values shared by the stitcher, the
// readers and the writers.
package spatial

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// keyDigits is the number of fractional digits kept when deriving a Key.
const keyDigits = 8

// relTolerance is the relative tolerance used by NodesEqual.
const relTolerance = 1e-9

// Key identifies a joinable horizontal position. Two nodes with the same Key
// can be joined regardless of their altitude or names.
type Key string

// Node is one digitized vertex. Nodes are values and are never mutated once
// read.
type Node struct {
	Lon      float64 `json:"lon"`
	Lat      float64 `json:"lat"`
	Alt      float64 `json:"alt"`
	Name     string  `json:"name"`
	SubLabel string  `json:"sub_label,omitempty"`
}

// Identity returns the join key of the node.
func Identity(n Node) Key {
	return Key(formatRounded(n.Lon) + "," + formatRounded(n.Lat))
}

// Key is a shorthand for Identity(n).
func (n Node) Key() Key {
	return Identity(n)
}

// Point returns the horizontal position of the node.
func (n Node) Point() Point {
	return Point{Lat: n.Lat, Lng: n.Lon}
}

// OrbPoint returns the horizontal position as an orb point.
func (n Node) OrbPoint() orb.Point {
	return orb.Point{n.Lon, n.Lat}
}

// Label returns the name as written in list files: "name" or "name-sublabel".
func (n Node) Label() string {
	if n.SubLabel == "" {
		return n.Name
	}

	return n.Name + "-" + n.SubLabel
}

func formatRounded(v float64) string {
	scale := math.Pow10(keyDigits)
	r := math.Round(v*scale) / scale
	if r == 0 {
		r = 0 // -0 formats as "-0"
	}

	return strconv.FormatFloat(r, 'f', -1, 64)
}

// NodesEqual reports whether two nodes describe the same vertex. Coordinates
// and altitude are compared with a relative tolerance; names are only
// compared when checkName is set.
func NodesEqual(a, b Node, checkName bool) bool {
	equal := isClose(a.Lat, b.Lat) && isClose(a.Lon, b.Lon) && isClose(a.Alt, b.Alt)

	if checkName {
		equal = equal && a.Name == b.Name && a.SubLabel == b.SubLabel
	}

	return equal
}

// DedupeNodes drops consecutive repetitions of the same node. The input slice
// is returned as is when it has no repetitions.
func DedupeNodes(nodes []Node) []Node {
	if len(nodes) < 2 {
		return nodes
	}

	dupe := false

	for i := 1; i < len(nodes); i++ {
		if NodesEqual(nodes[i-1], nodes[i], true) {
			dupe = true

			break
		}
	}

	if !dupe {
		return nodes
	}

	ret := make([]Node, 0, len(nodes))
	ret = append(ret, nodes[0])

	for i := 1; i < len(nodes); i++ {
		if NodesEqual(nodes[i-1], nodes[i], true) {
			continue
		}

		ret = append(ret, nodes[i])
	}

	return ret
}

// isClose compares with a relative tolerance and no absolute floor.
func isClose(a, b float64) bool {
	if a == b {
		return true
	}

	diff := math.Abs(a - b)

	return diff <= relTolerance*math.Max(math.Abs(a), math.Abs(b))
}
