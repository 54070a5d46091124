// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

// Package thinner removes redundant points from digitized lines.
package thinner

import (
	"math"

	"github.com/jcodagnone/polyfix/spatial"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// straightAngle is returned for points that do not define a turn.
const straightAngle = 180

// ReduceFeature thins every named run of a feature independently. Runs are
// keyed by the full label ("name-sub") and returned in first-appearance order.
func ReduceFeature(feature []spatial.Node, opts Options) [][]spatial.Node {
	var order []string

	runs := make(map[string][]spatial.Node)

	for _, n := range feature {
		label := n.Label()
		if _, ok := runs[label]; !ok {
			order = append(order, label)
		}

		runs[label] = append(runs[label], n)
	}

	ret := make([][]spatial.Node, 0, len(order))
	for _, label := range order {
		ret = append(ret, Reduce(runs[label], opts))
	}

	return ret
}

// Reduce thins one line. The first and last nodes are always kept.
func Reduce(nodes []spatial.Node, opts Options) []spatial.Node {
	if opts.ReduceAreaToPoint {
		if p, ok := areaToPoint(nodes, opts.AreaToPointThreshold); ok {
			return []spatial.Node{p}
		}
	}

	if len(nodes) < 3 {
		return nodes
	}

	switch opts.Algorithm {
	case AlgorithmDouglasPeucker:
		return simplified(nodes, simplify.DouglasPeucker(opts.Tolerance))
	case AlgorithmVisvalingam:
		return simplified(nodes, simplify.VisvalingamThreshold(opts.Tolerance))
	default:
		return byAngle(nodes, opts)
	}
}

func byAngle(nodes []spatial.Node, opts Options) []spatial.Node {
	ret := make([]spatial.Node, 0, len(nodes))
	ret = append(ret, nodes[0])
	prev := nodes[0] // last kept node

	for i := 1; i < len(nodes)-1; i++ {
		cur, next := nodes[i], nodes[i+1]

		if turns(prev, cur, next, opts) {
			ret = append(ret, cur)
			prev = cur
		}
	}

	return append(ret, nodes[len(nodes)-1])
}

// turns reports whether cur deviates from the prev-next line by more than
// the allowed angle.
func turns(prev, cur, next spatial.Node, opts Options) bool {
	deviation := straightAngle - angleAt(prev, cur, next)
	allowed := opts.AllowedAngleDeviation

	if opts.UseWeightedTolerance {
		if d := distance(prev, next); d <= opts.MaxDistanceForWeighting {
			// short spans tolerate sharper turns
			allowed = linearConversion(d, 0, opts.MaxDistanceForWeighting, opts.MaxAngleForWeighting, opts.AllowedAngleDeviation)
		}
	}

	return deviation > allowed
}

func linearConversion(v, oldMin, oldMax, newMin, newMax float64) float64 {
	if oldMax-oldMin == 0 {
		return newMin
	}

	return (v-oldMin)*(newMax-newMin)/(oldMax-oldMin) + newMin
}

// distance is the euclidean distance over longitude, latitude and altitude.
func distance(a, b spatial.Node) float64 {
	dx, dy, dz := b.Lon-a.Lon, b.Lat-a.Lat, b.Alt-a.Alt

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// angleAt returns the angle in degrees at b of the triangle abc.
func angleAt(a, b, c spatial.Node) float64 {
	ab, bc, ac := distance(a, b), distance(b, c), distance(a, c)

	denominator := 2 * ab * bc
	if denominator == 0 {
		// duplicated points lie on the line
		return straightAngle
	}

	cos := roundTo((ab*ab+bc*bc-ac*ac)/denominator, 6)

	return roundTo(math.Acos(cos)*180/math.Pi, 5)
}

func roundTo(v float64, digits int) float64 {
	scale := math.Pow10(digits)

	return math.Round(v*scale) / scale
}

// simplified runs an orb simplifier and maps the surviving points back to
// the original nodes, keeping their altitude and labels.
func simplified(nodes []spatial.Node, s orb.Simplifier) []spatial.Node {
	ls := make(orb.LineString, len(nodes))
	for i, n := range nodes {
		ls[i] = n.OrbPoint()
	}

	kept, ok := s.Simplify(ls.Clone()).(orb.LineString)
	if !ok {
		return nodes
	}

	ret := make([]spatial.Node, 0, len(kept))
	j := 0

	for _, p := range kept {
		for j < len(nodes) && (nodes[j].Lon != p[0] || nodes[j].Lat != p[1]) {
			j++
		}

		if j == len(nodes) {
			break
		}

		ret = append(ret, nodes[j])
		j++
	}

	return ret
}

// areaToPoint collapses a closed ring enclosing less than threshold square
// meters into a single node at its centroid.
func areaToPoint(nodes []spatial.Node, threshold float64) (spatial.Node, bool) {
	if len(nodes) < 4 || nodes[0].Key() != nodes[len(nodes)-1].Key() {
		return spatial.Node{}, false
	}

	ring := make(orb.Ring, len(nodes))
	alt := 0.0

	for i, n := range nodes {
		ring[i] = n.OrbPoint()
		alt += n.Alt
	}

	if math.Abs(geo.Area(ring)) >= threshold {
		return spatial.Node{}, false
	}

	centroid, _ := planar.CentroidArea(ring)

	return spatial.Node{
		Lon:      centroid.Lon(),
		Lat:      centroid.Lat(),
		Alt:      alt / float64(len(nodes)),
		Name:     nodes[0].Name,
		SubLabel: nodes[0].SubLabel,
	}, true
}
