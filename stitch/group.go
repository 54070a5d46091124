// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package stitch

import (
	"errors"

	"github.com/jcodagnone/polyfix/spatial"
)

// minGroupNodes is the smallest feature worth stitching.
const minGroupNodes = 3

// ErrEmptyFeature is returned when a feature carries no nodes at all.
var ErrEmptyFeature = errors.New("feature has no nodes")

// Grouping splits a feature into the chains to stitch and the chains that
// bypass the stitcher.
type Grouping struct {
	// Chains are the per sub-label chains, in first-appearance order.
	Chains []Chain
	// PassThrough are nodes that cannot be stitched, kept in input order.
	PassThrough []Chain
}

// Stitchable reports whether there is anything to hand to Stitch.
func (g Grouping) Stitchable() bool {
	return len(g.Chains) > 0
}

// Group partitions the nodes of one feature by sub-label. Features with fewer
// than three nodes, or without any sub-label, are passed through untouched as
// a single chain. Unlabelled nodes inside a labelled feature are collected
// into one pass-through chain.
func Group(nodes []spatial.Node) (Grouping, error) {
	if len(nodes) == 0 {
		return Grouping{}, ErrEmptyFeature
	}

	if len(nodes) < minGroupNodes || !anyLabelled(nodes) {
		return Grouping{PassThrough: []Chain{Chain(nodes)}}, nil
	}

	var (
		order     []string
		bySub     = make(map[string]Chain)
		unlabeled Chain
	)

	for _, n := range nodes {
		if n.SubLabel == "" {
			unlabeled = append(unlabeled, n)

			continue
		}

		if _, ok := bySub[n.SubLabel]; !ok {
			order = append(order, n.SubLabel)
		}

		bySub[n.SubLabel] = append(bySub[n.SubLabel], n)
	}

	g := Grouping{Chains: make([]Chain, 0, len(order))}
	for _, sub := range order {
		g.Chains = append(g.Chains, bySub[sub])
	}

	if len(unlabeled) > 0 {
		g.PassThrough = []Chain{unlabeled}
	}

	return g, nil
}

func anyLabelled(nodes []spatial.Node) bool {
	for _, n := range nodes {
		if n.SubLabel != "" {
			return true
		}
	}

	return false
}

// Feature groups and stitches one feature. Pass-through chains are appended
// to the residual chains after the stitched ones.
func Feature(nodes []spatial.Node) (Result, error) {
	g, err := Group(nodes)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if g.Stitchable() {
		res = Stitch(g.Chains)
	}

	res.Residual = append(res.Residual, g.PassThrough...)

	return res, nil
}
