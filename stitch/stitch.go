// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

// Package stitch rebuilds polygon rings that were digitized as several
// disconnected chains sharing coordinates at their joints.
//
// Chains are joined at matching endpoint keys (see spatial.Identity), in the
// order they are given. The result for a given input is deterministic, but it
// is not topology aware: when three or more chains meet at the same
// coordinate, which ones end up joined depends on the input order. Those
// coordinates are reported in Result.Junctions so callers can flag them.
package stitch

import (
	"github.com/jcodagnone/polyfix/spatial"
)

// Result is the outcome of stitching one group of chains.
type Result struct {
	// Completed holds the closed rings, in the order they closed.
	Completed []Chain `json:"completed"`
	// Residual holds chains that could not be closed.
	Residual []Chain `json:"residual"`
	// Joins is the number of joints merged; each one removed a duplicated node.
	Joins int `json:"joins"`
	// Junctions lists keys where more than two chain ends met.
	Junctions []spatial.Key `json:"junctions,omitempty"`
}

// Stitch joins chains at shared endpoints and splits the outcome into closed
// rings and leftover open chains. Empty chains are ignored. Stitch keeps no
// state between calls and is safe for concurrent use.
func Stitch(chains []Chain) Result {
	s := &stitcher{
		reg:      newRegistry(len(chains)),
		consumed: make(map[spatial.Key]bool),
		flagged:  make(map[spatial.Key]bool),
	}

	for _, c := range chains {
		if len(c) == 0 {
			continue
		}

		s.push(c)
	}

	s.res.Residual = append(s.res.Residual, s.reg.drain()...)

	return s.res
}

type stitcher struct {
	reg      *registry
	res      Result
	consumed map[spatial.Key]bool // keys already used as a joint
	flagged  map[spatial.Key]bool // keys already reported as junctions
}

func (s *stitcher) push(c Chain) {
	left, right := c.Left(), c.Right()
	s.checkJunction(left)
	s.checkJunction(right)

	if !s.reg.has(left) && !s.reg.has(right) {
		s.sweep(s.reg.add(c))

		return
	}

	// Joins always attach on the left.
	if s.reg.has(right) && !s.reg.has(left) {
		c = c.Reversed()
		left, right = right, left
	}

	thisRing, _ := s.reg.take(left)
	merged := thisRing.endingAt(left).joined(c)
	s.joint(left)

	if s.reg.has(right) && !merged.EndsMatch() {
		rightRing, _ := s.reg.take(right)
		merged = merged.joined(rightRing.startingAt(right))
		s.joint(right)
	}

	if s.reg.has(right) {
		// Only a stale registration of thisRing can be left here: merged
		// closed on it. Closing keeps both end nodes, so it is not a join.
		s.reg.removeIfPresent(right)
		s.consumed[right] = true
	}

	s.sweep(s.reg.add(merged))
}

// sweep moves e out of the registry once its chain ends where it starts.
// Every other resident chain was checked when it was registered, so e is the
// only candidate.
func (s *stitcher) sweep(e *entry) {
	if !e.chain.EndsMatch() {
		return
	}

	s.reg.release(e)

	if e.chain.Closed() {
		s.res.Completed = append(s.res.Completed, e.chain)
	} else {
		s.res.Residual = append(s.res.Residual, e.chain)
	}
}

func (s *stitcher) joint(key spatial.Key) {
	s.res.Joins++
	s.consumed[key] = true
}

// checkJunction flags key when a chain arrives at a joint that was already
// used by two other chain ends.
func (s *stitcher) checkJunction(key spatial.Key) {
	if !s.consumed[key] || s.flagged[key] {
		return
	}

	s.flagged[key] = true
	s.res.Junctions = append(s.res.Junctions, key)
}
