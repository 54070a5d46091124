// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package stitch

import (
	"github.com/jcodagnone/polyfix/spatial"
)

// minRingNodes is the smallest number of nodes a closed chain needs to be
// emitted as a ring.
const minRingNodes = 4

// Chain is an ordered run of nodes recorded as one line fragment. A Chain
// handed to Stitch must not be modified afterwards; every operation here
// returns a new slice.
type Chain []spatial.Node

// Left returns the key of the first node.
func (c Chain) Left() spatial.Key {
	return c[0].Key()
}

// Right returns the key of the last node.
func (c Chain) Right() spatial.Key {
	return c[len(c)-1].Key()
}

// EndsMatch reports whether both endpoints share a key, regardless of length.
func (c Chain) EndsMatch() bool {
	return len(c) > 0 && c.Left() == c.Right()
}

// Closed reports whether c is a usable ring.
func (c Chain) Closed() bool {
	return len(c) >= minRingNodes && c.EndsMatch()
}

// Reversed returns a copy of c in the opposite direction.
func (c Chain) Reversed() Chain {
	ret := make(Chain, len(c))
	for i, n := range c {
		ret[len(c)-1-i] = n
	}

	return ret
}

// joined returns c followed by next without next's first node, the joint
// both chains share.
func (c Chain) joined(next Chain) Chain {
	ret := make(Chain, 0, len(c)+len(next)-1)
	ret = append(ret, c...)

	return append(ret, next[1:]...)
}

// endingAt returns c oriented so its last node sits on key.
func (c Chain) endingAt(key spatial.Key) Chain {
	if c.Right() == key {
		return c
	}

	return c.Reversed()
}

// startingAt returns c oriented so its first node sits on key.
func (c Chain) startingAt(key spatial.Key) Chain {
	if c.Left() == key {
		return c
	}

	return c.Reversed()
}

// CountNodes returns the number of nodes across all chains.
func CountNodes(chains []Chain) int {
	n := 0
	for _, c := range chains {
		n += len(c)
	}

	return n
}
