// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package stitch

import (
	"sort"

	"github.com/jcodagnone/polyfix/spatial"
)

// entry is one registered chain. The same entry is reachable from the keys of
// both of its endpoints.
type entry struct {
	chain Chain
	seq   int
}

// registry maps an endpoint key to the chain currently terminating there.
// It belongs to a single Stitch call.
type registry struct {
	byKey map[spatial.Key]*entry
	seq   int
}

func newRegistry(capacity int) *registry {
	return &registry{byKey: make(map[spatial.Key]*entry, 2*capacity)}
}

func (r *registry) has(key spatial.Key) bool {
	_, ok := r.byKey[key]

	return ok
}

// add registers c under both of its endpoint keys, replacing whatever was
// registered there.
func (r *registry) add(c Chain) *entry {
	r.seq++
	e := &entry{chain: c, seq: r.seq}
	r.byKey[c.Left()] = e
	r.byKey[c.Right()] = e

	return e
}

// take removes key and returns the chain that was registered under it. The
// chain stays reachable from its other endpoint until that key is replaced
// or removed.
func (r *registry) take(key spatial.Key) (Chain, bool) {
	e, ok := r.byKey[key]
	if !ok {
		return nil, false
	}

	delete(r.byKey, key)

	return e.chain, true
}

// removeIfPresent deletes key. Removing an absent key is a no-op: joins at a
// coordinate shared by several chains routinely consume a key early.
func (r *registry) removeIfPresent(key spatial.Key) {
	delete(r.byKey, key)
}

// release unregisters e from both endpoint keys, leaving keys that already
// point to another entry alone.
func (r *registry) release(e *entry) {
	for _, key := range []spatial.Key{e.chain.Left(), e.chain.Right()} {
		if r.byKey[key] == e {
			r.removeIfPresent(key)
		}
	}
}

// drain empties the registry and returns every resident chain once, in the
// order the chains were registered.
func (r *registry) drain() []Chain {
	seen := make(map[*entry]struct{}, len(r.byKey))
	entries := make([]*entry, 0, len(r.byKey))

	for key, e := range r.byKey {
		delete(r.byKey, key)

		if _, ok := seen[e]; ok {
			continue
		}

		seen[e] = struct{}{}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	ret := make([]Chain, len(entries))
	for i, e := range entries {
		ret[i] = e.chain
	}

	return ret
}

func (r *registry) size() int {
	return len(r.byKey)
}
