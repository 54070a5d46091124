// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists stitched chains in a DuckDB database.
package store

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/jcodagnone/polyfix/spatial"
	"github.com/jcodagnone/polyfix/stitch"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/planar"
	"github.com/uber/h3-go/v4"
)

// h3Resolution is the cell resolution stored for every chain centroid.
const h3Resolution = 7

// Kind tells completed rings apart from residual chains.
type Kind string

const (
	KindCompleted Kind = "completed"
	KindResidual  Kind = "residual"
)

// Chain is one stored chain.
type Chain struct {
	File      string        `json:"file"`
	Feature   string        `json:"feature"`
	SubLabel  string        `json:"sub_label"` // distinct sub-labels of the nodes, comma separated
	Kind      Kind          `json:"kind"`
	Position  int           `json:"position"` // order within the feature
	NodeCount int           `json:"node_count"`
	WKT       string        `json:"wkt"`
	Centroid  spatial.Point `json:"centroid"`
	H3Res7    int64         `json:"-"`
}

func (c *Chain) computeH3(g orb.Geometry) error {
	centroid, _ := planar.CentroidArea(g)
	if math.IsNaN(centroid.Lat()) || math.IsNaN(centroid.Lon()) {
		// zero-area rings
		centroid = g.Bound().Center()
	}

	c.Centroid = spatial.Point{Lat: centroid.Lat(), Lng: centroid.Lon()}

	cell, err := h3.LatLngToCell(h3.NewLatLng(centroid.Lat(), centroid.Lon()), h3Resolution)
	if err != nil {
		return fmt.Errorf("error converting to h3 cell at res %d: %w", h3Resolution, err)
	}

	c.H3Res7 = int64(cell)

	return nil
}

// FileSummary aggregates the chains stored for one file.
type FileSummary struct {
	File      string `json:"file"`
	Features  int    `json:"features"`
	Completed int    `json:"completed"`
	Residual  int    `json:"residual"`
	Nodes     int    `json:"nodes"`
}

// ChainRepository handles persistence of stitched chains.
type ChainRepository interface {
	// CreateSchema creates the stitched_chains table
	CreateSchema() error

	// ReplaceFile drops every chain stored for file and inserts chains
	ReplaceFile(file string, chains []*Chain) error

	// ListChains returns the chains of file in feature order
	ListChains(file string) ([]*Chain, error)

	// Summary returns per-file counts sorted by file
	Summary() ([]*FileSummary, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlChainRepository struct {
	db *sql.DB
	mu sync.Mutex // serializes writers from the fix worker pool
}

// NewChainRepository creates a new chain repository.
func NewChainRepository(db *sql.DB) ChainRepository {
	return &sqlChainRepository{db: db}
}

func (r *sqlChainRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlChainRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS stitched_chains_seq START 1;

		CREATE TABLE IF NOT EXISTS stitched_chains (
			id INTEGER PRIMARY KEY DEFAULT nextval('stitched_chains_seq'),
			file VARCHAR NOT NULL,
			feature VARCHAR NOT NULL,
			sub_label VARCHAR NOT NULL,
			kind VARCHAR NOT NULL,
			position INTEGER NOT NULL,
			node_count INTEGER NOT NULL,
			wkt VARCHAR NOT NULL,
			centroid VARCHAR NOT NULL,
			h3_res7 UBIGINT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)

	return err
}

func (r *sqlChainRepository) ReplaceFile(file string, chains []*Chain) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM stitched_chains WHERE file = ?`, file); err != nil {
		return rollback(tx, fmt.Errorf("deleting chains of %s: %w", file, err))
	}

	stmt, err := tx.Prepare(`
		INSERT INTO stitched_chains(
			file,
			feature,
			sub_label,
			kind,
			position,
			node_count,
			wkt,
			centroid,
			h3_res7
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return rollback(tx, err)
	}
	defer stmt.Close()

	for _, c := range chains {
		_, err := stmt.Exec(
			file,
			c.Feature,
			c.SubLabel,
			string(c.Kind),
			c.Position,
			c.NodeCount,
			c.WKT,
			c.Centroid.String(),
			c.H3Res7,
		)
		if err != nil {
			return rollback(tx, fmt.Errorf("inserting chain %s/%d: %w", c.Feature, c.Position, err))
		}
	}

	return tx.Commit()
}

func rollback(tx *sql.Tx, err error) error {
	if rErr := tx.Rollback(); rErr != nil {
		return fmt.Errorf("%w (rollback: %w)", err, rErr)
	}

	return err
}

func (r *sqlChainRepository) ListChains(file string) ([]*Chain, error) {
	rows, err := r.db.Query(`
		SELECT file, feature, sub_label, kind, position, node_count, wkt, centroid, h3_res7
		FROM stitched_chains
		WHERE file = ?
		ORDER BY id
	`, file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chains []*Chain

	for rows.Next() {
		var (
			c      Chain
			kind   string
			h3Res7 sql.NullInt64
		)

		if err := rows.Scan(&c.File, &c.Feature, &c.SubLabel, &kind, &c.Position, &c.NodeCount, &c.WKT, &c.Centroid, &h3Res7); err != nil {
			return nil, err
		}

		c.Kind = Kind(kind)

		if h3Res7.Valid {
			c.H3Res7 = h3Res7.Int64
		}

		chains = append(chains, &c)
	}

	return chains, rows.Err()
}

func (r *sqlChainRepository) Summary() ([]*FileSummary, error) {
	rows, err := r.db.Query(`
		SELECT
			file,
			CAST(count(DISTINCT feature) AS BIGINT),
			CAST(count(*) FILTER (WHERE kind = 'completed') AS BIGINT),
			CAST(count(*) FILTER (WHERE kind = 'residual') AS BIGINT),
			CAST(sum(node_count) AS BIGINT)
		FROM stitched_chains
		GROUP BY file
		ORDER BY file
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ret []*FileSummary

	for rows.Next() {
		var s FileSummary
		if err := rows.Scan(&s.File, &s.Features, &s.Completed, &s.Residual, &s.Nodes); err != nil {
			return nil, err
		}

		ret = append(ret, &s)
	}

	return ret, rows.Err()
}

// Chains converts the result of stitching one feature into storable chains.
// Completed rings come first and are stored as polygons.
func Chains(feature string, res stitch.Result) ([]*Chain, error) {
	ret := make([]*Chain, 0, len(res.Completed)+len(res.Residual))

	add := func(kind Kind, c stitch.Chain) error {
		if len(c) == 0 {
			return nil
		}

		g := geometry(kind, c)

		chain := &Chain{
			Feature:   feature,
			SubLabel:  subLabels(c),
			Kind:      kind,
			Position:  len(ret),
			NodeCount: len(c),
			WKT:       wkt.MarshalString(g),
		}

		if err := chain.computeH3(g); err != nil {
			return err
		}

		ret = append(ret, chain)

		return nil
	}

	for _, c := range res.Completed {
		if err := add(KindCompleted, c); err != nil {
			return nil, err
		}
	}

	for _, c := range res.Residual {
		if err := add(KindResidual, c); err != nil {
			return nil, err
		}
	}

	return ret, nil
}

func geometry(kind Kind, c stitch.Chain) orb.Geometry {
	if len(c) == 1 {
		return c[0].OrbPoint()
	}

	ls := make(orb.LineString, len(c))
	for i, n := range c {
		ls[i] = n.OrbPoint()
	}

	if kind == KindCompleted {
		return orb.Polygon{orb.Ring(ls)}
	}

	return ls
}

func subLabels(nodes []spatial.Node) string {
	var labels []string

	seen := make(map[string]bool)

	for _, n := range nodes {
		if n.SubLabel == "" || seen[n.SubLabel] {
			continue
		}

		seen[n.SubLabel] = true
		labels = append(labels, n.SubLabel)
	}

	return strings.Join(labels, ",")
}
