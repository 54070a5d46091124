// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package thinner

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Algorithm selects how points are thinned.
type Algorithm string

const (
	// AlgorithmAngle drops points whose turn angle is within a tolerance.
	AlgorithmAngle Algorithm = "angle"
	// AlgorithmDouglasPeucker uses Douglas-Peucker with Tolerance in degrees.
	AlgorithmDouglasPeucker Algorithm = "dp"
	// AlgorithmVisvalingam uses Visvalingam-Whyatt with Tolerance as the
	// minimum triangle area in square degrees.
	AlgorithmVisvalingam Algorithm = "vw"
)

// Options tune the thinning. The JSON names match the keys accepted in
// config.json.
type Options struct {
	Algorithm               Algorithm `json:"algorithm"`
	AllowedAngleDeviation   float64   `json:"allowed_angle_deviation"`
	UseWeightedTolerance    bool      `json:"use_weighted_tolerance"`
	MaxDistanceForWeighting float64   `json:"max_distance_for_weighting"`
	MaxAngleForWeighting    float64   `json:"max_angle_for_weighting"`
	Tolerance               float64   `json:"tolerance"`
	ReduceAreaToPoint       bool      `json:"reduce_area_to_point"`
	AreaToPointThreshold    float64   `json:"area_to_point_threshold"` // square meters
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		Algorithm:               AlgorithmAngle,
		AllowedAngleDeviation:   1,
		UseWeightedTolerance:    false,
		MaxDistanceForWeighting: 0.01,
		MaxAngleForWeighting:    15,
		Tolerance:               0.00001,
		ReduceAreaToPoint:       false,
		AreaToPointThreshold:    100,
	}
}

// Validate checks the options are usable.
func (o Options) Validate() error {
	switch o.Algorithm {
	case AlgorithmAngle, AlgorithmDouglasPeucker, AlgorithmVisvalingam:
	default:
		return fmt.Errorf("unknown thinning algorithm %q", o.Algorithm)
	}

	if o.AllowedAngleDeviation < 0 || o.MaxAngleForWeighting < 0 {
		return errors.New("angles must not be negative")
	}

	if o.MaxDistanceForWeighting < 0 || o.Tolerance < 0 || o.AreaToPointThreshold < 0 {
		return errors.New("distances, tolerances and areas must not be negative")
	}

	return nil
}

// LoadOptions overlays the keys present in the JSON file at path on top of
// base. A missing file leaves base untouched.
func LoadOptions(path string, base Options) (Options, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return base, nil
	}

	if err != nil {
		return base, fmt.Errorf("reading thinner config: %w", err)
	}

	ret := base
	if err := json.Unmarshal(data, &ret); err != nil {
		return base, fmt.Errorf("parsing thinner config %s: %w", path, err)
	}

	return ret, nil
}
