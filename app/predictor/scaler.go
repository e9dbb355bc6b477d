// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package predictor

import (
	"fmt"
)

// Scaler kinds as written in artifact files.
const (
	ScalerIdentity = "identity"
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// FeatureScaler normalizes a raw feature vector to the scale the
// models were trained on. Transform never modifies its argument.
type FeatureScaler interface {
	Transform(features []float64) ([]float64, error)
	Kind() string
}

// IdentityScaler passes features through unchanged.
type IdentityScaler struct {
	Dim int
}

// NewIdentityScaler returns a scaler that only checks the vector width.
func NewIdentityScaler(dim int) *IdentityScaler {
	return &IdentityScaler{Dim: dim}
}

func (s *IdentityScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != s.Dim {
		return nil, &DimensionError{Component: "identity scaler", Want: s.Dim, Got: len(features)}
	}
	out := make([]float64, len(features))
	copy(out, features)
	return out, nil
}

func (s *IdentityScaler) Kind() string { return ScalerIdentity }

// StandardScaler computes (x - mean) / scale per feature.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// NewStandardScaler validates and returns a standardizing scaler.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 || len(mean) != len(scale) {
		return nil, fmt.Errorf("standard scaler: mean has %d entries, scale has %d", len(mean), len(scale))
	}
	for i, s := range scale {
		if s == 0 {
			return nil, fmt.Errorf("standard scaler: zero scale for feature %d", i)
		}
	}
	return &StandardScaler{
		mean:  append([]float64(nil), mean...),
		scale: append([]float64(nil), scale...),
	}, nil
}

func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.mean) {
		return nil, &DimensionError{Component: "standard scaler", Want: len(s.mean), Got: len(features)}
	}
	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = (x - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

func (s *StandardScaler) Kind() string { return ScalerStandard }

// MinMaxScaler computes x * scale + min per feature, where min and scale
// are the fitted offsets rather than the observed data minimum.
type MinMaxScaler struct {
	min   []float64
	scale []float64
}

// NewMinMaxScaler validates and returns a min-max scaler.
func NewMinMaxScaler(min, scale []float64) (*MinMaxScaler, error) {
	if len(min) == 0 || len(min) != len(scale) {
		return nil, fmt.Errorf("minmax scaler: min has %d entries, scale has %d", len(min), len(scale))
	}
	return &MinMaxScaler{
		min:   append([]float64(nil), min...),
		scale: append([]float64(nil), scale...),
	}, nil
}

func (s *MinMaxScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.min) {
		return nil, &DimensionError{Component: "minmax scaler", Want: len(s.min), Got: len(features)}
	}
	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = x*s.scale[i] + s.min[i]
	}
	return out, nil
}

func (s *MinMaxScaler) Kind() string { return ScalerMinMax }
