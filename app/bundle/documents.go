// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package bundle

import (
	"fmt"

	"github.com/salarycast/salarycast/app/predictor"
)

type (
	// Manifest names the artifact files of a bundle. Paths are relative
	// to the directory holding the manifest.
	Manifest struct {
		Version  string `json:"version"`
		Currency string `json:"currency,omitempty"`
		Encoder  string `json:"encoder"`
		Scaler   string `json:"scaler"`
		Models   struct {
			Min string `json:"min"`
			Max string `json:"max"`
		} `json:"models"`
	}

	// Documents holds the decoded contents of every artifact file.
	Documents struct {
		Encoder  Encoder `json:"encoder"`
		Scaler   Scaler  `json:"scaler"`
		MinModel Model   `json:"min_model"`
		MaxModel Model   `json:"max_model"`
	}

	// Encoder is the exported category encoder. Either Classes (code is
	// the list position) or Codes is set.
	Encoder struct {
		Classes []string       `json:"classes,omitempty"`
		Codes   map[string]int `json:"codes,omitempty"`
	}

	// Scaler is the exported feature scaler.
	Scaler struct {
		Kind  string    `json:"kind"`
		Mean  []float64 `json:"mean,omitempty"`
		Min   []float64 `json:"min,omitempty"`
		Scale []float64 `json:"scale,omitempty"`
	}

	// Model is an exported regression model.
	Model struct {
		Kind         string    `json:"kind"`
		Coefficients []float64 `json:"coefficients,omitempty"`
		Intercept    float64   `json:"intercept,omitempty"`
		Layers       []Layer   `json:"layers,omitempty"`
	}

	// Layer is one fully connected layer, weights laid out inputs x units.
	Layer struct {
		Weights    [][]float64 `json:"weights"`
		Bias       []float64   `json:"bias"`
		Activation string      `json:"activation,omitempty"`
	}
)

// Build converts the encoder document.
func (e *Encoder) Build() (*predictor.CategoryEncoder, error) {
	switch {
	case len(e.Classes) != 0 && len(e.Codes) != 0:
		return nil, fmt.Errorf("encoder sets both classes and codes")
	case len(e.Classes) != 0:
		return predictor.NewLabelEncoder(e.Classes)
	default:
		return predictor.NewCategoryEncoder(e.Codes)
	}
}

// Build converts the scaler document.
func (s *Scaler) Build() (predictor.FeatureScaler, error) {
	var (
		scaler predictor.FeatureScaler
		err    error
		dim    int
	)
	switch s.Kind {
	case predictor.ScalerIdentity:
		return predictor.NewIdentityScaler(predictor.FeatureCount), nil
	case predictor.ScalerStandard:
		scaler, err = predictor.NewStandardScaler(s.Mean, s.Scale)
		dim = len(s.Mean)
	case predictor.ScalerMinMax:
		scaler, err = predictor.NewMinMaxScaler(s.Min, s.Scale)
		dim = len(s.Min)
	default:
		return nil, fmt.Errorf("unknown scaler kind %q", s.Kind)
	}
	if err != nil {
		return nil, err
	}
	if dim != predictor.FeatureCount {
		return nil, fmt.Errorf("scaler has %d features, want %d", dim, predictor.FeatureCount)
	}
	return scaler, nil
}

// Build converts the model document.
func (m *Model) Build() (predictor.Regressor, error) {
	switch m.Kind {
	case predictor.ModelLinear:
		if len(m.Coefficients) != predictor.FeatureCount {
			return nil, fmt.Errorf("linear model has %d coefficients, want %d", len(m.Coefficients), predictor.FeatureCount)
		}
		return predictor.NewLinearModel(m.Coefficients, m.Intercept)
	case predictor.ModelDense:
		specs := make([]predictor.LayerSpec, len(m.Layers))
		for i, l := range m.Layers {
			specs[i] = predictor.LayerSpec{
				Weights:    l.Weights,
				Bias:       l.Bias,
				Activation: l.Activation,
			}
		}
		network, err := predictor.NewDenseNetwork(specs)
		if err != nil {
			return nil, err
		}
		if network.Inputs() != predictor.FeatureCount {
			return nil, fmt.Errorf("dense model takes %d inputs, want %d", network.Inputs(), predictor.FeatureCount)
		}
		return network, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", m.Kind)
	}
}
