// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package predictor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Model kinds as written in artifact files.
const (
	ModelLinear = "linear"
	ModelDense  = "dense"
)

// Activation functions supported by dense layers.
const (
	ActivationLinear  = "linear"
	ActivationReLU    = "relu"
	ActivationSigmoid = "sigmoid"
	ActivationTanh    = "tanh"
)

// Regressor produces a single scalar from a scaled feature vector. Both
// salary bounds are served through this capability so the pipeline does
// not depend on the model family behind each bound.
type Regressor interface {
	Regress(features []float64) (float64, error)
}

// RegressorFunc adapts an ordinary function to the Regressor interface.
type RegressorFunc func(features []float64) (float64, error)

// Regress calls f(features).
func (f RegressorFunc) Regress(features []float64) (float64, error) {
	return f(features)
}

// Kind returns the model family of r, or "custom" when r does not say.
func Kind(r Regressor) string {
	if k, ok := r.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	return "custom"
}

// LinearModel computes intercept + sum(coefficients[i] * x[i]).
type LinearModel struct {
	coefficients []float64
	intercept    float64
}

// NewLinearModel returns a linear regression model.
func NewLinearModel(coefficients []float64, intercept float64) (*LinearModel, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("linear model: no coefficients")
	}
	return &LinearModel{
		coefficients: append([]float64(nil), coefficients...),
		intercept:    intercept,
	}, nil
}

func (m *LinearModel) Regress(features []float64) (float64, error) {
	if len(features) != len(m.coefficients) {
		return 0, &DimensionError{Component: "linear model", Want: len(m.coefficients), Got: len(features)}
	}
	y := m.intercept
	for i, x := range features {
		y += m.coefficients[i] * x
	}
	return y, nil
}

func (m *LinearModel) Kind() string { return ModelLinear }

// LayerSpec describes one fully connected layer. Weights is laid out
// inputs x units, the same orientation the training framework exports.
type LayerSpec struct {
	Weights    [][]float64
	Bias       []float64
	Activation string
}

type layer struct {
	weights    *mat.Dense
	bias       *mat.VecDense
	activation func(float64) float64
}

// DenseNetwork is a feed-forward network of fully connected layers
// ending in a single output unit.
type DenseNetwork struct {
	layers []layer
	inputs int
}

// NewDenseNetwork builds a network from its layer specs, checking that
// consecutive layer shapes line up and the last layer has one unit.
func NewDenseNetwork(specs []LayerSpec) (*DenseNetwork, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("dense network: no layers")
	}

	n := &DenseNetwork{layers: make([]layer, 0, len(specs))}
	prevUnits := 0
	for i, spec := range specs {
		rows := len(spec.Weights)
		if rows == 0 {
			return nil, fmt.Errorf("dense network: layer %d has no weights", i)
		}
		cols := len(spec.Weights[0])
		if cols == 0 {
			return nil, fmt.Errorf("dense network: layer %d has no units", i)
		}
		if i > 0 && rows != prevUnits {
			return nil, fmt.Errorf("dense network: layer %d expects %d inputs, previous layer has %d units", i, rows, prevUnits)
		}
		if len(spec.Bias) != cols {
			return nil, fmt.Errorf("dense network: layer %d has %d units but %d biases", i, cols, len(spec.Bias))
		}

		backing := make([]float64, 0, rows*cols)
		for r, row := range spec.Weights {
			if len(row) != cols {
				return nil, fmt.Errorf("dense network: layer %d row %d has %d weights, want %d", i, r, len(row), cols)
			}
			backing = append(backing, row...)
		}

		act, err := activation(spec.Activation)
		if err != nil {
			return nil, fmt.Errorf("dense network: layer %d: %w", i, err)
		}

		n.layers = append(n.layers, layer{
			weights:    mat.NewDense(rows, cols, backing),
			bias:       mat.NewVecDense(cols, append([]float64(nil), spec.Bias...)),
			activation: act,
		})
		if i == 0 {
			n.inputs = rows
		}
		prevUnits = cols
	}

	if prevUnits != 1 {
		return nil, fmt.Errorf("dense network: output layer has %d units, want 1", prevUnits)
	}
	return n, nil
}

// Regress runs a forward pass: h = act(W^T h + b) for every layer.
func (n *DenseNetwork) Regress(features []float64) (float64, error) {
	if len(features) != n.inputs {
		return 0, &DimensionError{Component: "dense network", Want: n.inputs, Got: len(features)}
	}

	h := mat.NewVecDense(len(features), append([]float64(nil), features...))
	for _, l := range n.layers {
		_, units := l.weights.Dims()
		out := mat.NewVecDense(units, nil)
		out.MulVec(l.weights.T(), h)
		out.AddVec(out, l.bias)
		for i := 0; i < units; i++ {
			out.SetVec(i, l.activation(out.AtVec(i)))
		}
		h = out
	}
	return h.AtVec(0), nil
}

// Inputs returns the width of the input layer.
func (n *DenseNetwork) Inputs() int { return n.inputs }

// Depth returns the number of layers.
func (n *DenseNetwork) Depth() int { return len(n.layers) }

func (n *DenseNetwork) Kind() string { return ModelDense }

func activation(name string) (func(float64) float64, error) {
	switch name {
	case "", ActivationLinear:
		return func(x float64) float64 { return x }, nil
	case ActivationReLU:
		return func(x float64) float64 { return math.Max(0, x) }, nil
	case ActivationSigmoid:
		return func(x float64) float64 { return 1 / (1 + math.Exp(-x)) }, nil
	case ActivationTanh:
		return math.Tanh, nil
	default:
		return nil, fmt.Errorf("unknown activation %q", name)
	}
}
