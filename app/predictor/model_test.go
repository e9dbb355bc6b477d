package predictor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalers(t *testing.T) {
	standard, err := NewStandardScaler([]float64{5, 4}, []float64{2, 0.5})
	require.NoError(t, err)
	minmax, err := NewMinMaxScaler([]float64{-0.1, 0}, []float64{0.1, 0.25})
	require.NoError(t, err)

	tests := []struct {
		name   string
		scaler FeatureScaler
		in     []float64
		want   []float64
	}{
		{"identity", NewIdentityScaler(2), []float64{5, 2}, []float64{5, 2}},
		{"standard", standard, []float64{7, 3}, []float64{1, -2}},
		{"minmax", minmax, []float64{3, 8}, []float64{0.2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]float64(nil), tt.in...)
			got, err := tt.scaler.Transform(in)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
			assert.Equal(t, tt.in, in, "input must not be modified")
		})
	}
}

func TestScalers_DimensionMismatch(t *testing.T) {
	standard, err := NewStandardScaler([]float64{5, 4}, []float64{2, 0.5})
	require.NoError(t, err)

	_, err = standard.Transform([]float64{1, 2, 3})
	var dim *DimensionError
	require.True(t, errors.As(err, &dim))
	assert.Equal(t, 2, dim.Want)
	assert.Equal(t, 3, dim.Got)
}

func TestNewStandardScaler_Invalid(t *testing.T) {
	_, err := NewStandardScaler([]float64{1, 2}, []float64{1})
	assert.Error(t, err)
	_, err = NewStandardScaler([]float64{1, 2}, []float64{1, 0})
	assert.Error(t, err)
	_, err = NewMinMaxScaler(nil, nil)
	assert.Error(t, err)
}

func TestLinearModel(t *testing.T) {
	m, err := NewLinearModel([]float64{1000, 100}, 50)
	require.NoError(t, err)

	y, err := m.Regress([]float64{5, 2})
	require.NoError(t, err)
	assert.Equal(t, 5250.0, y)
	assert.Equal(t, ModelLinear, Kind(m))

	_, err = m.Regress([]float64{5})
	assert.Error(t, err)

	_, err = NewLinearModel(nil, 0)
	assert.Error(t, err)
}

func TestDenseNetwork(t *testing.T) {
	// hidden = relu([x0 + x1, x0 - x1]); out = 2*h0 + 3*h1 + 1
	n, err := NewDenseNetwork([]LayerSpec{
		{Weights: [][]float64{{1, 1}, {1, -1}}, Bias: []float64{0, 0}, Activation: ActivationReLU},
		{Weights: [][]float64{{2}, {3}}, Bias: []float64{1}, Activation: ActivationLinear},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n.Inputs())
	assert.Equal(t, 2, n.Depth())
	assert.Equal(t, ModelDense, Kind(n))

	tests := []struct {
		in   []float64
		want float64
	}{
		{[]float64{3, 1}, 2*4 + 3*2 + 1},
		{[]float64{1, 3}, 2*4 + 0 + 1},
		{[]float64{-2, -2}, 1},
	}
	for _, tt := range tests {
		got, err := n.Regress(tt.in)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12)
	}
}

func TestDenseNetwork_Activations(t *testing.T) {
	for name, want := range map[string]float64{
		ActivationSigmoid: 0.5,
		ActivationTanh:    0,
		"":                0,
	} {
		n, err := NewDenseNetwork([]LayerSpec{
			{Weights: [][]float64{{1}, {-1}}, Bias: []float64{0}, Activation: name},
		})
		require.NoError(t, err)
		got, err := n.Regress([]float64{2, 2})
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-12, name)
	}
}

func TestNewDenseNetwork_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		specs []LayerSpec
	}{
		{"no layers", nil},
		{"no weights", []LayerSpec{{Bias: []float64{0}}}},
		{"ragged weights", []LayerSpec{{Weights: [][]float64{{1}, {1, 2}}, Bias: []float64{0}}}},
		{"bias mismatch", []LayerSpec{{Weights: [][]float64{{1}, {1}}, Bias: []float64{0, 0}}}},
		{"multi output", []LayerSpec{{Weights: [][]float64{{1, 1}, {1, 1}}, Bias: []float64{0, 0}}}},
		{"unknown activation", []LayerSpec{{Weights: [][]float64{{1}, {1}}, Bias: []float64{0}, Activation: "softplus"}}},
		{"layer chain mismatch", []LayerSpec{
			{Weights: [][]float64{{1, 1, 1}, {1, 1, 1}}, Bias: []float64{0, 0, 0}},
			{Weights: [][]float64{{1}, {1}}, Bias: []float64{0}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDenseNetwork(tt.specs)
			assert.Error(t, err)
		})
	}
}

func TestDenseNetwork_DimensionMismatch(t *testing.T) {
	n, err := NewDenseNetwork([]LayerSpec{{Weights: [][]float64{{1}, {1}}, Bias: []float64{0}}})
	require.NoError(t, err)

	_, err = n.Regress([]float64{1, 2, 3})
	var dim *DimensionError
	require.True(t, errors.As(err, &dim))
}

func TestRegressorFunc(t *testing.T) {
	f := RegressorFunc(func(x []float64) (float64, error) { return math.Sqrt(x[0]), nil })
	y, err := f.Regress([]float64{16})
	require.NoError(t, err)
	assert.Equal(t, 4.0, y)
	assert.Equal(t, "custom", Kind(f))
}
