package predictor

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var knownTitles = []string{
	"Business Analyst",
	"Data Analyst",
	"Data Architect",
	"Data Engineer",
	"Data Scientist",
	"Machine Learning Engineer",
	"Senior Business Analyst",
	"Senior Data Analyst",
	"Senior Data Engineer",
	"Senior Data Scientist",
}

// scenarioPipeline maps "Data Scientist" to code 2 and uses an identity
// scaler with two linear models of experience and title code.
func scenarioPipeline(t *testing.T) *Pipeline {
	t.Helper()
	enc, err := NewCategoryEncoder(map[string]int{
		"Business Analyst": 0,
		"Data Analyst":     1,
		"Data Scientist":   2,
	})
	require.NoError(t, err)

	minModel := RegressorFunc(func(x []float64) (float64, error) {
		return 1000*x[0] + 100*x[1], nil
	})
	maxModel := RegressorFunc(func(x []float64) (float64, error) {
		return 2000*x[0] + 200*x[1], nil
	})

	p, err := New(Artifacts{
		Encoder:  enc,
		Scaler:   NewIdentityScaler(FeatureCount),
		MinModel: minModel,
		MaxModel: maxModel,
	})
	require.NoError(t, err)
	return p
}

// trainedPipeline resembles a real export: label encoded titles, a
// standard scaler and small dense networks.
func trainedPipeline(t *testing.T) *Pipeline {
	t.Helper()
	enc, err := NewLabelEncoder(knownTitles)
	require.NoError(t, err)

	scaler, err := NewStandardScaler([]float64{4.8, 4.4}, []float64{2.9, 2.7})
	require.NoError(t, err)

	minModel, err := NewDenseNetwork([]LayerSpec{
		{Weights: [][]float64{{0.8, -0.2, 0.5}, {0.3, 0.9, -0.4}}, Bias: []float64{0.1, 0.0, 0.2}, Activation: ActivationReLU},
		{Weights: [][]float64{{250000}, {120000}, {80000}}, Bias: []float64{600000}},
	})
	require.NoError(t, err)

	maxModel, err := NewLinearModel([]float64{310000, 95000}, 1150000)
	require.NoError(t, err)

	p, err := New(Artifacts{Encoder: enc, Scaler: scaler, MinModel: minModel, MaxModel: maxModel})
	require.NoError(t, err)
	return p
}

func TestPipeline_Name(t *testing.T) {
	p := scenarioPipeline(t)
	assert.Equal(t, "salary-regression-pipeline", p.Name())
}

func TestPipeline_Predict_Scenario(t *testing.T) {
	p := scenarioPipeline(t)

	result, err := p.Predict(context.Background(), &PredictionInput{
		JobTitle:      "Data Scientist",
		MinExperience: 5,
	})
	require.NoError(t, err)

	want := &PredictionResult{MinSalary: 5200, MaxSalary: 10400}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestPipeline_Predict_UnknownTitle(t *testing.T) {
	p := scenarioPipeline(t)

	for _, experience := range []int{-3, 0, 3, 10, 42} {
		_, err := p.Predict(context.Background(), &PredictionInput{
			JobTitle:      "Unicorn Wrangler",
			MinExperience: experience,
		})

		var unknown *UnknownCategoryError
		require.True(t, errors.As(err, &unknown), "experience %d: got %v", experience, err)
		assert.Equal(t, "Unicorn Wrangler", unknown.Category)
		assert.True(t, IsInvalidInput(err))
	}
}

func TestPipeline_Predict_OutOfRange(t *testing.T) {
	p := scenarioPipeline(t)

	tests := []struct {
		name       string
		experience int
	}{
		{"negative", -1},
		{"above maximum", 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Predict(context.Background(), &PredictionInput{
				JobTitle:      "Data Scientist",
				MinExperience: tt.experience,
			})

			var outOfRange *OutOfRangeError
			require.True(t, errors.As(err, &outOfRange))
			assert.Equal(t, tt.experience, outOfRange.Value)
			assert.Equal(t, MinExperience, outOfRange.Min)
			assert.Equal(t, MaxExperience, outOfRange.Max)
		})
	}
}

func TestPipeline_Predict_BoundaryExperience(t *testing.T) {
	p := scenarioPipeline(t)

	result, err := p.Predict(context.Background(), &PredictionInput{JobTitle: "Business Analyst", MinExperience: 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.MinSalary)

	result, err = p.Predict(context.Background(), &PredictionInput{JobTitle: "Business Analyst", MinExperience: 10})
	require.NoError(t, err)
	assert.Equal(t, 10000.0, result.MinSalary)
}

func TestPipeline_Predict_AllKnownTitlesFinite(t *testing.T) {
	p := trainedPipeline(t)

	for _, title := range p.Titles() {
		for experience := 1; experience <= 10; experience++ {
			result, err := p.Predict(context.Background(), &PredictionInput{
				JobTitle:      title,
				MinExperience: experience,
			})
			require.NoError(t, err, "%s/%d", title, experience)
			assert.False(t, math.IsNaN(result.MinSalary) || math.IsInf(result.MinSalary, 0))
			assert.False(t, math.IsNaN(result.MaxSalary) || math.IsInf(result.MaxSalary, 0))
		}
	}
}

func TestPipeline_Predict_Deterministic(t *testing.T) {
	p := trainedPipeline(t)
	input := &PredictionInput{JobTitle: "Senior Data Engineer", MinExperience: 7}

	first, err := p.Predict(context.Background(), input)
	require.NoError(t, err)
	second, err := p.Predict(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, math.Float64bits(first.MinSalary), math.Float64bits(second.MinSalary))
	assert.Equal(t, math.Float64bits(first.MaxSalary), math.Float64bits(second.MaxSalary))
}

// Guards against assembling the vector as [title, experience].
func TestPipeline_FeatureOrder(t *testing.T) {
	p := scenarioPipeline(t)

	features, err := p.Features(&PredictionInput{JobTitle: "Data Scientist", MinExperience: 5})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 2}, features)

	swapped := []float64{features[1], features[0]}
	scaledSwapped, err := p.scaler.Transform(swapped)
	require.NoError(t, err)
	swappedMin, err := p.minModel.Regress(scaledSwapped)
	require.NoError(t, err)

	result, err := p.Predict(context.Background(), &PredictionInput{JobTitle: "Data Scientist", MinExperience: 5})
	require.NoError(t, err)
	assert.NotEqual(t, result.MinSalary, swappedMin)
}

func TestPipeline_Predict_NoRounding(t *testing.T) {
	enc, err := NewLabelEncoder([]string{"Data Analyst"})
	require.NoError(t, err)
	model, err := NewLinearModel([]float64{0.125, 0}, 1000.0625)
	require.NoError(t, err)

	p, err := New(Artifacts{Encoder: enc, Scaler: NewIdentityScaler(FeatureCount), MinModel: model, MaxModel: model})
	require.NoError(t, err)

	result, err := p.Predict(context.Background(), &PredictionInput{JobTitle: "Data Analyst", MinExperience: 3})
	require.NoError(t, err)
	assert.Equal(t, 1000.4375, result.MinSalary)
}

func TestPipeline_Predict_NonFinite(t *testing.T) {
	enc, err := NewLabelEncoder([]string{"Data Analyst"})
	require.NoError(t, err)

	calls := 0
	broken := RegressorFunc(func(x []float64) (float64, error) {
		calls++
		if calls > 1 { // the construction probe succeeds
			return math.Inf(1), nil
		}
		return 0, nil
	})
	ok := RegressorFunc(func(x []float64) (float64, error) { return 1, nil })

	p, err := New(Artifacts{Encoder: enc, Scaler: NewIdentityScaler(FeatureCount), MinModel: ok, MaxModel: broken})
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), &PredictionInput{JobTitle: "Data Analyst", MinExperience: 2})
	var nonFinite *NonFiniteError
	require.True(t, errors.As(err, &nonFinite))
	assert.Equal(t, "maximum", nonFinite.Bound)
	assert.False(t, IsInvalidInput(err))
}

func TestPipeline_ModelsReceiveIndependentInput(t *testing.T) {
	enc, err := NewLabelEncoder([]string{"Data Analyst", "Data Engineer"})
	require.NoError(t, err)

	mutating := RegressorFunc(func(x []float64) (float64, error) {
		y := x[0] + x[1]
		x[0], x[1] = 1e9, 1e9
		return y, nil
	})
	sum := RegressorFunc(func(x []float64) (float64, error) { return x[0] + x[1], nil })

	p, err := New(Artifacts{Encoder: enc, Scaler: NewIdentityScaler(FeatureCount), MinModel: mutating, MaxModel: sum})
	require.NoError(t, err)

	result, err := p.Predict(context.Background(), &PredictionInput{JobTitle: "Data Engineer", MinExperience: 4})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.MinSalary)
	assert.Equal(t, 5.0, result.MaxSalary)
}

func TestNew_MissingArtifacts(t *testing.T) {
	enc, err := NewLabelEncoder(knownTitles)
	require.NoError(t, err)
	model, err := NewLinearModel([]float64{1, 1}, 0)
	require.NoError(t, err)
	scaler := NewIdentityScaler(FeatureCount)

	tests := []struct {
		name string
		a    Artifacts
	}{
		{"encoder", Artifacts{Scaler: scaler, MinModel: model, MaxModel: model}},
		{"scaler", Artifacts{Encoder: enc, MinModel: model, MaxModel: model}},
		{"min model", Artifacts{Encoder: enc, Scaler: scaler, MaxModel: model}},
		{"max model", Artifacts{Encoder: enc, Scaler: scaler, MinModel: model}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.a)
			assert.Error(t, err)
		})
	}
}

func TestNew_ShapeMismatch(t *testing.T) {
	enc, err := NewLabelEncoder(knownTitles)
	require.NoError(t, err)
	wide, err := NewLinearModel([]float64{1, 1, 1}, 0)
	require.NoError(t, err)
	narrow, err := NewLinearModel([]float64{1, 1}, 0)
	require.NoError(t, err)

	_, err = New(Artifacts{Encoder: enc, Scaler: NewIdentityScaler(FeatureCount), MinModel: narrow, MaxModel: wide})
	var dim *DimensionError
	require.True(t, errors.As(err, &dim))
	assert.Equal(t, 3, dim.Want)
	assert.Equal(t, 2, dim.Got)

	_, err = New(Artifacts{Encoder: enc, Scaler: NewIdentityScaler(3), MinModel: narrow, MaxModel: narrow})
	assert.Error(t, err)
}

func TestPipeline_Describe(t *testing.T) {
	p := trainedPipeline(t)
	scaler, minModel, maxModel := p.Describe()
	assert.Equal(t, ScalerStandard, scaler)
	assert.Equal(t, ModelDense, minModel)
	assert.Equal(t, ModelLinear, maxModel)

	scaler, minModel, _ = scenarioPipeline(t).Describe()
	assert.Equal(t, ScalerIdentity, scaler)
	assert.Equal(t, "custom", minModel)
}
