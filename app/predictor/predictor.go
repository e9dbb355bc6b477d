// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

const (
	// MinExperience and MaxExperience bound the years of experience the
	// models were trained on.
	MinExperience = 0
	MaxExperience = 10

	// FeatureCount is the width of the feature vector: experience first,
	// encoded title second. The scaler and both models were fit on exactly
	// this column order.
	FeatureCount = 2
)

// PredictionInput contains the input data for making a prediction.
type PredictionInput struct {
	JobTitle      string `json:"job_title"`
	MinExperience int    `json:"min_experience"`
}

// PredictionResult contains the output of a prediction. Values are
// returned exactly as the models produce them, without rounding.
type PredictionResult struct {
	MinSalary float64 `json:"min_salary"`
	MaxSalary float64 `json:"max_salary"`
}

// Predictor defines the interface for predicting a salary range.
type Predictor interface {
	// Predict returns the minimum and maximum salary for the given input.
	Predict(ctx context.Context, input *PredictionInput) (*PredictionResult, error)

	// Name returns the name of the predictor implementation.
	Name() string
}

// Artifacts are the externally trained inputs of a Pipeline.
type Artifacts struct {
	Encoder  *CategoryEncoder
	Scaler   FeatureScaler
	MinModel Regressor
	MaxModel Regressor
}

// Pipeline encodes, scales and runs both salary models. It holds no
// mutable state, so a single Pipeline can serve concurrent callers.
type Pipeline struct {
	encoder  *CategoryEncoder
	scaler   FeatureScaler
	minModel Regressor
	maxModel Regressor
}

var _ Predictor = (*Pipeline)(nil)

// New validates the artifacts and returns a ready pipeline. Each model is
// probed once with a scaled zero vector so that shape mismatches surface
// at startup instead of on the first request.
func New(a Artifacts) (*Pipeline, error) {
	switch {
	case a.Encoder == nil:
		return nil, fmt.Errorf("pipeline: missing category encoder")
	case a.Scaler == nil:
		return nil, fmt.Errorf("pipeline: missing feature scaler")
	case a.MinModel == nil:
		return nil, fmt.Errorf("pipeline: missing minimum salary model")
	case a.MaxModel == nil:
		return nil, fmt.Errorf("pipeline: missing maximum salary model")
	}

	probe, err := a.Scaler.Transform(make([]float64, FeatureCount))
	if err != nil {
		return nil, fmt.Errorf("pipeline: scaler: %w", err)
	}
	if _, err := a.MinModel.Regress(probe); err != nil {
		return nil, fmt.Errorf("pipeline: minimum salary model: %w", err)
	}
	if _, err := a.MaxModel.Regress(probe); err != nil {
		return nil, fmt.Errorf("pipeline: maximum salary model: %w", err)
	}

	return &Pipeline{
		encoder:  a.Encoder,
		scaler:   a.Scaler,
		minModel: a.MinModel,
		maxModel: a.MaxModel,
	}, nil
}

// Name returns the name of this predictor implementation.
func (p *Pipeline) Name() string {
	return "salary-regression-pipeline"
}

// Titles returns the job titles the pipeline accepts, ordered by code.
func (p *Pipeline) Titles() []string {
	return p.encoder.Classes()
}

// Encoder returns the category encoder.
func (p *Pipeline) Encoder() *CategoryEncoder {
	return p.encoder
}

// Describe returns the kinds of the scaler and both models.
func (p *Pipeline) Describe() (scaler, minModel, maxModel string) {
	return p.scaler.Kind(), Kind(p.minModel), Kind(p.maxModel)
}

// Features validates input and assembles the unscaled feature vector
// [experience, encoded title].
func (p *Pipeline) Features(input *PredictionInput) ([]float64, error) {
	code, err := p.encoder.Encode(input.JobTitle)
	if err != nil {
		return nil, err
	}
	if input.MinExperience < MinExperience || input.MinExperience > MaxExperience {
		return nil, &OutOfRangeError{
			Field: "min_experience",
			Value: input.MinExperience,
			Min:   MinExperience,
			Max:   MaxExperience,
		}
	}
	return []float64{float64(input.MinExperience), float64(code)}, nil
}

// Predict computes the salary range for input.
func (p *Pipeline) Predict(ctx context.Context, input *PredictionInput) (*PredictionResult, error) {
	raw, err := p.Features(input)
	if err != nil {
		return nil, err
	}

	scaled, err := p.scaler.Transform(raw)
	if err != nil {
		return nil, err
	}

	minSalary, err := p.regress("minimum", p.minModel, scaled)
	if err != nil {
		return nil, err
	}
	maxSalary, err := p.regress("maximum", p.maxModel, scaled)
	if err != nil {
		return nil, err
	}

	logrus.WithContext(ctx).
		WithField("job_title", input.JobTitle).
		WithField("min_experience", input.MinExperience).
		WithField("features", scaled).
		Traceln("predictor: computed salary range")

	return &PredictionResult{
		MinSalary: minSalary,
		MaxSalary: maxSalary,
	}, nil
}

func (p *Pipeline) regress(bound string, model Regressor, features []float64) (float64, error) {
	// each model gets its own copy so one cannot disturb the other's input
	in := make([]float64, len(features))
	copy(in, features)

	y, err := model.Regress(in)
	if err != nil {
		return 0, fmt.Errorf("%s salary model: %w", bound, err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &NonFiniteError{Bound: bound, Value: y}
	}
	return y, nil
}
