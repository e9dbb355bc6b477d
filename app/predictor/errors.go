// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package predictor

import (
	"errors"
	"fmt"
)

// UnknownCategoryError is returned when a job title was never seen
// by the category encoder.
type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown job title %q", e.Category)
}

// OutOfRangeError is returned when a numeric input falls outside the
// domain the models were trained on.
type OutOfRangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d is out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// DimensionError is returned when a feature vector does not match the
// width a scaler or model expects.
type DimensionError struct {
	Component string
	Want      int
	Got       int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: expected %d features, got %d", e.Component, e.Want, e.Got)
}

// NonFiniteError is returned when a model produces NaN or an infinity.
type NonFiniteError struct {
	Bound string
	Value float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("%s salary model produced a non-finite value (%v)", e.Bound, e.Value)
}

// IsInvalidInput reports whether err was caused by the caller's input
// rather than by the loaded artifacts.
func IsInvalidInput(err error) bool {
	var unknown *UnknownCategoryError
	var outOfRange *OutOfRangeError
	return errors.As(err, &unknown) || errors.As(err, &outOfRange)
}
