// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

// Package form implements the salary prediction form: it decides when a
// submission is complete enough to call the predictor and turns the
// result into a page.
package form

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/salarycast/salarycast/app/predictor"
)

// Placeholder is the "no selection" entry at the top of the title list.
const Placeholder = "Select"

// Experience values the form accepts. Zero is a valid model input but
// the form asks for at least one year.
const (
	MinExperience = 1
	MaxExperience = predictor.MaxExperience
)

// Form field names.
const (
	FieldTitle      = "job_title"
	FieldExperience = "min_experience"
)

// Submission is one set of form inputs. Experience is nil until the user
// provides a value.
type Submission struct {
	Title      string
	Experience *int
}

// Parse reads a submission from form values. An experience value that is
// present but not a whole number is returned as an error.
func Parse(values url.Values) (Submission, error) {
	s := Submission{Title: strings.TrimSpace(values.Get(FieldTitle))}

	raw := strings.TrimSpace(values.Get(FieldExperience))
	if raw == "" {
		return s, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return s, &InputError{Field: FieldExperience, Message: "years of experience must be a whole number"}
	}
	s.Experience = &n
	return s, nil
}

// TitleChosen reports whether a real title was selected.
func (s Submission) TitleChosen() bool {
	return s.Title != "" && s.Title != Placeholder
}

// Ready reports whether the predictor should be invoked: a title is
// chosen and experience was provided and is at least MinExperience.
// Values above the maximum are passed on so the predictor rejects them
// with a visible error.
func (s Submission) Ready() bool {
	return s.TitleChosen() && s.Experience != nil && *s.Experience >= MinExperience
}

// Input converts a ready submission to predictor input.
func (s Submission) Input() *predictor.PredictionInput {
	in := &predictor.PredictionInput{JobTitle: s.Title}
	if s.Experience != nil {
		in.MinExperience = *s.Experience
	}
	return in
}

// InputError is a form input that could not be read.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string { return e.Message }

// Form evaluates submissions against a predictor.
type Form struct {
	predictor predictor.Predictor
	titles    []string
	currency  Currency
}

// New returns a form offering titles and formatting amounts in currency.
func New(p predictor.Predictor, titles []string, currency Currency) *Form {
	return &Form{
		predictor: p,
		titles:    titles,
		currency:  currency,
	}
}

// Options returns the select list: the placeholder followed by every title.
func (f *Form) Options() []string {
	return append([]string{Placeholder}, f.titles...)
}

// Blank returns the prediction page with nothing filled in.
func (f *Form) Blank() *Page {
	return &Page{
		Active:  PagePredict,
		Options: f.Options(),
	}
}

// Submit evaluates s and returns the page to show. The predictor is only
// called for ready submissions; invalid input is reported on the page.
// Errors that are not caused by the input are returned.
func (f *Form) Submit(ctx context.Context, s Submission) (*Page, error) {
	page := f.Blank()
	page.Submission = s

	if !s.Ready() {
		page.Notice = notice(s)
		return page, nil
	}

	result, err := f.predictor.Predict(ctx, s.Input())
	if predictor.IsInvalidInput(err) {
		logrus.WithContext(ctx).WithError(err).Debugln("form: rejected submission")
		page.Error = err.Error()
		return page, nil
	}
	if err != nil {
		return nil, err
	}

	page.Result = &Result{
		Min: f.currency.Format(result.MinSalary),
		Max: f.currency.Format(result.MaxSalary),
	}
	return page, nil
}

func notice(s Submission) string {
	switch {
	case !s.TitleChosen():
		return "Select a job title."
	default:
		return "Enter between " + strconv.Itoa(MinExperience) + " and " + strconv.Itoa(MaxExperience) + " years of experience."
	}
}
