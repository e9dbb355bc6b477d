// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

// Package bundle loads the externally trained artifacts (category encoder,
// feature scaler and the two salary models) and assembles them into a
// prediction pipeline.
package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/drone/envsubst"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/salarycast/salarycast/app/predictor"
)

// ManifestName is the file name looked up when a directory is given
// instead of a manifest path.
const ManifestName = "bundle.yaml"

// DefaultCurrency is used when the manifest does not name one.
const DefaultCurrency = "INR"

// Artifact names used in load errors.
const (
	ArtifactManifest = "manifest"
	ArtifactEncoder  = "encoder"
	ArtifactScaler   = "scaler"
	ArtifactMinModel = "min model"
	ArtifactMaxModel = "max model"
)

// LoadError reports which artifact could not be loaded. A bundle that
// fails to load cannot serve any prediction.
type LoadError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("bundle: %s: %s", e.Artifact, e.Err)
	}
	return fmt.Sprintf("bundle: %s (%s): %s", e.Artifact, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Bundle is a loaded, validated set of artifacts.
type Bundle struct {
	Manifest  Manifest
	Documents Documents
	Pipeline  *predictor.Pipeline
}

// Load reads the manifest at path (or path/bundle.yaml when path is a
// directory) and every artifact it references.
func Load(path string) (*Bundle, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ManifestName)
	}

	manifest, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	var docs Documents
	files := []struct {
		artifact string
		name     string
		out      interface{}
	}{
		{ArtifactEncoder, manifest.Encoder, &docs.Encoder},
		{ArtifactScaler, manifest.Scaler, &docs.Scaler},
		{ArtifactMinModel, manifest.Models.Min, &docs.MinModel},
		{ArtifactMaxModel, manifest.Models.Max, &docs.MaxModel},
	}
	for _, f := range files {
		if f.name == "" {
			return nil, &LoadError{Artifact: f.artifact, Err: errors.New("not named in manifest")}
		}
		p := f.name
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if err := ParseFile(p, f.out); err != nil {
			return nil, &LoadError{Artifact: f.artifact, Path: p, Err: err}
		}
	}

	return Build(manifest, docs)
}

// ReadManifest reads a manifest, expanding ${VAR} expressions from the
// process environment first.
func ReadManifest(path string) (Manifest, error) {
	var manifest Manifest
	raw, err := os.ReadFile(path)
	if err != nil {
		return manifest, &LoadError{Artifact: ArtifactManifest, Path: path, Err: err}
	}
	expanded, err := envsubst.Eval(string(raw), os.Getenv)
	if err != nil {
		return manifest, &LoadError{Artifact: ArtifactManifest, Path: path, Err: errors.Wrap(err, "expand variables")}
	}
	if err := Parse(bytes.NewBufferString(expanded), &manifest); err != nil {
		return manifest, &LoadError{Artifact: ArtifactManifest, Path: path, Err: err}
	}
	return manifest, nil
}

// ParseFile decodes a YAML or JSON file into out.
func ParseFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Parse(f, out)
}

// Parse decodes YAML or JSON from r into out. Unknown fields are
// rejected so that a misspelled key fails loudly.
func Parse(r io.Reader, out interface{}) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b, err = yaml.YAMLToJSON(b)
	if err != nil {
		return errors.Wrap(err, "decode yaml")
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}

// Build assembles a pipeline from decoded documents.
func Build(manifest Manifest, docs Documents) (*Bundle, error) {
	if manifest.Currency == "" {
		manifest.Currency = DefaultCurrency
	}

	encoder, err := docs.Encoder.Build()
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactEncoder, Path: manifest.Encoder, Err: err}
	}
	scaler, err := docs.Scaler.Build()
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactScaler, Path: manifest.Scaler, Err: err}
	}
	minModel, err := docs.MinModel.Build()
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactMinModel, Path: manifest.Models.Min, Err: err}
	}
	maxModel, err := docs.MaxModel.Build()
	if err != nil {
		return nil, &LoadError{Artifact: ArtifactMaxModel, Path: manifest.Models.Max, Err: err}
	}

	pipeline, err := predictor.New(predictor.Artifacts{
		Encoder:  encoder,
		Scaler:   scaler,
		MinModel: minModel,
		MaxModel: maxModel,
	})
	if err != nil {
		return nil, &LoadError{Artifact: "pipeline", Err: err}
	}

	return &Bundle{
		Manifest:  manifest,
		Documents: docs,
		Pipeline:  pipeline,
	}, nil
}

// Default file names written by Write.
const (
	encoderFile  = "label_encoder.yaml"
	scalerFile   = "scaler.yaml"
	minModelFile = "min_salary_model.yaml"
	maxModelFile = "max_salary_model.yaml"
)

// Write exports b into dir as a manifest plus one YAML file per artifact,
// and returns the manifest path.
func Write(dir string, b *Bundle) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	manifest := b.Manifest
	manifest.Encoder = encoderFile
	manifest.Scaler = scalerFile
	manifest.Models.Min = minModelFile
	manifest.Models.Max = maxModelFile

	files := []struct {
		name string
		v    interface{}
	}{
		{encoderFile, b.Documents.Encoder},
		{scalerFile, b.Documents.Scaler},
		{minModelFile, b.Documents.MinModel},
		{maxModelFile, b.Documents.MaxModel},
		{ManifestName, manifest},
	}
	for _, f := range files {
		out, err := yaml.Marshal(f.v)
		if err != nil {
			return "", errors.Wrapf(err, "encode %s", f.name)
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), out, 0o644); err != nil { //nolint:gosec
			return "", errors.Wrapf(err, "write %s", f.name)
		}
	}
	return filepath.Join(dir, ManifestName), nil
}
