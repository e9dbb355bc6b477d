// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package predictor

import (
	"fmt"
	"sort"
)

// CategoryEncoder maps the closed set of job titles seen during training
// to the integer codes the scaler and models were fit on. It is immutable
// once constructed.
type CategoryEncoder struct {
	codes   map[string]int
	classes []string // ordered by code
}

// NewCategoryEncoder creates an encoder from an explicit title to code mapping.
func NewCategoryEncoder(codes map[string]int) (*CategoryEncoder, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("category encoder: no categories")
	}

	e := &CategoryEncoder{
		codes:   make(map[string]int, len(codes)),
		classes: make([]string, 0, len(codes)),
	}
	seen := make(map[int]string, len(codes))
	for title, code := range codes {
		if title == "" {
			return nil, fmt.Errorf("category encoder: empty category")
		}
		if code < 0 {
			return nil, fmt.Errorf("category encoder: negative code %d for %q", code, title)
		}
		if other, ok := seen[code]; ok {
			return nil, fmt.Errorf("category encoder: code %d assigned to both %q and %q", code, other, title)
		}
		seen[code] = title
		e.codes[title] = code
		e.classes = append(e.classes, title)
	}

	sort.Slice(e.classes, func(i, j int) bool {
		return e.codes[e.classes[i]] < e.codes[e.classes[j]]
	})
	return e, nil
}

// NewLabelEncoder creates an encoder where the code of each class is its
// position in classes, matching the label encoder used at training time.
func NewLabelEncoder(classes []string) (*CategoryEncoder, error) {
	codes := make(map[string]int, len(classes))
	for i, class := range classes {
		if _, ok := codes[class]; ok {
			return nil, fmt.Errorf("category encoder: duplicate category %q", class)
		}
		codes[class] = i
	}
	return NewCategoryEncoder(codes)
}

// Encode returns the code of title.
func (e *CategoryEncoder) Encode(title string) (int, error) {
	code, ok := e.codes[title]
	if !ok {
		return 0, &UnknownCategoryError{Category: title}
	}
	return code, nil
}

// Contains reports whether title is a known category.
func (e *CategoryEncoder) Contains(title string) bool {
	_, ok := e.codes[title]
	return ok
}

// Classes returns the known categories ordered by code.
func (e *CategoryEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Codes returns a copy of the title to code mapping.
func (e *CategoryEncoder) Codes() map[string]int {
	out := make(map[string]int, len(e.codes))
	for k, v := range e.codes {
		out[k] = v
	}
	return out
}

// Len returns the number of known categories.
func (e *CategoryEncoder) Len() int {
	return len(e.classes)
}
