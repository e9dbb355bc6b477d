// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package bundle

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/salarycast/salarycast/types"
)

var lastCreated atomic.Int64

// created returns the current time in nanoseconds, strictly greater than
// any value it returned before so that records pushed back to back keep
// their push order.
func created() int64 {
	for {
		last := lastCreated.Load()
		now := time.Now().UnixNano()
		if now <= last {
			now = last + 1
		}
		if lastCreated.CompareAndSwap(last, now) {
			return now
		}
	}
}

// Record converts b into a registry record with a fresh id.
func Record(b *Bundle) (*types.BundleRecord, error) {
	if b.Manifest.Version == "" {
		return nil, errors.New("bundle has no version")
	}
	docs, err := json.Marshal(b.Documents)
	if err != nil {
		return nil, errors.Wrap(err, "encode documents")
	}
	return &types.BundleRecord{
		ID:        uuid.New().String(),
		Version:   b.Manifest.Version,
		Currency:  b.Manifest.Currency,
		Documents: string(docs),
		Created:   created(),
	}, nil
}

// FromRecord rebuilds a bundle stored in the registry.
func FromRecord(rec *types.BundleRecord) (*Bundle, error) {
	var docs Documents
	if err := Parse(strings.NewReader(rec.Documents), &docs); err != nil {
		return nil, &LoadError{Artifact: "record", Path: rec.Version, Err: err}
	}
	var manifest Manifest
	manifest.Version = rec.Version
	manifest.Currency = rec.Currency
	return Build(manifest, docs)
}

// Summary describes b for the bundle endpoint and the artifacts command.
func Summary(b *Bundle) types.BundleSummary {
	scaler, minModel, maxModel := b.Pipeline.Describe()
	return types.BundleSummary{
		Version:  b.Manifest.Version,
		Currency: b.Manifest.Currency,
		Titles:   b.Pipeline.Titles(),
		Scaler:   scaler,
		MinModel: minModel,
		MaxModel: maxModel,
	}
}
