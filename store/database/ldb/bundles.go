// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

// Package ldb stores artifact bundles in an embedded leveldb database.
package ldb

import (
	"bytes"
	"context"
	"encoding/gob"
	"sort"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/salarycast/salarycast/store"
	"github.com/salarycast/salarycast/types"
)

var _ store.BundleStore = (*BundleStore)(nil)

const keyPrefix = "bundle-"

func NewBundleStore(db *leveldb.DB) *BundleStore {
	return &BundleStore{db}
}

type BundleStore struct {
	db *leveldb.DB
}

func (s BundleStore) getKey(id string) []byte {
	return []byte(keyPrefix + id)
}

func (s BundleStore) Find(_ context.Context, version string) (*types.BundleRecord, error) {
	bundles, err := s.scan(version)
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return nil, store.ErrNotFound
	}
	return bundles[0], nil
}

func (s BundleStore) Latest(_ context.Context) (*types.BundleRecord, error) {
	bundles, err := s.scan("")
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return nil, store.ErrNotFound
	}
	return bundles[0], nil
}

func (s BundleStore) List(_ context.Context) ([]*types.BundleRecord, error) {
	return s.scan("")
}

func (s BundleStore) Create(_ context.Context, bundle *types.BundleRecord) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(bundle); err != nil {
		return err
	}
	return s.db.Put(s.getKey(bundle.ID), buf.Bytes(), nil)
}

func (s BundleStore) Delete(_ context.Context, version string) error {
	bundles, err := s.scan(version)
	if err != nil {
		return err
	}
	if len(bundles) == 0 {
		return store.ErrNotFound
	}
	batch := new(leveldb.Batch)
	for _, b := range bundles {
		batch.Delete(s.getKey(b.ID))
	}
	return s.db.Write(batch, nil)
}

// scan returns the bundles matching version, newest first. An empty
// version matches every bundle.
func (s BundleStore) scan(version string) ([]*types.BundleRecord, error) {
	bundles := make([]*types.BundleRecord, 0)

	iter := s.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer iter.Release()
	for iter.Next() {
		b := new(types.BundleRecord)
		if err := gob.NewDecoder(bytes.NewReader(iter.Value())).Decode(b); err != nil {
			return nil, err
		}
		if version == "" || b.Version == version {
			bundles = append(bundles, b)
		}
	}

	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, err
	}

	sort.SliceStable(bundles, func(i, j int) bool {
		return bundles[i].Created > bundles[j].Created
	})
	return bundles, nil
}
