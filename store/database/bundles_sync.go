// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package database

import (
	"context"

	"github.com/salarycast/salarycast/store"
	"github.com/salarycast/salarycast/store/database/mutex"
	"github.com/salarycast/salarycast/types"
)

var _ store.BundleStore = (*BundleStoreSync)(nil)

func NewBundleStoreSync(base *BundleStore) *BundleStoreSync {
	return &BundleStoreSync{base}
}

type BundleStoreSync struct{ base *BundleStore }

func (b BundleStoreSync) Find(ctx context.Context, version string) (*types.BundleRecord, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	return b.base.Find(ctx, version)
}

func (b BundleStoreSync) Latest(ctx context.Context) (*types.BundleRecord, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	return b.base.Latest(ctx)
}

func (b BundleStoreSync) List(ctx context.Context) ([]*types.BundleRecord, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	return b.base.List(ctx)
}

func (b BundleStoreSync) Create(ctx context.Context, bundle *types.BundleRecord) error {
	mutex.Lock()
	defer mutex.Unlock()
	return b.base.Create(ctx, bundle)
}

func (b BundleStoreSync) Delete(ctx context.Context, version string) error {
	mutex.Lock()
	defer mutex.Unlock()
	return b.base.Delete(ctx, version)
}
