// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package database

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/salarycast/salarycast/store"
	"github.com/salarycast/salarycast/store/database/ldb"
)

// ProvideBundleStore opens the registry named by driver and returns the
// bundle store together with a closer releasing the underlying database.
func ProvideBundleStore(ctx context.Context, driver, datasource string) (store.BundleStore, io.Closer, error) {
	switch driver {
	case DriverLevelDB:
		db, err := leveldb.OpenFile(datasource, nil)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "cannot open leveldb registry at %s", datasource)
		}
		return ldb.NewBundleStore(db), db, nil
	case DriverPostgres:
		db, err := Connect(ctx, driver, datasource)
		if err != nil {
			return nil, nil, err
		}
		return NewBundleStore(db), db, nil
	case DriverSqlite:
		db, err := Connect(ctx, driver, datasource)
		if err != nil {
			return nil, nil, err
		}
		return NewBundleStoreSync(NewBundleStore(db)), db, nil
	default:
		return nil, nil, errors.Errorf("unsupported registry driver %q", driver)
	}
}
