// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package harness

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/salarycast/salarycast/app/bundle"
	"github.com/salarycast/salarycast/command/config"
	"github.com/salarycast/salarycast/store"
	"github.com/salarycast/salarycast/store/database"
	"github.com/salarycast/salarycast/types"
)

// LoadBundle loads the bundle to predict with, from the registry when a
// registry driver is configured and from the bundle path otherwise.
func LoadBundle(ctx context.Context, c *config.EnvConfig) (*bundle.Bundle, error) {
	if !c.UseRegistry() {
		logrus.WithField("path", c.Bundle.Path).Debugln("loading bundle from file")
		return bundle.Load(c.Bundle.Path)
	}

	bundles, closer, err := database.ProvideBundleStore(ctx, c.Registry.Driver.String(), c.Registry.Datasource)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return FetchBundle(ctx, bundles, c.Bundle.Version)
}

// FetchBundle rebuilds the bundle with the given version, or the newest
// bundle when version is empty.
func FetchBundle(ctx context.Context, bundles store.BundleStore, version string) (*bundle.Bundle, error) {
	logr := logrus.WithField("version", version)

	var (
		rec *types.BundleRecord
		err error
	)
	if version == "" {
		rec, err = bundles.Latest(ctx)
	} else {
		rec, err = bundles.Find(ctx, version)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "registry: cannot find bundle %q", version)
	}

	logr.WithField("id", rec.ID).Debugln("loading bundle from registry")
	return bundle.FromRecord(rec)
}
