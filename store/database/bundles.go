// Copyright 2020 Drone.IO Inc. All rights reserved.
// Use of this source code is governed by the Polyform License
// that can be found in the LICENSE file.

package database

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/salarycast/salarycast/store"
	"github.com/salarycast/salarycast/types"
)

var _ store.BundleStore = (*BundleStore)(nil)

const bundleTable = "bundles"

var bundleColumns = []string{
	"bundle_id",
	"bundle_version",
	"bundle_currency",
	"bundle_documents",
	"bundle_created",
}

func NewBundleStore(db *sqlx.DB) *BundleStore {
	return &BundleStore{db: db, builder: statementBuilder(db.DriverName())}
}

type BundleStore struct {
	db      *sqlx.DB
	builder squirrel.StatementBuilderType
}

func (s BundleStore) Find(ctx context.Context, version string) (*types.BundleRecord, error) {
	stmt := s.builder.Select(bundleColumns...).
		From(bundleTable).
		Where(squirrel.Eq{"bundle_version": version}).
		OrderBy("bundle_created DESC").
		Limit(1)
	return s.get(ctx, stmt)
}

func (s BundleStore) Latest(ctx context.Context) (*types.BundleRecord, error) {
	stmt := s.builder.Select(bundleColumns...).
		From(bundleTable).
		OrderBy("bundle_created DESC").
		Limit(1)
	return s.get(ctx, stmt)
}

func (s BundleStore) get(ctx context.Context, stmt squirrel.SelectBuilder) (*types.BundleRecord, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}
	dst := new(types.BundleRecord)
	if err := s.db.GetContext(ctx, dst, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return dst, nil
}

func (s BundleStore) List(ctx context.Context) ([]*types.BundleRecord, error) {
	query, args, err := s.builder.Select(bundleColumns...).
		From(bundleTable).
		OrderBy("bundle_created DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	dst := []*types.BundleRecord{}
	err = s.db.SelectContext(ctx, &dst, query, args...)
	return dst, err
}

func (s BundleStore) Create(ctx context.Context, bundle *types.BundleRecord) error {
	query, args, err := s.builder.Insert(bundleTable).
		Columns(bundleColumns...).
		Values(
			bundle.ID,
			bundle.Version,
			bundle.Currency,
			bundle.Documents,
			bundle.Created,
		).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s BundleStore) Delete(ctx context.Context, version string) error {
	query, args, err := s.builder.Delete(bundleTable).
		Where(squirrel.Eq{"bundle_version": version}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
