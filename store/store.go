package store

import (
	"context"
	"errors"

	"github.com/salarycast/salarycast/types"
)

// ErrNotFound is returned when no bundle matches the requested version.
var ErrNotFound = errors.New("store: bundle not found")

type BundleStore interface {
	// Find returns the most recently created bundle with the given version.
	Find(ctx context.Context, version string) (*types.BundleRecord, error)
	// Latest returns the most recently created bundle of any version.
	Latest(ctx context.Context) (*types.BundleRecord, error)
	List(ctx context.Context) ([]*types.BundleRecord, error)
	Create(ctx context.Context, bundle *types.BundleRecord) error
	Delete(ctx context.Context, version string) error
}
