package repository

import (
	"context"
	"time"

	"lookbook-server-go/internal/domain/catalog/aggregate"
)

// CandidateFilter selects products for a validation run.
//
// When IDs is non-empty the filter resolves exactly those products (active
// only) and Limit is ignored. Otherwise active, non-duplicate products are
// selected; unless Force is set, only those still pending with at least one
// image URL.
type CandidateFilter struct {
	IDs   []string
	Force bool
	Limit int
}

// ProductRepository is the store contract the pipeline depends on. Each update
// is an independent per-row commit; no multi-row transaction is assumed.
type ProductRepository interface {
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]*aggregate.Product, error)

	// UpdateImageValidation persists the outcome of a deep check for one product.
	UpdateImageValidation(ctx context.Context, id string, v aggregate.ImageValidation) error

	// UpdateURLReachability persists the outcome of a reachability probe
	// without touching the content-validation fields.
	UpdateURLReachability(ctx context.Context, id string, reachable bool, status aggregate.ValidationStatus, errMsg string, at time.Time) error

	// FindFailedBefore returns IDs of active products whose validation failed
	// before the cutoff, capped to limit.
	FindFailedBefore(ctx context.Context, cutoff time.Time, limit int) ([]string, error)
}
