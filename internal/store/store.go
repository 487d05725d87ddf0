// internal/store/store.go

// Package store persists loans as documents. Every implementation keeps
// the same contract: single-result finds return (nil, nil) when nothing
// matches, multi-result finds return an empty slice, Save inserts or
// replaces and assigns a storage id on first insert. The business loan id
// is indexed but not unique, so duplicates are possible.
package store

import (
	"context"
	"fmt"

	"libraryloans/internal/config"
	"libraryloans/internal/loan"
)

// Store is a loan.Repository with lifecycle hooks.
type Store interface {
	loan.Repository
	// EnsureSchema creates tables or indexes the store relies on.
	EnsureSchema(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL)
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func clone(l *loan.Loan) *loan.Loan {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}
