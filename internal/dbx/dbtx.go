// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx, and a
// Provider capability that hands out the current live handle.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Provider hands out the live store handle. Conn fails with
// common.ErrDependencyUnavailable while the store is not connected.
//
// ReportFailure lets callers signal that a round-trip on the handle failed so
// the owner can re-check the link without waiting for its next probe.
type Provider interface {
	Conn() (DBTX, error)
	ReportFailure(err error)
}

// Static is a Provider that always returns the same handle. It is meant for
// one-shot tools and tests where no supervision is needed.
type Static struct {
	DB DBTX
}

func (s Static) Conn() (DBTX, error) { return s.DB, nil }

func (s Static) ReportFailure(error) {}
