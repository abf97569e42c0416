// Package store holds telemetry submitted by extension clients. Two
// implementations exist: a bounded in-memory store for development and a
// Postgres-backed store for deployments; the serving layer is written
// against the interfaces here and picks one at startup.
package store

import (
	"context"

	"netwatch/internal/model"
)

// Store is the write-side contract shared by both backends. Every call
// returns an outcome: the in-memory store cannot fail, the Postgres store
// surfaces connection and query errors, which the caller reports rather
// than retrying.
type Store interface {
	AddLog(ctx context.Context, entry model.LogEntry) error
	GetBlocklist(ctx context.Context) (model.Blocklist, error)
	UpdateBlocklist(ctx context.Context, bl model.Blocklist) error
	AddExtensionEvent(ctx context.Context, ev model.ExtensionEvent) error
}

// Snapshot is the read-side contract backing the dashboard. Only the
// in-memory store implements it; the serving layer registers dashboard
// routes only when its store does. Returned slices are copies in insertion
// order, oldest first, sharing no mutable state with the store.
type Snapshot interface {
	GetLogs(ctx context.Context) ([]model.LogEntry, error)
	GetExtensionEvents(ctx context.Context) ([]model.ExtensionEvent, error)
}
