// Package migrations provides embedded SQL migration files.
package migrations

import (
	_ "embed"
)

// InitialSQL creates the cache schema. Every statement is idempotent, so it
// is safe to run on each open.
//
//go:embed sql/001_initial.sql
var InitialSQL string
