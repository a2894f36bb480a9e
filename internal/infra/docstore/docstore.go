// Package docstore persists a small fixed set of named documents. Every
// backend offers the same contract: Load returns the last full snapshot and
// Save replaces it atomically, so readers observe either the pre- or
// post-write document, never an interleaving.
package docstore

import "context"

// Names of the persisted documents.
const (
	DocAccess  = "access"
	DocAlerts  = "alerts"
	DocSymbols = "symbols"
)

type Store interface {
	// Load returns the document payload and whether it exists.
	Load(ctx context.Context, name string) ([]byte, bool, error)
	// Save replaces the document in full.
	Save(ctx context.Context, name string, data []byte) error
	Close() error
}
