// Package storage is the asset hand-off boundary: durable storage for
// generated artifacts plus public URL issuance. Implementations never write
// job records; the orchestrator applies the returned URL itself.
package storage

import "context"

// Store persists generated artifacts.
type Store interface {
	// Store writes the artifact for jobID and returns its public URL.
	Store(ctx context.Context, jobID string, data []byte, format string) (string, error)
	// Load reads back the artifact behind a previously issued public URL.
	Load(ctx context.Context, publicURL string) ([]byte, error)
	// Delete removes the artifact behind a previously issued public URL.
	Delete(ctx context.Context, publicURL string) error
}
