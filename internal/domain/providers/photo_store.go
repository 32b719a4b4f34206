package providers

import "context"

// PhotoStore accepts decoded binary content keyed by a generated name.
// Failures degrade gracefully: a reading whose photo fails to persist is
// still recorded, with the reference left unset.
type PhotoStore interface {
	// Save stores a blob under the given name
	Save(ctx context.Context, name string, data []byte) error
}
