package port

import "context"

// Store is the persistence contract: keyed records grouped into named
// collections. Implementations decide the storage medium and format.
type Store interface {
	// Get decodes the record at collection/key into out and reports
	// whether it existed.
	Get(ctx context.Context, collection, key string, out any) (bool, error)
	// Set writes the record at collection/key, replacing any previous value.
	Set(ctx context.Context, collection, key string, value any) error
	// Update merges the given fields into the existing record. Updating
	// a missing key is an error.
	Update(ctx context.Context, collection, key string, fields map[string]any) error
	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, collection, key string) (bool, error)
	// Has reports whether a record exists at collection/key.
	Has(ctx context.Context, collection, key string) (bool, error)
	// Find decodes all records whose fields match the filter into out,
	// which must be a pointer to a slice.
	Find(ctx context.Context, collection string, filter map[string]any, out any) error
	// All decodes every record in the collection into out, which must be
	// a pointer to a slice.
	All(ctx context.Context, collection string, out any) error
}
