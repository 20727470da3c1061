package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks notequiz/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
// The process holds one implementation, constructed at startup and shared
// across requests; the backing service handles its own concurrency control.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search with optional metadata filters.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// DeleteByFilter removes every point whose metadata matches the filters.
	// Removing zero points is a no-op, not an error.
	DeleteByFilter(ctx context.Context, collection string, filters map[string]any) error

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// EnsureCollection ensures a collection exists with the given vector size.
	// An existing collection with a different dimension is a hard error.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// ListNamespaces returns the names of the namespaces/collections the store
	// currently holds. Used by the warmup endpoint to touch the index.
	ListNamespaces(ctx context.Context) ([]string, error)
}
