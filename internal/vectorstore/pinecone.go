package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"notequiz/internal/contextutil"
)

// deleteCandidateLimit bounds the candidate query used for filtered deletion.
// Pinecone has no delete-by-metadata-filter on serverless indexes and no
// unbounded listing, so deletion queries a neutral vector restricted to the
// filter and deletes the returned ids.
const deleteCandidateLimit = 1000

// PineconeStore implements VectorStore using a Pinecone serverless index.
// Pinecone has one index per store, so the collection argument of the
// VectorStore methods is ignored in favor of the configured index name.
type PineconeStore struct {
	client    *pinecone.Client
	indexName string
	dimension int
	region    string

	mu   sync.Mutex
	conn *pinecone.IndexConnection
}

// NewPineconeStore creates a new Pinecone vector store client.
// dimension must match the embedding model's output size; the index is
// created with it and queried against it.
func NewPineconeStore(apiKey, indexName, region string, dimension int) (*PineconeStore, error) {
	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	return &PineconeStore{
		client:    client,
		indexName: indexName,
		dimension: dimension,
		region:    region,
	}, nil
}

// connection lazily resolves the index host and opens a connection,
// reusing it across requests.
func (s *PineconeStore) connection(ctx context.Context) (*pinecone.IndexConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn, nil
	}

	idx, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index %s: %w", s.indexName, err)
	}

	conn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host: idx.Host,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index connection: %w", err)
	}

	s.conn = conn
	return conn, nil
}

// Upsert inserts or updates points in the index.
func (s *PineconeStore) Upsert(ctx context.Context, _ string, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}

	conn, err := s.connection(ctx)
	if err != nil {
		return err
	}

	vectors := make([]*pinecone.Vector, 0, len(points))
	for _, point := range points {
		values := point.Vec
		vector := &pinecone.Vector{
			Id:     point.ID,
			Values: &values,
		}
		if len(point.Meta) > 0 {
			metadata, err := structpb.NewStruct(point.Meta)
			if err != nil {
				return fmt.Errorf("failed to build metadata for point %s: %w", point.ID, err)
			}
			vector.Metadata = metadata
		}
		vectors = append(vectors, vector)
	}

	count, err := conn.UpsertVectors(ctx, vectors)
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert vectors", "index", s.indexName, "count", len(vectors), "error", err)
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	logger.InfoContext(ctx, "upserted vectors", "index", s.indexName, "count", count)
	return nil
}

// Search performs a similarity search with optional metadata filters.
func (s *PineconeStore) Search(ctx context.Context, _ string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	conn, err := s.connection(ctx)
	if err != nil {
		return nil, err
	}

	req := &pinecone.QueryByVectorValuesRequest{
		Vector:          query,
		TopK:            uint32(k),
		IncludeValues:   false,
		IncludeMetadata: true,
	}

	if len(filters) > 0 {
		filterStruct, err := buildMetadataFilter(filters)
		if err != nil {
			return nil, err
		}
		req.MetadataFilter = filterStruct
	}

	result, err := conn.QueryByVectorValues(ctx, req)
	if err != nil {
		logger.ErrorContext(ctx, "failed to query vectors", "index", s.indexName, "k", k, "error", err)
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	results := make([]SearchResult, 0, len(result.Matches))
	for _, match := range result.Matches {
		if match.Vector == nil {
			continue
		}
		meta := make(map[string]any)
		if match.Vector.Metadata != nil {
			meta = match.Vector.Metadata.AsMap()
		}
		results = append(results, SearchResult{
			PointID: match.Vector.Id,
			Score:   match.Score,
			Meta:    meta,
		})
	}

	logger.InfoContext(ctx, "query completed", "index", s.indexName, "k", k, "results", len(results))
	return results, nil
}

// Delete removes points by their IDs.
func (s *PineconeStore) Delete(ctx context.Context, _ string, ids []string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(ids) == 0 {
		return nil
	}

	conn, err := s.connection(ctx)
	if err != nil {
		return err
	}

	if err := conn.DeleteVectorsById(ctx, ids); err != nil {
		logger.ErrorContext(ctx, "failed to delete vectors", "index", s.indexName, "count", len(ids), "error", err)
		return fmt.Errorf("failed to delete vectors: %w", err)
	}

	logger.InfoContext(ctx, "deleted vectors", "index", s.indexName, "count", len(ids))
	return nil
}

// DeleteByFilter removes every point whose metadata matches the filters.
// A zero vector restricted to the filter collects candidate ids (bounded by
// deleteCandidateLimit), which are then deleted by id. Zero candidates is a
// no-op, not an error.
func (s *PineconeStore) DeleteByFilter(ctx context.Context, _ string, filters map[string]any) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(filters) == 0 {
		return fmt.Errorf("refusing to delete without filters")
	}

	conn, err := s.connection(ctx)
	if err != nil {
		return err
	}

	filterStruct, err := buildMetadataFilter(filters)
	if err != nil {
		return err
	}

	zeroVector := make([]float32, s.dimension)
	result, err := conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          zeroVector,
		TopK:            deleteCandidateLimit,
		MetadataFilter:  filterStruct,
		IncludeValues:   false,
		IncludeMetadata: false,
	})
	if err != nil {
		return fmt.Errorf("failed to query candidate vectors for deletion: %w", err)
	}

	ids := make([]string, 0, len(result.Matches))
	for _, match := range result.Matches {
		if match.Vector != nil {
			ids = append(ids, match.Vector.Id)
		}
	}

	if len(ids) == 0 {
		logger.InfoContext(ctx, "no vectors matched deletion filter", "index", s.indexName, "filters", filters)
		return nil
	}

	if err := conn.DeleteVectorsById(ctx, ids); err != nil {
		logger.ErrorContext(ctx, "failed to delete vectors by filter", "index", s.indexName, "count", len(ids), "error", err)
		return fmt.Errorf("failed to delete vectors: %w", err)
	}

	logger.InfoContext(ctx, "deleted vectors by filter", "index", s.indexName, "count", len(ids))
	return nil
}

// CollectionExists checks if the configured index exists.
func (s *PineconeStore) CollectionExists(ctx context.Context, _ string) (bool, error) {
	indexes, err := s.client.ListIndexes(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list indexes: %w", err)
	}
	for _, idx := range indexes {
		if idx.Name == s.indexName {
			return true, nil
		}
	}
	return false, nil
}

// EnsureCollection ensures the serverless index exists with the given vector
// size. An existing index with a different dimension is a hard error.
func (s *PineconeStore) EnsureCollection(ctx context.Context, _ string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.CollectionExists(ctx, s.indexName)
	if err != nil {
		return err
	}

	if !exists {
		logger.InfoContext(ctx, "creating serverless index", "index", s.indexName, "dimension", vectorSize, "region", s.region)
		dimension := int32(vectorSize)
		metric := pinecone.Cosine
		deletionProtection := pinecone.DeletionProtectionDisabled
		_, err := s.client.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
			Name:               s.indexName,
			Dimension:          &dimension,
			Metric:             &metric,
			Cloud:              pinecone.Aws,
			Region:             s.region,
			DeletionProtection: &deletionProtection,
		})
		if err != nil {
			return fmt.Errorf("failed to create serverless index: %w", err)
		}
		logger.InfoContext(ctx, "serverless index created", "index", s.indexName, "dimension", vectorSize)
		return nil
	}

	idx, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return fmt.Errorf("failed to describe index: %w", err)
	}
	if idx.Dimension != nil && int(*idx.Dimension) != vectorSize {
		return fmt.Errorf("index dimension mismatch: expected %d, got %d", vectorSize, *idx.Dimension)
	}

	logger.InfoContext(ctx, "index validated", "index", s.indexName, "dimension", vectorSize)
	return nil
}

// ListNamespaces returns the namespaces present in the index stats.
func (s *PineconeStore) ListNamespaces(ctx context.Context) ([]string, error) {
	conn, err := s.connection(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := conn.DescribeIndexStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index stats: %w", err)
	}

	names := make([]string, 0, len(stats.Namespaces))
	for name := range stats.Namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// buildMetadataFilter converts generic equality filters into Pinecone's
// $eq metadata filter document.
func buildMetadataFilter(filters map[string]any) (*structpb.Struct, error) {
	doc := make(map[string]any, len(filters))
	for key, value := range filters {
		doc[key] = map[string]any{"$eq": value}
	}
	filterStruct, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata filter: %w", err)
	}
	return filterStruct, nil
}
