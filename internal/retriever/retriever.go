package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"notequiz/internal/contextutil"
	"notequiz/internal/vectorstore"
)

// DefaultTopK is the number of nearest-neighbor chunks retrieved per query
// when the caller does not specify one.
const DefaultTopK = 5

// Embedder generates one embedding per input text. It must be the same
// model/dimension used when the chunks were stored.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever answers note-scoped similarity queries with a concatenated
// context string built from the best-matching chunks.
type Retriever struct {
	embedder   Embedder
	vectors    vectorstore.VectorStore
	collection string
}

// New creates a retriever reading from the given collection.
func New(embedder Embedder, vectors vectorstore.VectorStore, collection string) *Retriever {
	return &Retriever{
		embedder:   embedder,
		vectors:    vectors,
		collection: collection,
	}
}

// Retrieve embeds the query, searches the index restricted to noteID, and
// returns the top-K chunk texts deduplicated in first-seen order and joined
// with blank lines. Zero matches yields an empty string, not an error; a
// brand-new note simply has nothing stored yet. The result length is bounded
// only by chunk size times topK; callers with a token budget truncate
// downstream.
func (r *Retriever) Retrieve(ctx context.Context, noteID, query string, topK int) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if topK <= 0 {
		topK = DefaultTopK
	}

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return "", fmt.Errorf("no embedding returned for query")
	}

	results, err := r.vectors.Search(ctx, r.collection, embeddings[0], topK, map[string]any{"note_id": noteID})
	if err != nil {
		return "", fmt.Errorf("failed to search chunks: %w", err)
	}

	if len(results) == 0 {
		logger.InfoContext(ctx, "no chunks found", "note_id", noteID)
		return "", nil
	}

	texts := make([]string, 0, len(results))
	for _, result := range results {
		text, ok := result.Meta["text"].(string)
		if !ok || text == "" {
			logger.WarnContext(ctx, "chunk missing text metadata", "point_id", result.PointID)
			continue
		}
		texts = append(texts, text)
	}

	// Overlapping chunks or a repeated point id can produce duplicate text;
	// keep the first occurrence only.
	texts = lo.Uniq(texts)

	logger.InfoContext(ctx, "retrieved context", "note_id", noteID, "chunks", len(texts))
	return strings.Join(texts, "\n\n"), nil
}
