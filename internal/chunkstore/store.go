package chunkstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"notequiz/internal/contextutil"
	"notequiz/internal/vectorstore"
)

// Embedder generates one embedding per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Store splits note content into chunks, embeds them, and persists the
// vectors scoped to the owning note id. Chunks are immutable once written;
// re-uploading a note goes through DeleteNote first.
type Store struct {
	embedder     Embedder
	vectors      vectorstore.VectorStore
	collection   string
	chunkSize    int
	chunkOverlap int
}

// New creates a chunk store writing into the given collection.
func New(embedder Embedder, vectors vectorstore.VectorStore, collection string, chunkSize, chunkOverlap int) *Store {
	return &Store{
		embedder:     embedder,
		vectors:      vectors,
		collection:   collection,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// StoreNote splits content into overlapping chunks, embeds them in one batch
// call, and upserts each chunk as (synthetic uuid, vector, {note_id, text}).
// Returns the number of chunks stored. Index write failures are not retried.
func (s *Store) StoreNote(ctx context.Context, noteID, content string) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.chunkOverlap),
	)
	chunks, err := splitter.SplitText(content)
	if err != nil {
		return 0, fmt.Errorf("failed to split content: %w", err)
	}

	if len(chunks) == 0 {
		logger.WarnContext(ctx, "no chunks generated", "note_id", noteID)
		return 0, nil
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:  uuid.New().String(),
			Vec: embeddings[i],
			Meta: map[string]any{
				"note_id": noteID,
				"text":    chunk,
			},
		}
	}

	if err := s.vectors.Upsert(ctx, s.collection, points); err != nil {
		return 0, fmt.Errorf("failed to upsert chunks: %w", err)
	}

	logger.InfoContext(ctx, "stored note chunks", "note_id", noteID, "chunks", len(chunks))
	return len(chunks), nil
}

// DeleteNote removes every chunk stored under noteID so a re-upload produces
// a clean replacement set. Deleting a note with no stored chunks is a no-op.
func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if err := s.vectors.DeleteByFilter(ctx, s.collection, map[string]any{"note_id": noteID}); err != nil {
		return fmt.Errorf("failed to delete chunks for note %s: %w", noteID, err)
	}

	logger.InfoContext(ctx, "deleted note chunks", "note_id", noteID)
	return nil
}
