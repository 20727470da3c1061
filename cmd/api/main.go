package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"notequiz/internal/chunkstore"
	"notequiz/internal/config"
	"notequiz/internal/http"
	"notequiz/internal/llm"
	"notequiz/internal/quiz"
	"notequiz/internal/retriever"
	"notequiz/internal/storage"
	"notequiz/internal/vectorstore"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API turns uploaded study notes into multiple-choice quizzes. Notes are
// chunked and embedded into a vector index; quiz generation retrieves the
// most relevant chunks and prompts a hosted LLM, then parses the reply into
// validated questions.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: NoteQuiz API
//   description: |
//     Retrieval-augmented quiz generation from uploaded notes.
//   version: 1.0.0
// schemes:
//   - http
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	noteRepo := storage.NewNoteRepo(db)

	ctx := context.Background()

	// Initialize the vector store backend
	var vectorStore vectorstore.VectorStore
	switch cfg.VectorBackend {
	case "pinecone":
		vectorStore, err = vectorstore.NewPineconeStore(cfg.PineconeAPIKey, cfg.Collection, cfg.PineconeRegion, cfg.VectorSize)
		if err != nil {
			log.Fatalf("Failed to create Pinecone client: %v", err)
		}
	default:
		vectorStore, err = vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
	}

	// Ensure the collection exists with the correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.Collection, cfg.VectorSize); err != nil {
		log.Fatalf("Failed to ensure vector collection: %v", err)
	}
	slog.Info("Vector collection ready", "backend", cfg.VectorBackend, "collection", cfg.Collection, "vector_size", cfg.VectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.VectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.VectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)

	chunks := chunkstore.New(embedder, vectorStore, cfg.Collection, cfg.ChunkSize, cfg.ChunkOverlap)
	contextRetriever := retriever.New(embedder, vectorStore, cfg.Collection)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	quizEngine := quiz.NewEngine(contextRetriever, llmClient, cfg.LLMModelName, cfg.LLMMaxTokens, cfg.TopK)
	slog.Info("Quiz engine initialized", "model", cfg.LLMModelName, "top_k", cfg.TopK)

	deps := &http.Deps{
		Quiz:       quizEngine,
		Chunks:     chunks,
		Notes:      noteRepo,
		Vectors:    vectorStore,
		Collection: cfg.Collection,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
