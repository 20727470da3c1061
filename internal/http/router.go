package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"notequiz/internal/handlers"
	"notequiz/internal/storage"
	"notequiz/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Quiz       handlers.QuizService
	Chunks     handlers.ChunkStore
	Notes      storage.NoteStore
	Vectors    vectorstore.VectorStore
	Collection string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	r.Method(http.MethodPost, "/generate-quiz", handlers.NewGenerateHandler(deps.Quiz))
	r.Method(http.MethodPost, "/upload-notes", handlers.NewUploadHandler(deps.Chunks, deps.Notes))
	r.Method(http.MethodGet, "/warmup", handlers.NewWarmupHandler(deps.Vectors))
	r.Method(http.MethodGet, "/notes", handlers.NewListNotesHandler(deps.Notes))
	r.Method(http.MethodDelete, "/notes/{id}", handlers.NewDeleteNoteHandler(deps.Chunks, deps.Notes))
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.Vectors, deps.Collection))

	return r
}
