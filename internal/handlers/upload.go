package handlers

import (
	"context"
	"net/http"

	"notequiz/internal/contextutil"
	"notequiz/internal/storage"
)

// ChunkStore persists and removes a note's chunk vectors.
type ChunkStore interface {
	StoreNote(ctx context.Context, noteID, content string) (int, error)
	DeleteNote(ctx context.Context, noteID string) error
}

// UploadHandler handles HTTP requests for note uploads.
type UploadHandler struct {
	chunks ChunkStore
	notes  storage.NoteStore
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(chunks ChunkStore, notes storage.NoteStore) *UploadHandler {
	return &UploadHandler{chunks: chunks, notes: notes}
}

// UploadResponse represents the note upload response.
//
// swagger:model UploadResponse
type UploadResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Message      string `json:"message"`
	ChunksStored bool   `json:"chunks_stored"`
}

// ServeHTTP handles HTTP requests for note uploads. Existing chunks for the
// note id are deleted first so a re-upload produces a clean replacement set.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "invalid form data", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	noteID := r.PostFormValue("id")
	name := r.PostFormValue("name")
	content := r.PostFormValue("content")
	if noteID == "" || name == "" || content == "" {
		logger.WarnContext(ctx, "missing upload fields", "note_id", noteID)
		writeError(w, http.StatusBadRequest, "Fields id, name, and content are required")
		return
	}

	if err := h.chunks.DeleteNote(ctx, noteID); err != nil {
		logger.ErrorContext(ctx, "failed to delete existing chunks", "note_id", noteID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	count, err := h.chunks.StoreNote(ctx, noteID, content)
	if err != nil {
		logger.ErrorContext(ctx, "failed to store chunks", "note_id", noteID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.notes.Upsert(ctx, &storage.NoteRecord{ID: noteID, Name: name, ChunkCount: count}); err != nil {
		logger.ErrorContext(ctx, "failed to register note", "note_id", noteID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.InfoContext(ctx, "note uploaded", "note_id", noteID, "chunks", count)

	writeJSON(w, http.StatusOK, UploadResponse{
		ID:           noteID,
		Name:         name,
		Message:      "Notes uploaded and stored successfully",
		ChunksStored: true,
	})
}
