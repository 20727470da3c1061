package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"

	"notequiz/internal/contextutil"
	"notequiz/internal/storage"
)

// ListNotesHandler handles HTTP requests for listing registered notes.
type ListNotesHandler struct {
	notes storage.NoteStore
}

// NewListNotesHandler creates a new ListNotesHandler.
func NewListNotesHandler(notes storage.NoteStore) *ListNotesHandler {
	return &ListNotesHandler{notes: notes}
}

// NoteResponse represents one registered note.
//
// swagger:model NoteResponse
type NoteResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ChunkCount int    `json:"chunk_count"`
	UpdatedAt  string `json:"updated_at"`
}

// NoteListResponse represents the note listing response.
//
// swagger:model NoteListResponse
type NoteListResponse struct {
	Notes []NoteResponse `json:"notes"`
}

// ServeHTTP handles HTTP requests for listing notes. The optional ?q
// parameter fuzzy-matches against note names.
func (h *ListNotesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	records, err := h.notes.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list notes", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if query := r.URL.Query().Get("q"); query != "" {
		records = lo.Filter(records, func(record *storage.NoteRecord, _ int) bool {
			return fuzzy.MatchFold(query, record.Name)
		})
	}

	notes := make([]NoteResponse, 0, len(records))
	for _, record := range records {
		notes = append(notes, NoteResponse{
			ID:         record.ID,
			Name:       record.Name,
			ChunkCount: record.ChunkCount,
			UpdatedAt:  record.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes})
}

// DeleteNoteHandler handles HTTP requests for deleting a note and its chunks.
type DeleteNoteHandler struct {
	chunks ChunkStore
	notes  storage.NoteStore
}

// NewDeleteNoteHandler creates a new DeleteNoteHandler.
func NewDeleteNoteHandler(chunks ChunkStore, notes storage.NoteStore) *DeleteNoteHandler {
	return &DeleteNoteHandler{chunks: chunks, notes: notes}
}

// DeleteNoteResponse represents the note deletion response.
//
// swagger:model DeleteNoteResponse
type DeleteNoteResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ServeHTTP handles HTTP requests for note deletion. Chunks are removed from
// the vector index before the registry row, so a failure never leaves
// orphaned vectors behind a missing registry entry.
func (h *DeleteNoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodDelete {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	noteID := chi.URLParam(r, "id")
	if noteID == "" {
		writeError(w, http.StatusBadRequest, "Note id is required")
		return
	}

	if _, err := h.notes.GetByID(ctx, noteID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		logger.ErrorContext(ctx, "failed to look up note", "note_id", noteID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.chunks.DeleteNote(ctx, noteID); err != nil {
		logger.ErrorContext(ctx, "failed to delete chunks", "note_id", noteID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.notes.Delete(ctx, noteID); err != nil {
		logger.ErrorContext(ctx, "failed to delete note record", "note_id", noteID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.InfoContext(ctx, "note deleted", "note_id", noteID)

	writeJSON(w, http.StatusOK, DeleteNoteResponse{
		ID:      noteID,
		Message: "Note and stored chunks deleted",
	})
}
