package handlers

import (
	"net/http"

	"notequiz/internal/contextutil"
	"notequiz/internal/vectorstore"
)

// WarmupHandler touches the vector index so the first real request does not
// pay cold-start latency.
type WarmupHandler struct {
	vectors vectorstore.VectorStore
}

// NewWarmupHandler creates a new WarmupHandler.
func NewWarmupHandler(vectors vectorstore.VectorStore) *WarmupHandler {
	return &WarmupHandler{vectors: vectors}
}

// WarmupResponse represents the warmup response.
//
// swagger:model WarmupResponse
type WarmupResponse struct {
	Status     string   `json:"status"`
	Namespaces []string `json:"namespaces"`
	Details    string   `json:"details,omitempty"`
}

// ServeHTTP handles HTTP requests for index warmup.
func (h *WarmupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	namespaces, err := h.vectors.ListNamespaces(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "warmup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, WarmupResponse{
			Status:  "error",
			Details: err.Error(),
		})
		return
	}

	if namespaces == nil {
		namespaces = []string{}
	}

	writeJSON(w, http.StatusOK, WarmupResponse{
		Status:     "warm",
		Namespaces: namespaces,
	})
}
