package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"notequiz/internal/quiz"
	"notequiz/internal/storage"
	"notequiz/internal/vectorstore/mocks"
)

type stubQuizService struct{}

func (stubQuizService) Generate(context.Context, quiz.GenerateRequest) (*quiz.Result, error) {
	return &quiz.Result{}, nil
}

type stubChunkStore struct{}

func (stubChunkStore) StoreNote(context.Context, string, string) (int, error) { return 0, nil }
func (stubChunkStore) DeleteNote(context.Context, string) error               { return nil }

type stubNoteStore struct{}

func (stubNoteStore) Upsert(context.Context, *storage.NoteRecord) error { return nil }
func (stubNoteStore) GetByID(context.Context, string) (*storage.NoteRecord, error) {
	return nil, storage.ErrNotFound
}
func (stubNoteStore) ListAll(context.Context) ([]*storage.NoteRecord, error) { return nil, nil }
func (stubNoteStore) Delete(context.Context, string) error                   { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockStore := mocks.NewMockVectorStore(ctrl)
	mockStore.EXPECT().ListNamespaces(gomock.Any()).Return([]string{"quiz-notes"}, nil).AnyTimes()
	mockStore.EXPECT().CollectionExists(gomock.Any(), "quiz-notes").Return(true, nil).AnyTimes()

	return NewRouter(&Deps{
		Quiz:       stubQuizService{},
		Chunks:     stubChunkStore{},
		Notes:      stubNoteStore{},
		Vectors:    mockStore,
		Collection: "quiz-notes",
	})
}

func TestNewRouter(t *testing.T) {
	if newTestRouter(t) == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "POST /generate-quiz exists",
			method:     http.MethodPost,
			path:       "/generate-quiz",
			wantStatus: http.StatusBadRequest, // Bad request due to missing form fields, but route exists
		},
		{
			name:       "GET /generate-quiz method not allowed",
			method:     http.MethodGet,
			path:       "/generate-quiz",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "POST /upload-notes exists",
			method:     http.MethodPost,
			path:       "/upload-notes",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /warmup exists",
			method:     http.MethodGet,
			path:       "/warmup",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /notes exists",
			method:     http.MethodGet,
			path:       "/notes",
			wantStatus: http.StatusOK,
		},
		{
			name:       "DELETE /notes/{id} exists",
			method:     http.MethodDelete,
			path:       "/notes/unknown",
			wantStatus: http.StatusNotFound, // Unknown id, but route exists
		},
		{
			name:       "GET /health exists",
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}
