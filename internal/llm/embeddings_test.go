package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		status       int
		texts        []string
		expectedSize int
		wantCount    int
		wantErr      bool
	}{
		{
			name:         "successful batch embedding",
			response:     `{"data":[{"index":0,"embedding":[0.1,0.2,0.3]},{"index":1,"embedding":[0.4,0.5,0.6]}]}`,
			status:       http.StatusOK,
			texts:        []string{"first chunk", "second chunk"},
			expectedSize: 3,
			wantCount:    2,
		},
		{
			name:         "dimension mismatch is a hard error",
			response:     `{"data":[{"index":0,"embedding":[0.1,0.2]}]}`,
			status:       http.StatusOK,
			texts:        []string{"chunk"},
			expectedSize: 3,
			wantErr:      true,
		},
		{
			name:         "count mismatch",
			response:     `{"data":[{"index":0,"embedding":[0.1,0.2,0.3]}]}`,
			status:       http.StatusOK,
			texts:        []string{"a", "b"},
			expectedSize: 3,
			wantErr:      true,
		},
		{
			name:         "upstream failure propagates",
			response:     `{"error":{"message":"overloaded"}}`,
			status:       http.StatusServiceUnavailable,
			texts:        []string{"chunk"},
			expectedSize: 3,
			wantErr:      true,
		},
		{
			name:         "empty input rejected",
			texts:        []string{},
			expectedSize: 3,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer srv.Close()

			client := NewEmbeddingsClient(srv.URL+"/v1", "test-key", "test-embed-model", tt.expectedSize)
			got, err := client.EmbedTexts(context.Background(), tt.texts)

			if tt.wantErr {
				if err == nil {
					t.Errorf("EmbedTexts() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("EmbedTexts() unexpected error: %v", err)
			}
			if len(got) != tt.wantCount {
				t.Errorf("EmbedTexts() returned %d vectors, want %d", len(got), tt.wantCount)
			}
			for i, vec := range got {
				if len(vec) != tt.expectedSize {
					t.Errorf("vector %d has size %d, want %d", i, len(vec), tt.expectedSize)
				}
			}
		})
	}
}
