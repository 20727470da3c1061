package vectorstore

import (
	"context"
	"net/url"
	"strconv"
	"testing"
)

// TestNewQdrantStore_URLParsing tests URL parsing logic without creating a real client.
func TestNewQdrantStore_URLParsing(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantHost string
		wantPort int
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://localhost:9000",
			wantHost: "localhost",
			wantPort: 9001,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334, // Default
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost", // Defaults to localhost
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsedURL, err := url.Parse(tt.urlStr)
			if err != nil {
				t.Fatalf("Failed to parse URL: %v", err)
			}

			// Mirror the parsing logic NewQdrantStore uses
			host := parsedURL.Hostname()
			if host == "" {
				host = "localhost"
			}

			port := 6334
			if parsedURL.Port() != "" {
				httpPort, err := strconv.Atoi(parsedURL.Port())
				if err == nil {
					port = httpPort + 1
				}
			}

			if host != tt.wantHost {
				t.Errorf("Host = %v, want %v", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("Port = %v, want %v", port, tt.wantPort)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	_, err := NewQdrantStore("://invalid")
	if err == nil {
		t.Error("NewQdrantStore() with invalid URL should return error")
	}
}

func TestQdrantStore_Upsert_EmptyPoints(t *testing.T) {
	// Empty input returns before the client is touched.
	store := &QdrantStore{}

	err := store.Upsert(context.Background(), "test-collection", []Point{})
	if err != nil {
		t.Errorf("Upsert() with empty points should return early without error, got: %v", err)
	}
}

func TestQdrantStore_Delete_EmptyIDs(t *testing.T) {
	store := &QdrantStore{}

	err := store.Delete(context.Background(), "test-collection", []string{})
	if err != nil {
		t.Errorf("Delete() with empty IDs should return early without error, got: %v", err)
	}
}

func TestQdrantStore_Search_InvalidK(t *testing.T) {
	store := &QdrantStore{}

	_, err := store.Search(context.Background(), "test-collection", []float32{1.0, 2.0}, 0, nil)
	if err == nil {
		t.Error("Search() with k=0 should return error")
	}

	_, err = store.Search(context.Background(), "test-collection", []float32{1.0, 2.0}, -1, nil)
	if err == nil {
		t.Error("Search() with k=-1 should return error")
	}
}

func TestQdrantStore_DeleteByFilter_NoFilters(t *testing.T) {
	store := &QdrantStore{}

	err := store.DeleteByFilter(context.Background(), "test-collection", nil)
	if err == nil {
		t.Error("DeleteByFilter() without filters should return error")
	}
}

func TestBuildFilter(t *testing.T) {
	if got := buildFilter(nil); got != nil {
		t.Errorf("buildFilter(nil) = %v, want nil", got)
	}

	filter := buildFilter(map[string]any{"note_id": "note-1"})
	if filter == nil {
		t.Fatal("buildFilter() returned nil for non-empty filters")
	}
	if len(filter.Must) != 1 {
		t.Errorf("buildFilter() produced %d conditions, want 1", len(filter.Must))
	}
}

func TestConvertPayloadToMap_Nil(t *testing.T) {
	result := convertPayloadToMap(nil)
	if result == nil {
		t.Error("convertPayloadToMap() should return empty map, not nil")
	}
	if len(result) != 0 {
		t.Errorf("convertPayloadToMap() with nil should return empty map, got %d items", len(result))
	}
}
