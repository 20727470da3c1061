package storage

import "time"

// NoteRecord is the registry entry for an uploaded note. The chunk vectors
// themselves live in the vector index; this table only tracks which notes
// exist so they can be listed and deleted.
type NoteRecord struct {
	ID         string // Caller-supplied note identifier
	Name       string // Display name
	ChunkCount int    // Number of chunks stored at last upload
	UpdatedAt  time.Time
}
