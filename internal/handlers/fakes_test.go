package handlers

import (
	"context"
	"time"

	"notequiz/internal/quiz"
	"notequiz/internal/storage"
)

type fakeQuizService struct {
	result *quiz.Result
	err    error

	gotReq quiz.GenerateRequest
}

func (f *fakeQuizService) Generate(_ context.Context, req quiz.GenerateRequest) (*quiz.Result, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeChunkStore struct {
	storeCount int
	storeErr   error
	deleteErr  error

	storedNoteID  string
	storedContent string
	deletedNoteID string
	calls         []string
}

func (f *fakeChunkStore) StoreNote(_ context.Context, noteID, content string) (int, error) {
	f.calls = append(f.calls, "store")
	f.storedNoteID = noteID
	f.storedContent = content
	return f.storeCount, f.storeErr
}

func (f *fakeChunkStore) DeleteNote(_ context.Context, noteID string) error {
	f.calls = append(f.calls, "delete")
	f.deletedNoteID = noteID
	return f.deleteErr
}

type fakeNoteStore struct {
	records   []*storage.NoteRecord
	listErr   error
	upsertErr error
	deleteErr error

	upserted  *storage.NoteRecord
	deletedID string
}

func (f *fakeNoteStore) Upsert(_ context.Context, note *storage.NoteRecord) error {
	f.upserted = note
	return f.upsertErr
}

func (f *fakeNoteStore) GetByID(_ context.Context, id string) (*storage.NoteRecord, error) {
	for _, record := range f.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeNoteStore) ListAll(_ context.Context) ([]*storage.NoteRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeNoteStore) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return f.deleteErr
}

func testRecord(id, name string, chunks int) *storage.NoteRecord {
	return &storage.NoteRecord{ID: id, Name: name, ChunkCount: chunks, UpdatedAt: time.Now()}
}
