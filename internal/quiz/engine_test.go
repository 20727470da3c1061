package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"notequiz/internal/llm"
)

type fakeRetriever struct {
	context string
	err     error

	gotNoteID string
	gotQuery  string
	gotTopK   int
}

func (f *fakeRetriever) Retrieve(_ context.Context, noteID, query string, topK int) (string, error) {
	f.gotNoteID = noteID
	f.gotQuery = query
	f.gotTopK = topK
	return f.context, f.err
}

type fakeCompleter struct {
	reply string
	err   error

	gotPrompt string
	gotParams llm.ChatParams
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, params llm.ChatParams) (string, error) {
	f.gotPrompt = prompt
	f.gotParams = params
	return f.reply, f.err
}

func TestEngine_Generate(t *testing.T) {
	retriever := &fakeRetriever{context: "Paris is the capital of France."}
	completer := &fakeCompleter{
		reply: "Q: Capital of France?\na) Paris\nb) Lyon\nc) Nice\nd) Tours\nAnswer: a) Paris\n",
	}
	engine := NewEngine(retriever, completer, "deepseek-r1-distill-llama-70b", 2048, 5)

	result, err := engine.Generate(context.Background(), GenerateRequest{
		NoteID:       "note-1",
		Name:         "Geography",
		NumQuestions: 1,
	})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	if len(result.Questions) != 1 {
		t.Fatalf("Generate() returned %d questions, want 1 (skipped: %v)", len(result.Questions), result.Skipped)
	}
	if result.Questions[0].CorrectAnswer != "Paris" {
		t.Errorf("correct answer = %q, want Paris", result.Questions[0].CorrectAnswer)
	}

	if retriever.gotNoteID != "note-1" {
		t.Errorf("retrieval note id = %q, want note-1", retriever.gotNoteID)
	}
	if retriever.gotQuery != contextQuery {
		t.Errorf("retrieval query = %q, want %q", retriever.gotQuery, contextQuery)
	}
	if retriever.gotTopK != 5 {
		t.Errorf("retrieval topK = %d, want 5", retriever.gotTopK)
	}

	if !strings.Contains(completer.gotPrompt, "Paris is the capital of France.") {
		t.Error("prompt does not contain the retrieved context")
	}
	if completer.gotParams.Model != "deepseek-r1-distill-llama-70b" {
		t.Errorf("model = %q, want deepseek-r1-distill-llama-70b", completer.gotParams.Model)
	}
	if completer.gotParams.Temperature != generationTemperature {
		t.Errorf("temperature = %v, want %v", completer.gotParams.Temperature, generationTemperature)
	}
	if completer.gotParams.MaxTokens != 2048 {
		t.Errorf("max tokens = %d, want 2048", completer.gotParams.MaxTokens)
	}
}

func TestEngine_Generate_EmptyContext(t *testing.T) {
	// A note with no stored chunks is not an error; the prompt just carries
	// an empty context.
	retriever := &fakeRetriever{context: ""}
	completer := &fakeCompleter{reply: "no questions"}
	engine := NewEngine(retriever, completer, "model", 1024, 5)

	result, err := engine.Generate(context.Background(), GenerateRequest{NoteID: "fresh", Name: "New", NumQuestions: 2})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if len(result.Questions) != 0 {
		t.Errorf("Generate() returned %d questions, want 0", len(result.Questions))
	}
}

func TestEngine_Generate_RetrieverFailure(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("index unreachable")}
	engine := NewEngine(retriever, &fakeCompleter{}, "model", 1024, 5)

	if _, err := engine.Generate(context.Background(), GenerateRequest{NoteID: "note-1", NumQuestions: 1}); err == nil {
		t.Fatal("Generate() expected error when retrieval fails")
	}
}

func TestEngine_Generate_CompleterFailure(t *testing.T) {
	retriever := &fakeRetriever{context: "some context"}
	completer := &fakeCompleter{err: errors.New("rate limited")}
	engine := NewEngine(retriever, completer, "model", 1024, 5)

	if _, err := engine.Generate(context.Background(), GenerateRequest{NoteID: "note-1", NumQuestions: 1}); err == nil {
		t.Fatal("Generate() expected error when completion fails")
	}
}

func TestEngine_Generate_ReportsSkippedBlocks(t *testing.T) {
	retriever := &fakeRetriever{context: "ctx"}
	completer := &fakeCompleter{
		reply: "Q: Broken\na) One\nb) Two\nAnswer: a) One\nQ: Capital of France?\na) Paris\nb) Lyon\nc) Nice\nd) Tours\nAnswer: a) Paris\n",
	}
	engine := NewEngine(retriever, completer, "model", 1024, 5)

	result, err := engine.Generate(context.Background(), GenerateRequest{NoteID: "note-1", NumQuestions: 5})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	if len(result.Questions) != 1 {
		t.Errorf("Generate() returned %d questions, want 1", len(result.Questions))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("Generate() skipped %d blocks, want 1", len(result.Skipped))
	}
	if result.Skipped[0].Block != 1 {
		t.Errorf("skipped block = %d, want 1", result.Skipped[0].Block)
	}
}
