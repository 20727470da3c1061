package quiz

import (
	"context"
	"fmt"

	"notequiz/internal/contextutil"
	"notequiz/internal/llm"
)

// contextQuery steers retrieval toward quizzable material regardless of the
// note's subject.
const contextQuery = "Important information and facts suitable for quiz questions"

const generationTemperature = 0.7

// Retriever returns note-scoped context for a query.
type Retriever interface {
	Retrieve(ctx context.Context, noteID, query string, topK int) (string, error)
}

// Completer executes one chat completion and returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string, params llm.ChatParams) (string, error)
}

// Engine runs the full generation pipeline: retrieve context, build the
// prompt, call the model, parse the reply. One linear pass per request, no
// retries; an upstream failure aborts the whole call.
type Engine struct {
	retriever Retriever
	completer Completer
	model     string
	maxTokens int
	topK      int
}

// NewEngine wires a generation engine against the given retriever and model
// client.
func NewEngine(retriever Retriever, completer Completer, model string, maxTokens, topK int) *Engine {
	return &Engine{
		retriever: retriever,
		completer: completer,
		model:     model,
		maxTokens: maxTokens,
		topK:      topK,
	}
}

// Generate produces up to req.NumQuestions validated questions from the
// chunks stored under req.NoteID. An empty retrieval context is passed to the
// prompt as-is; the model then falls back to general knowledge or produces
// fewer usable questions.
func (e *Engine) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	noteContext, err := e.retriever.Retrieve(ctx, req.NoteID, contextQuery, e.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}
	if noteContext == "" {
		logger.WarnContext(ctx, "empty context for quiz generation", "note_id", req.NoteID)
	}

	prompt := BuildPrompt(noteContext, req.Name, req.NumQuestions, req.ExampleQuestions)

	reply, err := e.completer.Complete(ctx, prompt, llm.ChatParams{
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		Temperature: generationTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}

	questions, skippedBlocks := ParseQuestions(reply, req.NumQuestions)

	logger.InfoContext(ctx, "generated quiz",
		"note_id", req.NoteID,
		"requested", req.NumQuestions,
		"parsed", len(questions),
		"skipped", len(skippedBlocks))

	return &Result{Questions: questions, Skipped: skippedBlocks}, nil
}
