package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"notequiz/internal/contextutil"
	"notequiz/internal/quiz"
)

// QuizService runs the quiz-generation pipeline for one request.
type QuizService interface {
	Generate(ctx context.Context, req quiz.GenerateRequest) (*quiz.Result, error)
}

// GenerateHandler handles HTTP requests for quiz generation.
type GenerateHandler struct {
	service QuizService
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(service QuizService) *GenerateHandler {
	return &GenerateHandler{service: service}
}

// QuizResponse represents the quiz generation response.
//
// swagger:model QuizResponse
type QuizResponse struct {
	// Display name of the note the quiz was generated from
	GeneratedFrom string `json:"generated_from"`

	// Parsed questions, at most the requested count
	Questions []quiz.Question `json:"questions"`

	// Reply blocks the parser rejected, with reasons
	Skipped []quiz.SkippedBlock `json:"skipped,omitempty"`
}

// ServeHTTP handles HTTP requests for quiz generation.
//
// Generates multiple-choice questions from the chunks previously stored for a
// note. The response may contain fewer questions than requested when the
// model returns malformed blocks; rejected blocks are reported in `skipped`.
//
// swagger:route POST /generate-quiz generateQuiz
//
// ---
// consumes:
// - application/x-www-form-urlencoded
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Generated quiz, possibly with fewer questions than requested
//	  schema:
//	    "$ref": "#/definitions/QuizResponse"
//	'400':
//	  description: Missing or invalid form fields
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'500':
//	  description: Upstream service failure
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
	if noteID == "" || name == "" {
		logger.WarnContext(ctx, "missing id or name in request")
		writeError(w, http.StatusBadRequest, "Fields id and name are required")
		return
	}

	numQuestions, err := strconv.Atoi(r.PostFormValue("num_questions"))
	if err != nil || numQuestions <= 0 {
		logger.WarnContext(ctx, "invalid num_questions", "value", r.PostFormValue("num_questions"))
		writeError(w, http.StatusBadRequest, "Field num_questions must be a positive integer")
		return
	}

	result, err := h.service.Generate(ctx, quiz.GenerateRequest{
		NoteID:           noteID,
		Name:             name,
		NumQuestions:     numQuestions,
		ExampleQuestions: splitExamples(r.PostFormValue("example_questions")),
	})
	if err != nil {
		logger.ErrorContext(ctx, "quiz generation failed", "note_id", noteID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	questions := result.Questions
	if questions == nil {
		questions = []quiz.Question{}
	}

	writeJSON(w, http.StatusOK, QuizResponse{
		GeneratedFrom: name,
		Questions:     questions,
		Skipped:       result.Skipped,
	})
}

// splitExamples turns the newline-separated example_questions field into a
// list, dropping blank lines.
func splitExamples(raw string) []string {
	var examples []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			examples = append(examples, trimmed)
		}
	}
	return examples
}
