package quiz

// Question is a single multiple-choice quiz question. CorrectAnswer always
// equals one of the four options verbatim; the parser never constructs a
// record violating that.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// SkippedBlock records one reply block the parser rejected, so callers can
// surface or assert on skip reasons instead of scraping logs.
type SkippedBlock struct {
	Block  int    `json:"block"`
	Reason string `json:"reason"`
}

// GenerateRequest carries the caller-supplied fields for one quiz-generation
// call. NoteID must already have chunks stored for retrieval to find context.
type GenerateRequest struct {
	NoteID           string
	Name             string
	NumQuestions     int
	ExampleQuestions []string
}

// Result is the outcome of one generation call. Questions may be shorter than
// the requested count, even empty, when the model returns malformed blocks.
type Result struct {
	Questions []Question
	Skipped   []SkippedBlock
}
