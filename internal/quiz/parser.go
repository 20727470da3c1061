package quiz

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	compactOptionPattern = regexp.MustCompile(`[a-dA-D]\)\s*([^,]+)`)
	optionLinePattern    = regexp.MustCompile(`^[A-Da-d]\)`)
	answerLinePattern    = regexp.MustCompile(`(?i)^answer:\s*(?:[a-d]\)\s*)?(.*)`)
)

// ParseQuestions extracts validated quiz questions from the model's raw
// reply. The reply is split on the literal "Q:" marker; anything before the
// first marker is preamble and discarded. Each block is parsed independently,
// so one malformed block never poisons its siblings. Parsing stops once
// maxQuestions valid questions have been accumulated; maxQuestions <= 0 means
// no cap. Rejected blocks come back as SkippedBlock records with 1-based
// block numbers. A partial, possibly empty result is valid, never an error.
func ParseQuestions(text string, maxQuestions int) ([]Question, []SkippedBlock) {
	blocks := strings.Split(strings.TrimSpace(text), "Q:")

	questions := make([]Question, 0, maxQuestions)
	var skipped []SkippedBlock

	for i, block := range blocks[1:] {
		if maxQuestions > 0 && len(questions) >= maxQuestions {
			break
		}

		question, reason := parseBlock(block)
		if reason != "" {
			skipped = append(skipped, SkippedBlock{Block: i + 1, Reason: reason})
			continue
		}
		questions = append(questions, question)
	}

	return questions, skipped
}

// parseBlock attempts to extract one question from a single "Q:"-delimited
// block. Returns a non-empty reason when the block is rejected.
func parseBlock(block string) (Question, string) {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return Question{}, "empty block"
	}

	questionText := lines[0]

	options, reason := parseOptions(lines)
	if reason != "" {
		return Question{}, reason
	}

	var answerLine string
	for _, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), "answer:") {
			answerLine = line
			break
		}
	}
	if answerLine == "" {
		return Question{}, "missing answer line"
	}

	match := answerLinePattern.FindStringSubmatch(answerLine)
	if match == nil {
		return Question{}, "malformed answer line"
	}
	correct := strings.TrimSpace(match[1])

	// The prompt instructs the model to make the answer match an option
	// verbatim, but the model is untrusted; a mismatched block is dropped
	// rather than corrected.
	if !lo.Contains(options, correct) {
		return Question{}, fmt.Sprintf("correct answer %q is not one of the options", correct)
	}

	return Question{Question: questionText, Options: options, CorrectAnswer: correct}, ""
}

// parseOptions supports two reply shapes: a compact single "options:" line
// with comma-separated labeled fragments, or one labeled option per line.
// Exactly four options must be found either way.
func parseOptions(lines []string) ([]string, string) {
	for _, line := range lines {
		if !strings.HasPrefix(strings.ToLower(line), "options:") {
			continue
		}
		matches := compactOptionPattern.FindAllStringSubmatch(line, -1)
		if len(matches) != 4 {
			return nil, fmt.Sprintf("expected 4 options in compact format, got %d", len(matches))
		}
		options := make([]string, len(matches))
		for i, match := range matches {
			options[i] = strings.TrimSpace(match[1])
		}
		return options, ""
	}

	var options []string
	for _, line := range lines[1:] {
		if !optionLinePattern.MatchString(line) {
			continue
		}
		_, rest, _ := strings.Cut(line, ")")
		options = append(options, strings.TrimSpace(rest))
	}
	if len(options) != 4 {
		return nil, fmt.Sprintf("expected 4 options in multiline format, got %d", len(options))
	}
	return options, ""
}
