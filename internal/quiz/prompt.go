package quiz

import (
	"fmt"
	"strings"
)

// BuildPrompt composes the quiz-generation prompt from the retrieved context,
// the note's display name, the desired question count, and optional example
// questions. The formatting instructions are load-bearing: the parser depends
// on the model following them, so they stay in sync with what ParseQuestions
// accepts. Note name and examples are untrusted text; the name is collapsed to
// a single line so it cannot break the instruction template.
func BuildPrompt(context, name string, count int, examples []string) string {
	exampleText := "None"
	if len(examples) > 0 {
		exampleText = strings.Join(examples, "\n")
	}

	var b strings.Builder
	b.WriteString("You are a helpful quiz master who likes to curate interesting and relevant quiz questions that help people learn.\n\n")
	fmt.Fprintf(&b, "Based on the following extracted context from the notes %q:\n%s\n\n", collapseWhitespace(name), context)
	fmt.Fprintf(&b, "Generate %d multiple-choice quiz questions.\n\n", count)
	fmt.Fprintf(&b, "Example Questions:\n%s\n\n", exampleText)
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "- Return exactly %d questions.\n", count)
	b.WriteString("- Each question must have 4 answer options labeled a), b), c), and d).\n")
	b.WriteString("- Randomize the order of the options.\n")
	b.WriteString("- The correct answer MUST be exactly one of the 4 options.\n")
	b.WriteString("- The correct answer MUST match one of the options verbatim.\n")
	b.WriteString("- All options should be plausible, but only one should be correct.\n")
	b.WriteString("- Do NOT include questions where the correct answer is not present in the options.\n")
	b.WriteString("- Ensure clarity, accuracy, and relevance to the notes.\n")
	if len(examples) > 0 {
		b.WriteString("- Use the example questions to guide style and format. If they present a short scenario before the question, every generated question must follow that same scenario style.\n")
	}
	b.WriteString("- Do NOT include any explanation, thinking, or reasoning before the questions.\n")
	b.WriteString("- Only output the final formatted questions and answers in the specified structure.\n")
	b.WriteString("- The answer line must include both the correct option letter and the full answer text (e.g., \"Answer: b) Loss of data\").\n\n")
	b.WriteString("Output Format:\nQ: ...\na) ...\nb) ...\nc) ...\nd) ...\nAnswer: ...\n")

	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
