// Package promptbuilder emits the deterministic instruction strings sent
// to the completion service. Same inputs always produce the identical
// prompt; there is no randomness or clock anywhere in here.
package promptbuilder

import (
	"fmt"

	"docquiz/internal/domain"
)

const multipleChoiceTemplate = `You are an expert quiz generator. Based on the study material below, create exactly %d multiple choice questions.

Requirements:
1. Each question must have exactly 4 answer choices.
2. Exactly one choice is correct; "correct_answer_index" is its position, between 0 and 3.
3. Provide a concise "explanation" for why the correct choice is right.
4. Cover distinct concepts from the material; do not repeat questions.

Respond with ONLY a JSON array, no introduction and no trailing prose, where each element has this shape:
{
  "question": "Question text here?",
  "choices": ["Choice A", "Choice B", "Choice C", "Choice D"],
  "correct_answer_index": 0,
  "explanation": "Why this answer is correct.",
  "type": "multiple_choice"
}

Study material:
%s`

const enumerationTemplate = `You are an expert quiz generator. Based on the study material below, create exactly %d identification questions answered with a short free-text term.

Requirements:
1. "correct_answer" is the exact term or phrase the user must type; keep it short and unambiguous.
2. Answers are matched by exact text comparison (case-insensitive), so avoid answers with multiple accepted spellings.
3. Provide a concise "explanation" for each answer.
4. The "choices" array may be left empty; it is ignored for this quiz type.

Respond with ONLY a JSON array, no introduction and no trailing prose, where each element has this shape:
{
  "question": "Question text here?",
  "choices": [],
  "correct_answer_index": 0,
  "correct_answer": "The exact expected answer",
  "explanation": "Why this is the answer.",
  "type": "enumeration"
}

Study material:
%s`

const trueFalseTemplate = `You are an expert quiz generator. Based on the study material below, create exactly %d true-or-false questions.

Requirements:
1. "choices" must be exactly ["True", "False"].
2. "is_true" states whether the statement is true, and must agree with "correct_answer_index": index 0 when true, index 1 when false.
3. Each question is a declarative statement the user judges, not an open question.
4. Provide a concise "explanation" for each statement.

Respond with ONLY a JSON array, no introduction and no trailing prose, where each element has this shape:
{
  "question": "Statement to judge.",
  "choices": ["True", "False"],
  "correct_answer_index": 0,
  "is_true": true,
  "explanation": "Why the statement is true or false.",
  "type": "true_false"
}

Study material:
%s`

// BuildPrompt renders the template for quizType with the question count
// and the full source text embedded verbatim.
func BuildPrompt(text string, questionCount int, quizType domain.QuizType) string {
	switch quizType {
	case domain.QuizTypeEnumeration:
		return fmt.Sprintf(enumerationTemplate, questionCount, text)
	case domain.QuizTypeTrueFalse:
		return fmt.Sprintf(trueFalseTemplate, questionCount, text)
	default:
		return fmt.Sprintf(multipleChoiceTemplate, questionCount, text)
	}
}
