package domain

import (
	"fmt"
	"strings"
	"time"
)

// QuizType identifies the question style requested by the caller. It is a
// closed set; every switch over it must handle all three variants.
type QuizType string

const (
	QuizTypeMultipleChoice QuizType = "multiple_choice"
	QuizTypeEnumeration    QuizType = "enumeration"
	QuizTypeTrueFalse      QuizType = "true_false"
)

// ParseQuizType matches a wire-format type string case-insensitively.
// An absent or unrecognized value defaults to multiple choice.
func ParseQuizType(s string) QuizType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(QuizTypeEnumeration):
		return QuizTypeEnumeration
	case string(QuizTypeTrueFalse):
		return QuizTypeTrueFalse
	default:
		return QuizTypeMultipleChoice
	}
}

// IsValid reports whether s names one of the three quiz types exactly.
func (t QuizType) IsValid() bool {
	switch t {
	case QuizTypeMultipleChoice, QuizTypeEnumeration, QuizTypeTrueFalse:
		return true
	}
	return false
}

// QuizQuestion is a single validated question. Instances are created
// exclusively through the typed constructors below (the response
// synthesizer is their only production caller) and are immutable after
// creation.
type QuizQuestion struct {
	Question           string
	Choices            []string
	CorrectAnswerIndex int
	Explanation        string
	Type               QuizType

	// CorrectAnswer is set for enumeration questions only; scoring for
	// that type ignores CorrectAnswerIndex entirely.
	CorrectAnswer string

	// IsTrue is set for true/false questions only and always agrees with
	// CorrectAnswerIndex (index 0 is "True").
	IsTrue bool
}

// NewMultipleChoiceQuestion creates a multiple choice question with exactly
// four choices and a correct index in [0,3].
func NewMultipleChoiceQuestion(question string, choices []string, correctIndex int, explanation string) *QuizQuestion {
	return &QuizQuestion{
		Question:           question,
		Choices:            choices,
		CorrectAnswerIndex: correctIndex,
		Explanation:        explanation,
		Type:               QuizTypeMultipleChoice,
	}
}

// NewEnumerationQuestion creates a free-text question scored by exact
// (case-insensitive, trimmed) match against correctAnswer.
func NewEnumerationQuestion(question, correctAnswer, explanation string) *QuizQuestion {
	return &QuizQuestion{
		Question:      question,
		CorrectAnswer: correctAnswer,
		Explanation:   explanation,
		Type:          QuizTypeEnumeration,
	}
}

// NewTrueFalseQuestion creates a true/false question. choices is fixed to
// ["True","False"] and the correct index derives from isTrue.
func NewTrueFalseQuestion(question string, isTrue bool, explanation string) *QuizQuestion {
	correctIndex := 1
	if isTrue {
		correctIndex = 0
	}
	return &QuizQuestion{
		Question:           question,
		Choices:            []string{"True", "False"},
		CorrectAnswerIndex: correctIndex,
		Explanation:        explanation,
		Type:               QuizTypeTrueFalse,
		IsTrue:             isTrue,
	}
}

// Validate checks the shape invariants for the question's declared type.
func (q *QuizQuestion) Validate() error {
	if q.Question == "" {
		return NewInvalidInputError("question text is required")
	}
	switch q.Type {
	case QuizTypeMultipleChoice:
		if len(q.Choices) != 4 {
			return NewInvalidInputError(fmt.Sprintf("multiple choice question must have exactly 4 choices, got %d", len(q.Choices)))
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex > 3 {
			return NewInvalidInputError(fmt.Sprintf("correct answer index %d out of range [0,3]", q.CorrectAnswerIndex))
		}
	case QuizTypeEnumeration:
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return NewInvalidInputError("enumeration question requires a non-empty correct answer")
		}
	case QuizTypeTrueFalse:
		if len(q.Choices) != 2 || q.Choices[0] != "True" || q.Choices[1] != "False" {
			return NewInvalidInputError(`true/false question choices must be exactly ["True","False"]`)
		}
		if q.CorrectAnswerIndex != 0 && q.CorrectAnswerIndex != 1 {
			return NewInvalidInputError(fmt.Sprintf("true/false correct answer index must be 0 or 1, got %d", q.CorrectAnswerIndex))
		}
		if q.IsTrue != (q.CorrectAnswerIndex == 0) {
			return NewInvalidInputError("true/false is_true flag disagrees with correct answer index")
		}
	default:
		return NewInvalidInputError(fmt.Sprintf("unknown quiz type: %q", q.Type))
	}
	return nil
}

// Answer is one user response, keyed by question position. Index carries
// the chosen option for choice-based types; Text carries the free-text
// reply for enumeration.
type Answer struct {
	Index    int
	Text     string
	Answered bool
}

// ScoreAnswer reports whether the user's answer is correct. An
// unanswered question always scores as incorrect, never errors.
func ScoreAnswer(q *QuizQuestion, a Answer) bool {
	if !a.Answered {
		return false
	}
	switch q.Type {
	case QuizTypeEnumeration:
		return strings.EqualFold(strings.TrimSpace(a.Text), strings.TrimSpace(q.CorrectAnswer))
	case QuizTypeMultipleChoice, QuizTypeTrueFalse:
		return a.Index == q.CorrectAnswerIndex
	default:
		return false
	}
}

// QuizSession is one in-memory quiz run: the synthesized questions, the
// user's answers in parallel by position, and a cursor. Sessions are never
// persisted; they are destroyed when the run ends or restarts.
type QuizSession struct {
	ID        string
	QuizType  QuizType
	Questions []*QuizQuestion
	Answers   []Answer
	Cursor    int
	CreatedAt time.Time
}

// NewQuizSession creates a session over an already-validated question set.
func NewQuizSession(id string, quizType QuizType, questions []*QuizQuestion) *QuizSession {
	return &QuizSession{
		ID:        id,
		QuizType:  quizType,
		Questions: questions,
		Answers:   make([]Answer, len(questions)),
		CreatedAt: time.Now(),
	}
}

// SubmitAnswer records the user's answer for the question at position.
func (s *QuizSession) SubmitAnswer(position int, answer Answer) error {
	if position < 0 || position >= len(s.Questions) {
		return NewInvalidInputError(fmt.Sprintf("question position %d out of range", position))
	}
	answer.Answered = true
	s.Answers[position] = answer
	if position >= s.Cursor {
		s.Cursor = position + 1
	}
	return nil
}

// QuizResult is the on-demand scoring of a session. It is computed, never
// stored, and shares no mutable state with the session: Questions are
// immutable and the per-position slices are fresh copies, so a result can
// be read without holding the session's lock.
type QuizResult struct {
	Questions      []*QuizQuestion
	Score          int
	TotalQuestions int
	UserAnswers    []int
	Correct        []bool
}

// Percentage returns the score as a whole-number percentage.
func (r *QuizResult) Percentage() int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return 100 * r.Score / r.TotalQuestions
}

// Result scores every position of the session. Unanswered positions count
// as incorrect and are reported with index -1.
func (s *QuizSession) Result() *QuizResult {
	result := &QuizResult{
		Questions:      s.Questions,
		TotalQuestions: len(s.Questions),
		UserAnswers:    make([]int, len(s.Questions)),
		Correct:        make([]bool, len(s.Questions)),
	}
	for i, q := range s.Questions {
		a := s.Answers[i]
		if ScoreAnswer(q, a) {
			result.Score++
			result.Correct[i] = true
		}
		if a.Answered {
			result.UserAnswers[i] = a.Index
		} else {
			result.UserAnswers[i] = -1
		}
	}
	return result
}
