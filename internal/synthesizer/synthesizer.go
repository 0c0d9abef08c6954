// Package synthesizer converts the completion service's raw reply into
// typed quiz questions. Model output is unreliable: it arrives wrapped in
// prose, fenced in markdown, truncated mid-array, or quoted with the wrong
// quote character. The stage pipeline here recovers what it can and fails
// with a diagnostic-carrying error only after every stage is exhausted.
package synthesizer

import (
	"encoding/json"

	"docquiz/internal/domain"

	"go.uber.org/zap"
)

// questionPayload is the wire shape one array element is expected to have.
// IsTrue is a pointer so an absent field is distinguishable from false.
type questionPayload struct {
	Question           string   `json:"question"`
	Choices            []string `json:"choices"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation"`
	Type               string   `json:"type"`
	CorrectAnswer      string   `json:"correct_answer"`
	IsTrue             *bool    `json:"is_true"`
}

// Synthesizer runs the repair/parse/fallback chain.
type Synthesizer struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Synthesizer {
	return &Synthesizer{logger: logger}
}

// Synthesize turns rawReply into an ordered question set for the requested
// quiz type. Stages, in order: trim and de-prefix, de-fence, bracket
// isolation, structural repair, strict JSON parse, then a regex fallback
// over the original raw reply. Questions failing their type's shape
// invariants are dropped rather than failing the batch, unless that would
// leave zero questions.
func (s *Synthesizer) Synthesize(rawReply string, quizType domain.QuizType) ([]*domain.QuizQuestion, error) {
	cleaned := stripConversationalPrefix(rawReply)
	cleaned = stripCodeFence(cleaned)
	isolated := isolateArray(cleaned)
	repaired := repairStructure(isolated)

	var payloads []questionPayload
	parseErr := json.Unmarshal([]byte(repaired), &payloads)

	if parseErr == nil && len(payloads) > 0 {
		questions := s.mapPayloads(payloads)
		if len(questions) == 0 {
			// Objects parsed but every one violated its shape invariants.
			return nil, domain.NewSynthesisError(rawReply)
		}
		return questions, nil
	}

	if parseErr != nil {
		s.logger.Warn("Strict parse of repaired reply failed, trying regex fallback",
			zap.Error(parseErr),
			zap.Int("repaired_length", len(repaired)),
		)
	} else {
		s.logger.Warn("Repaired reply parsed to an empty array, trying regex fallback")
	}

	// The fallback scans the original reply, not the repaired substring:
	// repair may have amputated fields the field-level patterns can still
	// reach.
	questions := extractByRegex(rawReply)
	if len(questions) == 0 {
		return nil, domain.NewSynthesisError(rawReply)
	}
	s.logger.Info("Recovered questions via regex fallback",
		zap.Int("count", len(questions)),
		zap.String("requested_type", string(quizType)),
	)
	return questions, nil
}

// mapPayloads converts parsed payloads to validated domain questions,
// dropping the ones whose shape is wrong for their declared type. The
// declared type alone picks the variant: absent and unrecognized values
// both resolve to multiple choice, never to the requested type.
func (s *Synthesizer) mapPayloads(payloads []questionPayload) []*domain.QuizQuestion {
	questions := make([]*domain.QuizQuestion, 0, len(payloads))
	for i, p := range payloads {
		q := mapPayload(p, domain.ParseQuizType(p.Type))
		if q == nil {
			s.logger.Warn("Dropping malformed question from model reply",
				zap.Int("position", i),
				zap.String("declared_type", p.Type),
			)
			continue
		}
		questions = append(questions, q)
	}
	return questions
}

// mapPayload builds the variant for quizType, or nil when the payload
// cannot satisfy that variant's invariants.
func mapPayload(p questionPayload, quizType domain.QuizType) *domain.QuizQuestion {
	var q *domain.QuizQuestion
	switch quizType {
	case domain.QuizTypeEnumeration:
		q = domain.NewEnumerationQuestion(p.Question, p.CorrectAnswer, p.Explanation)
		// Informational only for this type; carried through for display.
		q.CorrectAnswerIndex = p.CorrectAnswerIndex
	case domain.QuizTypeTrueFalse:
		var isTrue bool
		switch {
		case p.IsTrue != nil:
			isTrue = *p.IsTrue
			if p.CorrectAnswerIndex == 0 || p.CorrectAnswerIndex == 1 {
				if isTrue != (p.CorrectAnswerIndex == 0) {
					return nil
				}
			}
		case p.CorrectAnswerIndex == 0 || p.CorrectAnswerIndex == 1:
			isTrue = p.CorrectAnswerIndex == 0
		default:
			return nil
		}
		q = domain.NewTrueFalseQuestion(p.Question, isTrue, p.Explanation)
	default:
		q = domain.NewMultipleChoiceQuestion(p.Question, p.Choices, p.CorrectAnswerIndex, p.Explanation)
	}
	if err := q.Validate(); err != nil {
		return nil
	}
	return q
}
