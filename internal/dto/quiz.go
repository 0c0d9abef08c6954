package dto

import "docquiz/internal/domain"

// GenerateQuizRequest carries the non-file fields of the multipart upload.
type GenerateQuizRequest struct {
	QuizType      string `form:"quiz_type"`
	QuestionCount int    `form:"question_count"`
	MaxSlides     int    `form:"max_slides"`
}

// QuestionResponse is one question as shown to the user. Correct answers
// and explanations are withheld until the result.
type QuestionResponse struct {
	Position int      `json:"position"`
	Question string   `json:"question"`
	Choices  []string `json:"choices,omitempty"`
	Type     string   `json:"type"`
}

// QuizResponse is the created session with its questions.
type QuizResponse struct {
	SessionID string             `json:"session_id"`
	QuizType  string             `json:"quiz_type"`
	Questions []QuestionResponse `json:"questions"`
}

// AnswerRequest records one answer. SelectedIndex applies to choice-based
// types, Text to enumeration.
type AnswerRequest struct {
	Position      int    `json:"position"`
	SelectedIndex *int   `json:"selected_index,omitempty"`
	Text          string `json:"text,omitempty"`
}

// ResultItemResponse pairs a question with its outcome.
type ResultItemResponse struct {
	Position           int    `json:"position"`
	Question           string `json:"question"`
	Correct            bool   `json:"correct"`
	CorrectAnswerIndex int    `json:"correct_answer_index"`
	CorrectAnswer      string `json:"correct_answer,omitempty"`
	Explanation        string `json:"explanation"`
	UserAnswerIndex    int    `json:"user_answer_index"`
}

// ResultResponse is the scored session.
type ResultResponse struct {
	SessionID      string               `json:"session_id"`
	Score          int                  `json:"score"`
	TotalQuestions int                  `json:"total_questions"`
	Percentage     int                  `json:"percentage"`
	Items          []ResultItemResponse `json:"items"`
}

// ErrorResponse is the generic error body for handler-level rejections.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewQuizResponse maps a domain session to its response shape.
func NewQuizResponse(session *domain.QuizSession) QuizResponse {
	questions := make([]QuestionResponse, len(session.Questions))
	for i, q := range session.Questions {
		questions[i] = QuestionResponse{
			Position: i,
			Question: q.Question,
			Choices:  q.Choices,
			Type:     string(q.Type),
		}
	}
	return QuizResponse{
		SessionID: session.ID,
		QuizType:  string(session.QuizType),
		Questions: questions,
	}
}

// NewResultResponse maps a scored result to its response shape. The
// result is a self-contained snapshot taken under the service's lock, so
// no live session state is read here.
func NewResultResponse(sessionID string, result *domain.QuizResult) ResultResponse {
	items := make([]ResultItemResponse, len(result.Questions))
	for i, q := range result.Questions {
		items[i] = ResultItemResponse{
			Position:           i,
			Question:           q.Question,
			Correct:            result.Correct[i],
			CorrectAnswerIndex: q.CorrectAnswerIndex,
			CorrectAnswer:      q.CorrectAnswer,
			Explanation:        q.Explanation,
			UserAnswerIndex:    result.UserAnswers[i],
		}
	}
	return ResultResponse{
		SessionID:      sessionID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage(),
		Items:          items,
	}
}
