package handler

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/logger"
	"docquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GenerateQuiz handles POST /api/quizzes: a multipart upload with the
// study document plus quiz_type and question_count form fields. Image
// uploads are spooled to a temp file because the OCR collaborator needs a
// filesystem path.
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.NewInvalidInputError("a document file upload is required")
	}

	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid form fields")
	}
	if req.QuestionCount <= 0 {
		req.QuestionCount = 10
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInternalError("failed to open uploaded file", err)
	}
	data, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		return domain.NewInternalError("failed to read uploaded file", err)
	}

	path := ""
	if isImageUpload(fileHeader.Filename) {
		tmp, err := spoolToTempFile(fileHeader.Filename, data)
		if err != nil {
			return domain.NewInternalError("failed to spool upload for OCR", err)
		}
		defer os.Remove(tmp)
		path = tmp
	}

	session, err := h.service.GenerateQuiz(c.Context(), service.GenerateRequest{
		FileName:      fileHeader.Filename,
		Data:          data,
		Path:          path,
		QuizType:      domain.ParseQuizType(req.QuizType),
		QuestionCount: req.QuestionCount,
		MaxSlides:     req.MaxSlides,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewQuizResponse(session))
}

// SubmitAnswer handles POST /api/quizzes/:id/answers.
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid answer body")
	}

	answer := domain.Answer{Text: req.Text}
	if req.SelectedIndex != nil {
		answer.Index = *req.SelectedIndex
	} else if req.Text == "" {
		return domain.NewInvalidInputError("either selected_index or text is required")
	}

	if err := h.service.SubmitAnswer(sessionID, req.Position, answer); err != nil {
		return err
	}

	logger.Get().Debug("Answer submitted",
		zap.String("session_id", sessionID),
		zap.Int("position", req.Position),
	)
	return c.SendStatus(fiber.StatusNoContent)
}

// GetResult handles GET /api/quizzes/:id/result, scoring on demand. The
// returned result is a snapshot computed under the service's lock;
// reading live session state here would race with answer submissions.
func (h *QuizHandler) GetResult(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	result, err := h.service.GetResult(sessionID)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewResultResponse(sessionID, result))
}

// EndSession handles DELETE /api/quizzes/:id.
func (h *QuizHandler) EndSession(c *fiber.Ctx) error {
	if err := h.service.EndSession(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func isImageUpload(filename string) bool {
	format, err := domain.ParseSourceFormat(filepath.Ext(filename))
	return err == nil && format == domain.FormatImage
}

// spoolToTempFile writes the upload to a temp file, preserving the
// extension so downstream tooling can identify the image type.
func spoolToTempFile(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	tmp, err := os.CreateTemp("", "docquiz-upload-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
