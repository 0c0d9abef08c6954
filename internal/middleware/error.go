package middleware

import (
	"errors"
	"net/http"

	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorHandler is a centralized error handling middleware
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var unsupportedErr *domain.UnsupportedFormatError
		if errors.As(err, &unsupportedErr) {
			log.Warn("Unsupported document format",
				zap.String("extension", unsupportedErr.Extension),
				zap.String("path", c.Path()),
			)
			return c.Status(http.StatusUnsupportedMediaType).JSON(ErrorResponse{
				Code:    string(domain.ErrUnsupportedFormat),
				Message: unsupportedErr.Error(),
				Status:  http.StatusUnsupportedMediaType,
			})
		}

		var extractionErr *domain.ExtractionError
		if errors.As(err, &extractionErr) {
			log.Error("Document extraction failed",
				zap.String("format", string(extractionErr.Format)),
				zap.Error(extractionErr.Cause),
			)
			return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
				Code:    string(domain.ErrExtractionFailed),
				Message: extractionErr.Error(),
				Status:  http.StatusUnprocessableEntity,
			})
		}

		var synthesisErr *domain.SynthesisError
		if errors.As(err, &synthesisErr) {
			// The raw reply stays in the log, not the response body.
			log.Error("Response synthesis exhausted all recovery stages",
				zap.Int("raw_reply_length", len(synthesisErr.RawReply)),
				zap.String("raw_reply", synthesisErr.RawReply),
			)
			return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
				Code:    string(domain.ErrSynthesisFailed),
				Message: synthesisErr.Error(),
				Status:  http.StatusBadGateway,
			})
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)
			log.Error("Domain error occurred",
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Err),
			)
			return c.Status(statusCode).JSON(ErrorResponse{
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Status:  statusCode,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("Unhandled error", zap.Error(err), zap.String("path", c.Path()))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.ErrInternal),
			Message: "An internal error occurred",
			Status:  http.StatusInternalServerError,
		})
	}
}

func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrInvalidInput:
		return http.StatusBadRequest
	case domain.ErrNotFound, domain.ErrSessionNotFound:
		return http.StatusNotFound
	case domain.ErrLLMServiceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
