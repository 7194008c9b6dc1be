package http

import (
	"time"

	"mailpilot/infra/middleware"
	"mailpilot/pkg/apperr"
	"mailpilot/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// APIResponse is the envelope used by the /api/v1 routes.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp string    `json:"timestamp"`
}

type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// GetSession returns the authenticated session or an unauthorized error.
func GetSession(c *fiber.Ctx) (*middleware.Session, error) {
	s, ok := middleware.GetSession(c)
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	return s, nil
}

// GetUserID returns the authenticated user id.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	s, err := GetSession(c)
	if err != nil {
		return uuid.Nil, err
	}
	return s.UserID, nil
}

func SuccessResponse(c *fiber.Ctx, data any) error {
	return c.JSON(APIResponse{
		Success:   true,
		Data:      data,
		RequestID: middleware.GetRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func CreatedResponse(c *fiber.Ctx, data any) error {
	c.Status(fiber.StatusCreated)
	return SuccessResponse(c, data)
}

// AppErrorResponse renders err as the error envelope.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	appErr := apperr.AsAppError(err)
	return c.Status(appErr.Status).JSON(APIResponse{
		Success:   false,
		Error:     &APIError{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details},
		RequestID: middleware.GetRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// PlainErrorResponse renders {"error": message}, the shape of the generation routes.
func PlainErrorResponse(c *fiber.Ctx, err error) error {
	appErr := apperr.AsAppError(err)
	if appErr.Code == apperr.CodeInternalError {
		logger.WithContext(c.UserContext()).WithError(appErr.Err).Error("unhandled error")
	}
	return c.Status(appErr.Status).JSON(fiber.Map{"error": appErr.Message})
}

// decodeBody unmarshals the raw body regardless of Content-Type.
func decodeBody(c *fiber.Ctx, dest any) error {
	if err := json.Unmarshal(c.Body(), dest); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	return nil
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.ValidationFailed(name, "invalid "+name)
	}
	return id, nil
}
