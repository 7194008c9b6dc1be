package http

import (
	"mailpilot/core/domain"
	"mailpilot/core/port/in"
	"mailpilot/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// EmailHandler serves the inbox and compose pages.
type EmailHandler struct {
	service in.EmailService
}

func NewEmailHandler(service in.EmailService) *EmailHandler {
	return &EmailHandler{service: service}
}

func (h *EmailHandler) Register(router fiber.Router) {
	emails := router.Group("/emails")

	emails.Get("/", h.List)
	emails.Get("/:id", h.Get)
	emails.Post("/", h.Create)
	emails.Put("/:id", h.Update)
	emails.Delete("/:id", h.Delete)
}

type saveEmailRequest struct {
	RecipientEmail  string  `json:"recipient_email"`
	RecipientName   string  `json:"recipient_name"`
	Subject         string  `json:"subject"`
	Body            string  `json:"body"`
	AIGeneratedBody *string `json:"ai_generated_body"`
	Status          string  `json:"status"`
}

func (r *saveEmailRequest) toInput() *in.SaveEmailInput {
	return &in.SaveEmailInput{
		RecipientEmail:  r.RecipientEmail,
		RecipientName:   r.RecipientName,
		Subject:         r.Subject,
		Body:            r.Body,
		AIGeneratedBody: r.AIGeneratedBody,
		Status:          domain.EmailStatus(r.Status),
	}
}

func (h *EmailHandler) List(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	filter := &in.EmailListFilter{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return apperr.ValidationFailed("limit", "limit and offset must not be negative")
	}
	if status := c.Query("status"); status != "" {
		s := domain.EmailStatus(status)
		filter.Status = &s
	}

	emails, err := h.service.List(c.UserContext(), userID, filter)
	if err != nil {
		return err
	}
	return SuccessResponse(c, fiber.Map{"emails": emails, "count": len(emails)})
}

func (h *EmailHandler) Get(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	email, err := h.service.Get(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, email)
}

func (h *EmailHandler) Create(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	var req saveEmailRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	email, err := h.service.Save(c.UserContext(), userID, req.toInput())
	if err != nil {
		return err
	}
	return CreatedResponse(c, email)
}

func (h *EmailHandler) Update(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req saveEmailRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	input := req.toInput()
	input.ID = &id
	email, err := h.service.Save(c.UserContext(), userID, input)
	if err != nil {
		return err
	}
	return SuccessResponse(c, email)
}

func (h *EmailHandler) Delete(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
