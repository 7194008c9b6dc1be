package http

import (
	"mailpilot/core/domain"
	"mailpilot/core/port/in"

	"github.com/gofiber/fiber/v2"
)

// ComposeHandler exposes the text-generation endpoints.
type ComposeHandler struct {
	service in.ComposeService
}

func NewComposeHandler(service in.ComposeService) *ComposeHandler {
	return &ComposeHandler{service: service}
}

// Register mounts the routes under router, normally /api/email.
func (h *ComposeHandler) Register(router fiber.Router) {
	router.Post("/generate-draft", h.GenerateDraft)
	router.Post("/improve", h.Improve)
	router.Post("/suggest-response", h.SuggestResponse)
	router.Post("/summarize", h.Summarize)
	router.Post("/generate", h.Generate)
}

type draftRequest struct {
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	RecipientName string `json:"recipientName"`
}

type improveRequest struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

type respondRequest struct {
	IncomingEmail string `json:"incomingEmail"`
	Context       string `json:"context"`
}

type summarizeRequest struct {
	Text string `json:"text"`
}

func (h *ComposeHandler) GenerateDraft(c *fiber.Ctx) error {
	var req draftRequest
	if err := decodeBody(c, &req); err != nil {
		return PlainErrorResponse(c, err)
	}
	return h.respond(c, domain.NewDraftRequest(req.Subject, req.Body, req.RecipientName))
}

func (h *ComposeHandler) Improve(c *fiber.Ctx) error {
	var req improveRequest
	if err := decodeBody(c, &req); err != nil {
		return PlainErrorResponse(c, err)
	}
	return h.respond(c, domain.NewImproveRequest(req.Text, req.Tone))
}

func (h *ComposeHandler) SuggestResponse(c *fiber.Ctx) error {
	var req respondRequest
	if err := decodeBody(c, &req); err != nil {
		return PlainErrorResponse(c, err)
	}
	return h.respond(c, domain.NewRespondRequest(req.IncomingEmail, req.Context))
}

func (h *ComposeHandler) Summarize(c *fiber.Ctx) error {
	var req summarizeRequest
	if err := decodeBody(c, &req); err != nil {
		return PlainErrorResponse(c, err)
	}
	return h.respond(c, domain.NewSummarizeRequest(req.Text))
}

// Generate dispatches on the "kind" field of the body.
func (h *ComposeHandler) Generate(c *fiber.Ctx) error {
	var req domain.GenerationRequest
	if err := decodeBody(c, &req); err != nil {
		return PlainErrorResponse(c, err)
	}
	return h.respond(c, req)
}

func (h *ComposeHandler) respond(c *fiber.Ctx, req domain.GenerationRequest) error {
	result, err := h.service.Generate(c.UserContext(), req)
	if err != nil {
		return PlainErrorResponse(c, err)
	}
	return c.JSON(result.Payload())
}
