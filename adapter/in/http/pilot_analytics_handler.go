package http

import (
	"mailpilot/core/port/in"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	service in.AnalyticsService
}

func NewAnalyticsHandler(service in.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/analytics/summary", h.Summary)
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	summary, err := h.service.Summary(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, summary)
}
