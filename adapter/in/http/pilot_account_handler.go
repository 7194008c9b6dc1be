package http

import (
	"mailpilot/core/port/in"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves sign-up, login and logout.
type AuthHandler struct {
	service in.AuthService
}

func NewAuthHandler(service in.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register mounts the auth routes. limiter guards the credential routes and
// requireAuth guards logout.
func (h *AuthHandler) Register(router fiber.Router, limiter, requireAuth fiber.Handler) {
	auth := router.Group("/auth")

	auth.Post("/signup", limiter, h.SignUp)
	auth.Post("/login", limiter, h.Login)
	auth.Post("/logout", requireAuth, h.Logout)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req in.SignUpRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	session, err := h.service.SignUp(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return CreatedResponse(c, fiber.Map{
		"session":              session,
		"confirmation_pending": session.AccessToken == "",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	session, err := h.service.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return SuccessResponse(c, session)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session, err := GetSession(c)
	if err != nil {
		return err
	}

	err = h.service.SignOut(c.UserContext(), &in.SignOutRequest{
		AccessToken: session.Token,
		TokenID:     session.RevocationID(),
		ExpiresAt:   session.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return SuccessResponse(c, fiber.Map{"signed_out": true})
}

// ProfileHandler serves the dashboard profile.
type ProfileHandler struct {
	service in.AuthService
}

func NewProfileHandler(service in.AuthService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("/profile", h.Get)
	router.Put("/profile", h.Update)
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	profile, err := h.service.Profile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, profile)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	profile, err := h.service.UpdateProfile(c.UserContext(), userID, req.DisplayName)
	if err != nil {
		return err
	}
	return SuccessResponse(c, profile)
}
