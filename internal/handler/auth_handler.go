package handler

import (
	"strings"

	"ubt-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerifyRequest carries the token when it is not sent as a Bearer header
type VerifyRequest struct {
	Token string `json:"token"`
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	if req.Username == "" || req.Password == "" {
		return respondError(c, fiber.StatusBadRequest, "Username and password are required")
	}

	response, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, response)
}

// Verify introspects a token and returns the user it belongs to
// POST /api/v1/auth/verify
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token := ""

	var req VerifyRequest
	if err := c.BodyParser(&req); err == nil && req.Token != "" {
		token = req.Token
	}
	if token == "" {
		authHeader := c.Get("Authorization")
		if parts := strings.Split(authHeader, " "); len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		return respondError(c, fiber.StatusUnauthorized, "Missing authorization token")
	}

	user, err := h.authService.Verify(token)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	return respondOK(c, user)
}
