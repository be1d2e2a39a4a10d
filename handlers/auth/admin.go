package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scholarsknowledge/api/model"
	authutil "github.com/scholarsknowledge/api/utils/auth"
	"github.com/scholarsknowledge/api/utils/response"
)

// AdminHandler issues admin identity tokens for moderation endpoints.
// There is a single configured admin account; its password hash comes
// from the environment, never the database.
type AdminHandler struct {
	jwtManager   *authutil.JWTManager
	adminEmail   string
	passwordHash string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(jwtManager *authutil.JWTManager, adminEmail, passwordHash string) *AdminHandler {
	return &AdminHandler{
		jwtManager:   jwtManager,
		adminEmail:   adminEmail,
		passwordHash: passwordHash,
	}
}

// AdminLoginRequest represents an admin login request
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/admin/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password required")
	}

	if h.adminEmail == "" || h.passwordHash == "" {
		return response.Unauthorized(c, "Admin access is not configured")
	}

	if req.Email != h.adminEmail {
		return response.Unauthorized(c, "Invalid credentials")
	}
	if err := authutil.VerifyPassword(h.passwordHash, req.Password); err != nil {
		return response.Unauthorized(c, "Invalid credentials")
	}

	token, err := h.jwtManager.Generate("admin", model.RoleAdmin)
	if err != nil {
		return response.InternalServerError(c, "Failed to issue token")
	}

	return response.OK(c, fiber.Map{"token": token})
}
