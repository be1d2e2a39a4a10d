package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarsknowledge/api/model"
	"github.com/scholarsknowledge/api/utils/auth"
	"github.com/scholarsknowledge/api/utils/response"
)

// AuthMiddleware validates identity tokens. A token claims a profile UID
// and role; handlers still check the claimed UID against the stakeholder
// fields of the rows they touch.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
	}
}

// Required is middleware that requires a valid identity token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		c.Locals("caller_uid", claims.UID)
		c.Locals("caller_role", claims.Role)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// RequireAdmin requires a valid identity token with the admin role
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		if claims.Role != model.RoleAdmin {
			return response.Forbidden(c, "Administrator access required")
		}

		c.Locals("caller_uid", claims.UID)
		c.Locals("caller_role", claims.Role)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// Optional parses a bearer token when one is present but lets the
// request through either way. Public routes use this so admins get
// their elevated view without a separate endpoint.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Next()
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			return c.Next()
		}

		c.Locals("caller_uid", claims.UID)
		c.Locals("caller_role", claims.Role)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// CallerUID extracts the claimed caller uid from context
func CallerUID(c *fiber.Ctx) (string, bool) {
	uid := c.Locals("caller_uid")
	if uid == nil {
		return "", false
	}
	u, ok := uid.(string)
	return u, ok && u != ""
}

// CallerRole extracts the claimed caller role from context
func CallerRole(c *fiber.Ctx) (string, bool) {
	role := c.Locals("caller_role")
	if role == nil {
		return "", false
	}
	r, ok := role.(string)
	return r, ok && r != ""
}

// IsAdmin reports whether the caller authenticated with the admin role
func IsAdmin(c *fiber.Ctx) bool {
	role, ok := CallerRole(c)
	return ok && role == model.RoleAdmin
}
