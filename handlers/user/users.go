package user

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarsknowledge/api/services"
	authutil "github.com/scholarsknowledge/api/utils/auth"
	"github.com/scholarsknowledge/api/utils/response"
	"github.com/scholarsknowledge/api/utils/validation"
)

// UserHandler handles profile upserts, the lecturer directory and
// presence heartbeats.
type UserHandler struct {
	userService *services.UserService
	jwtManager  *authutil.JWTManager
	validator   *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, jwtManager *authutil.JWTManager) *UserHandler {
	return &UserHandler{
		userService: userService,
		jwtManager:  jwtManager,
		validator:   validation.NewValidator(),
	}
}

// UpsertUserRequest is the profile payload sent on login.
type UpsertUserRequest struct {
	UID        string `json:"uid" validate:"required"`
	Role       string `json:"role" validate:"omitempty,oneof=student lecturer partner"`
	Name       string `json:"name"`
	Email      string `json:"email" validate:"omitempty,email"`
	University string `json:"university"`
	Faculty    string `json:"faculty"`
	Title      string `json:"title"`
	PhotoURL   string `json:"photoURL"`
	LastSeen   *int64 `json:"lastSeen"`
}

// PingRequest is a presence heartbeat.
type PingRequest struct {
	UID string `json:"uid" validate:"required"`
}

// Upsert handles POST /api/users/upsert. Returns the derived ufKey and
// an identity token the client presents on subsequent mailbox and
// messaging calls.
func (h *UserHandler) Upsert(c *fiber.Ctx) error {
	var req UpsertUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UID == "" {
		return response.BadRequest(c, "uid required")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Invalid user payload")
	}

	ufKey, err := h.userService.Upsert(c.Context(), services.UpsertUserInput{
		UID:        req.UID,
		Role:       req.Role,
		Name:       req.Name,
		Email:      req.Email,
		University: req.University,
		Faculty:    req.Faculty,
		Title:      req.Title,
		PhotoURL:   req.PhotoURL,
		LastSeen:   req.LastSeen,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return response.BadRequest(c, "uid required")
		}
		log.Printf("[users/upsert] %v", err)
		return response.InternalServerError(c, "server")
	}

	token, err := h.jwtManager.Generate(req.UID, req.Role)
	if err != nil {
		log.Printf("[users/upsert] token: %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{"ufKey": ufKey, "token": token})
}

// Ping handles POST /api/users/ping, the presence heartbeat.
func (h *UserHandler) Ping(c *fiber.Ctx) error {
	var req PingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UID == "" {
		return response.BadRequest(c, "uid required")
	}

	lastSeen, err := h.userService.Heartbeat(c.Context(), req.UID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return response.BadRequest(c, "uid required")
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "not_found")
		default:
			log.Printf("[users/ping] %v", err)
			return response.InternalServerError(c, "server")
		}
	}

	return response.OK(c, fiber.Map{"lastSeen": lastSeen})
}

// ListLecturers handles GET /api/users?university=&faculty=
func (h *UserHandler) ListLecturers(c *fiber.Ctx) error {
	university := c.Query("university")
	faculty := c.Query("faculty")

	lecturers, err := h.userService.ListLecturers(c.Context(), university, faculty)
	if err != nil {
		log.Printf("[users/list] %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{"lecturers": lecturers})
}

// GetUser handles GET /api/users/:uid
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	uid := c.Params("uid")
	if uid == "" {
		return response.BadRequest(c, "uid required")
	}

	user, err := h.userService.GetUser(c.Context(), uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "not_found")
		case errors.Is(err, services.ErrInvalidInput):
			return response.BadRequest(c, "uid required")
		default:
			log.Printf("[users/get] %v", err)
			return response.InternalServerError(c, "server")
		}
	}

	return response.OK(c, fiber.Map{"user": user})
}
