package contact

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarsknowledge/api/services"
	"github.com/scholarsknowledge/api/utils/middleware"
	"github.com/scholarsknowledge/api/utils/response"
)

// ContactHandler handles the one-shot student-to-lecturer mailbox.
type ContactHandler struct {
	contactService *services.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// SendContactRequest is the wire payload for POST /api/contact.
type SendContactRequest struct {
	StudentUID      string                      `json:"studentUid"`
	StudentName     string                      `json:"studentName"`
	StudentProgram  string                      `json:"studentProgram"`
	LecturerUID     string                      `json:"lecturerUid"`
	LecturerName    string                      `json:"lecturerName"`
	LecturerTitle   string                      `json:"lecturerTitle"`
	LecturerFaculty string                      `json:"lecturerFaculty"`
	Subject         string                      `json:"subject"`
	Body            string                      `json:"body"`
	Attachment      *services.ContactAttachment `json:"attachment"`
}

// Send handles POST /api/contact (student -> lecturer). The sender must
// be the authenticated student.
func (h *ContactHandler) Send(c *fiber.Ctx) error {
	callerUID, ok := middleware.CallerUID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req SendContactRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.StudentUID == "" || req.LecturerUID == "" {
		return response.BadRequest(c, "studentUid and lecturerUid required")
	}
	if req.StudentUID != callerUID {
		return response.Forbidden(c, "senders may only write as themselves")
	}

	id, err := h.contactService.Send(c.Context(), services.SendContactInput{
		StudentUID:      req.StudentUID,
		StudentName:     req.StudentName,
		StudentProgram:  req.StudentProgram,
		LecturerUID:     req.LecturerUID,
		LecturerName:    req.LecturerName,
		LecturerTitle:   req.LecturerTitle,
		LecturerFaculty: req.LecturerFaculty,
		Subject:         req.Subject,
		Body:            req.Body,
		Attachment:      req.Attachment,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		log.Printf("[contact/send] %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{"id": id})
}

// Inbox handles GET /api/contact?lecturerUid= (lecturer inbox,
// unread first). Lecturers can only read their own inbox.
func (h *ContactHandler) Inbox(c *fiber.Ctx) error {
	callerUID, ok := middleware.CallerUID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	lecturerUID := c.Query("lecturerUid")
	if lecturerUID == "" {
		return response.BadRequest(c, "lecturerUid required")
	}
	if lecturerUID != callerUID {
		return response.Forbidden(c, "inbox access is limited to its owner")
	}

	messages, err := h.contactService.ListInbox(c.Context(), lecturerUID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return response.BadRequest(c, "lecturerUid required")
		}
		log.Printf("[contact/inbox] %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{"messages": messages})
}

// Sent handles GET /api/contact/sent?studentUid= (student sent items).
func (h *ContactHandler) Sent(c *fiber.Ctx) error {
	callerUID, ok := middleware.CallerUID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	studentUID := c.Query("studentUid")
	if studentUID == "" {
		return response.BadRequest(c, "studentUid required")
	}
	if studentUID != callerUID {
		return response.Forbidden(c, "sent items are limited to their owner")
	}

	messages, err := h.contactService.ListSent(c.Context(), studentUID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return response.BadRequest(c, "studentUid required")
		}
		log.Printf("[contact/sent] %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{"messages": messages})
}

// MarkRead handles PATCH /api/contact/:id/read
func (h *ContactHandler) MarkRead(c *fiber.Ctx) error {
	callerUID, ok := middleware.CallerUID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "bad id")
	}

	if err := h.contactService.MarkRead(c.Context(), uint(id), callerUID); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return response.Forbidden(c, "only the recipient may mark a message read")
		}
		log.Printf("[contact/read] %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{})
}

// Delete handles DELETE /api/contact/:id. Either party may delete their
// copy of the exchange; anyone else is refused.
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	callerUID, ok := middleware.CallerUID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "bad id")
	}

	if err := h.contactService.Delete(c.Context(), uint(id), callerUID); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return response.Forbidden(c, "only a participant may delete a message")
		}
		log.Printf("[contact/delete] %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{})
}
