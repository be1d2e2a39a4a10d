package message

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarsknowledge/api/model"
	"github.com/scholarsknowledge/api/services"
	"github.com/scholarsknowledge/api/utils/middleware"
	"github.com/scholarsknowledge/api/utils/response"
)

// MessageHandler handles threaded student-lecturer conversations.
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// StartThreadRequest is the wire payload for POST /api/messages/start.
type StartThreadRequest struct {
	StudentUID  string             `json:"studentUid"`
	LecturerUID string             `json:"lecturerUid"`
	Subject     string             `json:"subject"`
	Text        string             `json:"text"`
	Attachments []model.Attachment `json:"attachments"`
}

// ReplyRequest is the wire payload for POST /api/messages/reply.
type ReplyRequest struct {
	ThreadID    string             `json:"threadId"`
	SenderUID   string             `json:"senderUid"`
	SenderRole  string             `json:"senderRole"`
	Text        string             `json:"text"`
	Attachments []model.Attachment `json:"attachments"`
}

// Start handles POST /api/messages/start. Only the student party may
// open a thread, and only as themselves.
func (h *MessageHandler) Start(c *fiber.Ctx) error {
	callerUID, ok := middleware.CallerUID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req StartThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.StudentUID == "" || req.LecturerUID == "" {
		return response.BadRequest(c, "studentUid & lecturerUid required")
	}
	if req.StudentUID != callerUID {
		return response.Forbidden(c, "threads may only be started as yourself")
	}

	threadID, err := h.messageService.StartThread(c.Context(), req.StudentUID, req.LecturerUID, req.Subject, req.Text, req.Attachments)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		log.Printf("[messages/start] %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{"threadId": threadID})
}

// Reply handles POST /api/messages/reply
func (h *MessageHandler) Reply(c *fiber.Ctx) error {
	callerUID, ok := middleware.CallerUID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.ThreadID == "" || req.SenderUID == "" || req.SenderRole == "" {
		return response.BadRequest(c, "threadId, senderUid, senderRole required")
	}
	if req.SenderUID != callerUID {
		return response.Forbidden(c, "replies may only be sent as yourself")
	}

	messageID, err := h.messageService.Reply(c.Context(), req.ThreadID, req.SenderUID, req.SenderRole, req.Text, req.Attachments)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "thread_not_found")
		case errors.Is(err, services.ErrForbidden):
			return response.Forbidden(c, "only a thread participant may reply")
		default:
			log.Printf("[messages/reply] %v", err)
			return response.InternalServerError(c, "server")
		}
	}

	return response.OK(c, fiber.Map{"messageId": messageID})
}

// ListThreads handles GET /api/messages/threads?studentUid=|lecturerUid=
func (h *MessageHandler) ListThreads(c *fiber.Ctx) error {
	callerUID, ok := middleware.CallerUID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	studentUID := c.Query("studentUid")
	lecturerUID := c.Query("lecturerUid")
	if studentUID == "" && lecturerUID == "" {
		return response.BadRequest(c, "studentUid or lecturerUid required")
	}

	partyUID, role := studentUID, model.RoleStudent
	if partyUID == "" {
		partyUID, role = lecturerUID, model.RoleLecturer
	}
	if partyUID != callerUID {
		return response.Forbidden(c, "thread lists are limited to their owner")
	}

	threads, err := h.messageService.ListThreads(c.Context(), partyUID, role)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return response.BadRequest(c, "studentUid or lecturerUid required")
		}
		log.Printf("[messages/threads] %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{"threads": threads})
}

// GetThread handles GET /api/messages/thread/:id
func (h *MessageHandler) GetThread(c *fiber.Ctx) error {
	callerUID, ok := middleware.CallerUID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	thread, messages, err := h.messageService.GetThread(c.Context(), c.Params("id"), callerUID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "not_found")
		case errors.Is(err, services.ErrForbidden):
			return response.Forbidden(c, "only a thread participant may read it")
		default:
			log.Printf("[messages/thread] %v", err)
			return response.InternalServerError(c, "server")
		}
	}

	return response.OK(c, fiber.Map{"thread": thread, "messages": messages})
}
