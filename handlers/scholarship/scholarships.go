package scholarship

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarsknowledge/api/model"
	"github.com/scholarsknowledge/api/services"
	"github.com/scholarsknowledge/api/utils/middleware"
	"github.com/scholarsknowledge/api/utils/response"
	"github.com/scholarsknowledge/api/utils/validation"
)

// ScholarshipHandler handles the posting directory and its moderation.
type ScholarshipHandler struct {
	scholarshipService *services.ScholarshipService
	validator          *validation.Validator
}

// NewScholarshipHandler creates a new scholarship handler
func NewScholarshipHandler(scholarshipService *services.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{
		scholarshipService: scholarshipService,
		validator:          validation.NewValidator(),
	}
}

// SubmitScholarshipRequest is a partner's posting payload.
type SubmitScholarshipRequest struct {
	Title           string `json:"title" validate:"required,min=3,max=255"`
	Provider        string `json:"provider" validate:"required,min=2,max=255"`
	Country         string `json:"country"`
	Level           string `json:"level"`
	Field           string `json:"field"`
	FundingType     string `json:"fundingType"`
	Deadline        string `json:"deadline"`
	Link            string `json:"link" validate:"omitempty,url,max=1024"`
	PartnerApplyURL string `json:"partnerApplyUrl" validate:"omitempty,url,max=1024"`
	Description     string `json:"description"`
	Eligibility     string `json:"eligibility"`
	Benefits        string `json:"benefits"`
	HowToApply      string `json:"howToApply"`
	Amount          string `json:"amount"`
	Notes           string `json:"notes"`
	PartnerEmail    string `json:"partnerEmail" validate:"omitempty,email"`
}

// SetStatusRequest moves a posting through moderation.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

func (r SubmitScholarshipRequest) toInput() services.SubmitScholarshipInput {
	return services.SubmitScholarshipInput{
		Title:           r.Title,
		Provider:        r.Provider,
		Country:         r.Country,
		Level:           r.Level,
		Field:           r.Field,
		FundingType:     r.FundingType,
		Deadline:        r.Deadline,
		Link:            r.Link,
		PartnerApplyURL: r.PartnerApplyURL,
		Description:     r.Description,
		Eligibility:     r.Eligibility,
		Benefits:        r.Benefits,
		HowToApply:      r.HowToApply,
		Amount:          r.Amount,
		Notes:           r.Notes,
		PartnerEmail:    r.PartnerEmail,
	}
}

// Submit handles POST /api/scholarships (partner submission)
func (h *ScholarshipHandler) Submit(c *fiber.Ctx) error {
	var req SubmitScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Invalid scholarship payload")
	}

	id, err := h.scholarshipService.Submit(c.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		log.Printf("[scholarships/submit] %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{"id": id, "status": model.ScholarshipPending})
}

// List handles GET /api/scholarships. The public sees approved postings
// only; admins may filter by any status.
func (h *ScholarshipHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	status := string(model.ScholarshipApproved)
	if middleware.IsAdmin(c) {
		status = c.Query("status")
	}

	scholarships, total, err := h.scholarshipService.List(c.Context(), services.ListScholarshipsOptions{
		Status:      status,
		Country:     c.Query("country"),
		Level:       c.Query("level"),
		Field:       c.Query("field"),
		FundingType: c.Query("fundingType"),
		Search:      c.Query("search"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		log.Printf("[scholarships/list] %v", err)
		return response.InternalServerError(c, "server")
	}

	pagination := response.CalculatePagination(page, limit, total)
	return response.Paginated(c, fiber.Map{"scholarships": scholarships}, pagination)
}

// Get handles GET /api/scholarships/:id
func (h *ScholarshipHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "bad id")
	}

	sch, err := h.scholarshipService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "not_found")
		}
		log.Printf("[scholarships/get] %v", err)
		return response.InternalServerError(c, "server")
	}

	// Pending and rejected postings are only visible to moderators.
	if sch.Status != model.ScholarshipApproved && !middleware.IsAdmin(c) {
		return response.NotFound(c, "not_found")
	}

	return response.OK(c, fiber.Map{"scholarship": sch})
}

// SetStatus handles PATCH /api/scholarships/:id/status (admin only)
func (h *ScholarshipHandler) SetStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "bad id")
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "status must be pending, approved or rejected")
	}

	err = h.scholarshipService.SetStatus(c.Context(), uint(id), model.ScholarshipStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "not_found")
		case errors.Is(err, services.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			log.Printf("[scholarships/status] %v", err)
			return response.InternalServerError(c, "server")
		}
	}

	return response.OK(c, fiber.Map{})
}

// Update handles PUT /api/scholarships/:id (admin only)
func (h *ScholarshipHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "bad id")
	}

	var req SubmitScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Invalid scholarship payload")
	}

	if err := h.scholarshipService.Update(c.Context(), uint(id), req.toInput()); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "not_found")
		case errors.Is(err, services.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			log.Printf("[scholarships/update] %v", err)
			return response.InternalServerError(c, "server")
		}
	}

	return response.OK(c, fiber.Map{})
}

// Delete handles DELETE /api/scholarships/:id (admin only)
func (h *ScholarshipHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "bad id")
	}

	if err := h.scholarshipService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "not_found")
		}
		log.Printf("[scholarships/delete] %v", err)
		return response.InternalServerError(c, "server")
	}

	return response.OK(c, fiber.Map{})
}
