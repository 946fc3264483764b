package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hrsystem/internal/models"
	"hrsystem/internal/repositories"
	"hrsystem/internal/services"
)

type InterviewHandler struct {
	interviewRepo repositories.InterviewRepository
	candidateRepo repositories.CandidateRepository
	userRepo      repositories.UserRepository
	documentStore services.DocumentStore
	maxFileSize   int64
	signedURLTTL  time.Duration
}

func NewInterviewHandler(
	interviewRepo repositories.InterviewRepository,
	candidateRepo repositories.CandidateRepository,
	userRepo repositories.UserRepository,
	documentStore services.DocumentStore,
	maxFileSize int64,
	signedURLTTL time.Duration,
) *InterviewHandler {
	return &InterviewHandler{
		interviewRepo: interviewRepo,
		candidateRepo: candidateRepo,
		userRepo:      userRepo,
		documentStore: documentStore,
		maxFileSize:   maxFileSize,
		signedURLTTL:  signedURLTTL,
	}
}

func (h *InterviewHandler) HandleGetAll(c *fiber.Ctx) error {
	page := c.QueryInt("p", 1)
	size := c.QueryInt("size", 10)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	interviews, totalCount, err := h.interviewRepo.GetAll(c.Context(), page, size)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list interviews",
		})
	}

	return c.JSON(models.PagedResponse{
		TotalCount: totalCount,
		PageNumber: page,
		PageSize:   size,
		Items:      interviews,
	})
}

func (h *InterviewHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid interview id",
		})
	}

	interview, err := h.interviewRepo.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "interview not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load interview",
		})
	}

	return c.JSON(interview)
}

func (h *InterviewHandler) HandleAdd(c *fiber.Ctx) error {
	var req models.AddInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate_id",
		})
	}
	interviewerID, err := uuid.Parse(req.InterviewerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid interviewer_id",
		})
	}
	hrID, err := uuid.Parse(req.HrID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid hr_id",
		})
	}

	interviewedAt, err := time.Parse(time.RFC3339, req.InterviewedAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "interviewed_at must be RFC3339",
		})
	}

	if req.Job == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job is required",
		})
	}

	// The scheduled parties must exist and be active.
	if _, err := h.candidateRepo.FindByID(c.Context(), candidateID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate not found",
		})
	}
	if _, err := h.userRepo.FindByID(c.Context(), interviewerID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "interviewer not found",
		})
	}
	if _, err := h.userRepo.FindByID(c.Context(), hrID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "hr user not found",
		})
	}

	interview := models.Interview{
		ID:            uuid.New(),
		Job:           req.Job,
		CandidateID:   candidateID,
		InterviewerID: interviewerID,
		HrID:          hrID,
		InterviewedAt: interviewedAt,
		Status:        models.InterviewScheduled,
	}

	if err := h.interviewRepo.Create(c.Context(), &interview); err != nil {
		if errors.Is(err, repositories.ErrDuplicateInterview) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "an interview is already scheduled for this slot",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create interview",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(interview)
}

func (h *InterviewHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid interview id",
		})
	}

	var req models.UpdateInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	update := models.Interview{
		Job:    req.Job,
		Status: models.InterviewStatus(req.Status),
	}
	if req.InterviewedAt != "" {
		interviewedAt, err := time.Parse(time.RFC3339, req.InterviewedAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "interviewed_at must be RFC3339",
			})
		}
		update.InterviewedAt = interviewedAt
	}
	if req.English != nil {
		update.English = *req.English
	}
	if req.Technical != nil {
		update.Technical = *req.Technical
	}
	if req.Recommend != nil {
		update.Recommend = *req.Recommend
	}

	interview, err := h.interviewRepo.Update(c.Context(), id, &update)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "interview not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update interview",
		})
	}

	return c.JSON(interview)
}

func (h *InterviewHandler) HandleUploadRecording(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid interview id",
		})
	}

	if _, err := h.interviewRepo.FindByID(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "interview not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load interview",
		})
	}

	file, err := c.FormFile("recording")
	if err != nil || file == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "recording file is required",
		})
	}
	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("recording too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	name, err := h.documentStore.Save(file, "recording", ".mp3", ".mp4", ".webm", ".wav")
	if err != nil {
		if errors.Is(err, services.ErrInvalidExtension) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unsupported recording format",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save recording",
		})
	}

	if err := h.interviewRepo.SetRecordingPath(c.Context(), id, name); err != nil {
		h.documentStore.Remove(name)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to attach recording",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"recording_path": name,
	})
}

func (h *InterviewHandler) HandleGetRecordingURL(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid interview id",
		})
	}

	interview, err := h.interviewRepo.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "interview not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load interview",
		})
	}
	if interview.RecordingPath == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "interview has no recording",
		})
	}

	url, err := h.documentStore.SignedURL(interview.RecordingPath, h.signedURLTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate recording URL",
		})
	}

	return c.JSON(fiber.Map{"url": url})
}

func (h *InterviewHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid interview id",
		})
	}

	if err := h.interviewRepo.SoftDelete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "interview not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete interview",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
