package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hrsystem/internal/models"
	"hrsystem/internal/repositories"
	"hrsystem/internal/services"
)

type CandidateHandler struct {
	candidateRepo repositories.CandidateRepository
	documentStore services.DocumentStore
	searchService *services.SearchService
	worker        services.ReindexWorker
	maxFileSize   int64
	signedURLTTL  time.Duration
}

func NewCandidateHandler(
	candidateRepo repositories.CandidateRepository,
	documentStore services.DocumentStore,
	searchService *services.SearchService,
	worker services.ReindexWorker,
	maxFileSize int64,
	signedURLTTL time.Duration,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo: candidateRepo,
		documentStore: documentStore,
		searchService: searchService,
		worker:        worker,
		maxFileSize:   maxFileSize,
		signedURLTTL:  signedURLTTL,
	}
}

func (h *CandidateHandler) HandleGetAll(c *fiber.Ctx) error {
	page := c.QueryInt("p", 1)
	size := c.QueryInt("size", 10)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	candidates, totalCount, err := h.candidateRepo.GetAll(c.Context(), page, size)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list candidates",
		})
	}

	return c.JSON(models.PagedResponse{
		TotalCount: totalCount,
		PageNumber: page,
		PageSize:   size,
		Items:      candidates,
	})
}

func (h *CandidateHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate id",
		})
	}

	candidate, err := h.candidateRepo.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidate",
		})
	}

	return c.JSON(candidate)
}

func (h *CandidateHandler) HandleGetResumeURL(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate id",
		})
	}

	candidate, err := h.candidateRepo.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidate",
		})
	}
	if candidate.ResumePath == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "candidate has no resume",
		})
	}

	url, err := h.documentStore.SignedURL(candidate.ResumePath, h.signedURLTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate resume URL",
		})
	}

	return c.JSON(fiber.Map{"url": url})
}

func (h *CandidateHandler) HandleAdd(c *fiber.Ctx) error {
	fullname := strings.TrimSpace(c.FormValue("fullname"))
	email := strings.TrimSpace(c.FormValue("email"))
	phone := strings.TrimSpace(c.FormValue("phone"))

	if fullname == "" || email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "fullname and email are required",
		})
	}

	candidate := models.Candidate{
		ID:       uuid.New(),
		Fullname: fullname,
		Email:    email,
		Phone:    phone,
	}

	// Resume upload is optional on create; search falls back to name/email
	// matching for candidates without one.
	if file, err := c.FormFile("resume"); err == nil && file != nil {
		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("resume too large. Max size: %d bytes", h.maxFileSize),
			})
		}
		name, err := h.documentStore.Save(file, "resume", ".pdf", ".txt")
		if err != nil {
			if errors.Is(err, services.ErrInvalidExtension) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "only PDF and TXT resumes are allowed",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save resume",
			})
		}
		candidate.ResumePath = name
	}

	if err := h.candidateRepo.Create(c.Context(), &candidate); err != nil {
		if candidate.ResumePath != "" {
			h.documentStore.Remove(candidate.ResumePath)
		}
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "a candidate with this email already exists",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create candidate",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(candidate)
}

func (h *CandidateHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate id",
		})
	}

	update := models.Candidate{
		Fullname: strings.TrimSpace(c.FormValue("fullname")),
		Phone:    strings.TrimSpace(c.FormValue("phone")),
	}
	if update.Fullname == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "fullname is required",
		})
	}

	// A new resume replaces the stored one; without a file the existing
	// resume path is kept.
	if file, err := c.FormFile("resume"); err == nil && file != nil {
		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("resume too large. Max size: %d bytes", h.maxFileSize),
			})
		}
		name, err := h.documentStore.Save(file, "resume", ".pdf", ".txt")
		if err != nil {
			if errors.Is(err, services.ErrInvalidExtension) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "only PDF and TXT resumes are allowed",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save resume",
			})
		}
		update.ResumePath = name
	}

	candidate, err := h.candidateRepo.Update(c.Context(), id, &update)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update candidate",
		})
	}

	return c.JSON(candidate)
}

func (h *CandidateHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate id",
		})
	}

	if _, err := h.candidateRepo.SoftDelete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete candidate",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CandidateHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("query")
	page := c.QueryInt("p", 1)
	size := c.QueryInt("size", 10)

	result, err := h.searchService.Search(c.Context(), query, page, size)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "search is currently unavailable",
		})
	}

	return c.JSON(models.SearchResponse{
		TotalCount: result.TotalCount,
		PageNumber: result.Page,
		PageSize:   result.PageSize,
		Source:     string(result.Source),
		Items:      result.Items,
	})
}

func (h *CandidateHandler) HandleReindex(c *fiber.Ctx) error {
	h.worker.EnqueueSweep()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "reindex started",
	})
}

func (h *CandidateHandler) HandleReindexCandidate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate id",
		})
	}

	if _, err := h.candidateRepo.FindByID(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidate",
		})
	}

	h.worker.EnqueueCandidate(id)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "reindex enqueued",
	})
}
