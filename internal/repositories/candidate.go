package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrsystem/internal/models"
)

// CandidateIndexer receives best-effort index notifications after each
// successful write. Implementations must never return an error to the write
// path; failures are logged and swallowed on their side.
type CandidateIndexer interface {
	CandidateCreated(ctx context.Context, candidate *models.Candidate)
	CandidateUpdated(ctx context.Context, candidate *models.Candidate)
	CandidateDeleted(ctx context.Context, candidate *models.Candidate)
}

type CandidateRepository interface {
	GetAll(ctx context.Context, page, size int) ([]models.Candidate, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	FindByEmail(ctx context.Context, email string) (*models.Candidate, error)
	FindAllActive(ctx context.Context) ([]models.Candidate, error)
	Create(ctx context.Context, candidate *models.Candidate) error
	Update(ctx context.Context, id uuid.UUID, candidate *models.Candidate) (*models.Candidate, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	SearchByNameOrEmail(ctx context.Context, query string, page, size int) ([]models.Candidate, int64, error)
}

type candidateRepository struct {
	db      *gorm.DB
	indexer CandidateIndexer
}

func NewCandidateRepository(db *gorm.DB, indexer CandidateIndexer) CandidateRepository {
	return &candidateRepository{db: db, indexer: indexer}
}

// active scopes every read to non-deleted rows.
func (r *candidateRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Candidate{}).Where("deleted_at IS NULL")
}

func (r *candidateRepository) GetAll(ctx context.Context, page, size int) ([]models.Candidate, int64, error) {
	var totalCount int64
	if err := r.active(ctx).Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count candidates: %w", err)
	}

	var candidates []models.Candidate
	err := r.active(ctx).
		Order("fullname ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&candidates).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list candidates: %w", err)
	}

	return candidates, totalCount, nil
}

func (r *candidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.active(ctx).Where("id = ?", id).First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) FindByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.active(ctx).Where("email = ?", email).First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find candidate by email: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) FindAllActive(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.active(ctx).Order("created_at ASC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to list active candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}

	// The uniqueness check and the insert share a transaction so two
	// concurrent creates cannot both pass the check.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Candidate{}).
			Where("deleted_at IS NULL").
			Where("email = ?", candidate.Email).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check candidate email: %w", err)
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		if err := tx.Create(candidate).Error; err != nil {
			return fmt.Errorf("failed to create candidate: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Best-effort index sync after the row is committed. Failures are
	// handled inside the indexer and never surface here.
	if r.indexer != nil {
		r.indexer.CandidateCreated(ctx, candidate)
	}

	return nil
}

func (r *candidateRepository) Update(ctx context.Context, id uuid.UUID, candidate *models.Candidate) (*models.Candidate, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Fullname = candidate.Fullname
	existing.Phone = candidate.Phone
	if candidate.ResumePath != "" {
		existing.ResumePath = candidate.ResumePath
	}

	if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update candidate: %w", err)
	}

	if r.indexer != nil {
		r.indexer.CandidateUpdated(ctx, existing)
	}

	return existing, nil
}

func (r *candidateRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	candidate, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	candidate.DeletedAt = &now

	if err := r.db.WithContext(ctx).Save(candidate).Error; err != nil {
		return nil, fmt.Errorf("failed to delete candidate: %w", err)
	}

	// The index keeps the document with is_deleted=true rather than
	// removing it, so search history stays auditable.
	if r.indexer != nil {
		r.indexer.CandidateDeleted(ctx, candidate)
	}

	return candidate, nil
}

// SearchByNameOrEmail is the relational fallback search: a case-insensitive
// substring match over fullname and email, restricted to non-deleted rows.
// It intentionally does not consult resume content.
func (r *candidateRepository) SearchByNameOrEmail(ctx context.Context, query string, page, size int) ([]models.Candidate, int64, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	scoped := func() *gorm.DB {
		return r.active(ctx).Where(
			"LOWER(fullname) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern,
		)
	}

	var totalCount int64
	if err := scoped().Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count matching candidates: %w", err)
	}

	var candidates []models.Candidate
	err := scoped().
		Order("fullname ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&candidates).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search candidates: %w", err)
	}

	return candidates, totalCount, nil
}
