package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrsystem/internal/models"
)

type InterviewRepository interface {
	GetAll(ctx context.Context, page, size int) ([]models.Interview, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Interview, error)
	Create(ctx context.Context, interview *models.Interview) error
	Update(ctx context.Context, id uuid.UUID, interview *models.Interview) (*models.Interview, error)
	SetRecordingPath(ctx context.Context, id uuid.UUID, path string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Interview{}).Where("deleted_at IS NULL")
}

func (r *interviewRepository) GetAll(ctx context.Context, page, size int) ([]models.Interview, int64, error) {
	var totalCount int64
	if err := r.active(ctx).Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count interviews: %w", err)
	}

	var interviews []models.Interview
	err := r.active(ctx).
		Order("interviewed_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&interviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list interviews: %w", err)
	}

	return interviews, totalCount, nil
}

func (r *interviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	err := r.active(ctx).Where("id = ?", id).First(&interview).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.active(ctx).
		Where("candidate_id = ?", candidateID).
		Order("interviewed_at DESC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate interviews: %w", err)
	}
	return interviews, nil
}

func (r *interviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	if interview.ID == uuid.Nil {
		interview.ID = uuid.New()
	}
	if interview.Status == "" {
		interview.Status = models.InterviewScheduled
	}

	// Slot check and insert share a transaction so concurrent bookings
	// cannot both claim the same slot.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Interview{}).
			Where("deleted_at IS NULL").
			Where("candidate_id = ? AND interviewer_id = ? AND interviewed_at = ?",
				interview.CandidateID, interview.InterviewerID, interview.InterviewedAt).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check interview slot: %w", err)
		}
		if count > 0 {
			return ErrDuplicateInterview
		}

		if err := tx.Create(interview).Error; err != nil {
			return fmt.Errorf("failed to create interview: %w", err)
		}
		return nil
	})
}

func (r *interviewRepository) Update(ctx context.Context, id uuid.UUID, interview *models.Interview) (*models.Interview, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if interview.Job != "" {
		existing.Job = interview.Job
	}
	if !interview.InterviewedAt.IsZero() {
		existing.InterviewedAt = interview.InterviewedAt
	}
	if interview.Status != "" {
		existing.Status = interview.Status
	}
	existing.English = interview.English
	existing.Technical = interview.Technical
	existing.Recommend = interview.Recommend

	if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}
	return existing, nil
}

func (r *interviewRepository) SetRecordingPath(ctx context.Context, id uuid.UUID, path string) error {
	result := r.active(ctx).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"recording_path": path,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set recording path: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *interviewRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.active(ctx).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now().UTC(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete interview: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
