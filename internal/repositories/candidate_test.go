package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hrsystem/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Candidate{}, &models.User{}, &models.Interview{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// recordingIndexer records index notifications; the write path must succeed
// no matter what happens on the index side.
type recordingIndexer struct {
	created []uuid.UUID
	updated []uuid.UUID
	deleted []uuid.UUID
}

func (r *recordingIndexer) CandidateCreated(_ context.Context, c *models.Candidate) {
	r.created = append(r.created, c.ID)
}

func (r *recordingIndexer) CandidateUpdated(_ context.Context, c *models.Candidate) {
	r.updated = append(r.updated, c.ID)
}

func (r *recordingIndexer) CandidateDeleted(_ context.Context, c *models.Candidate) {
	r.deleted = append(r.deleted, c.ID)
}

func seedCandidate(t *testing.T, repo CandidateRepository, fullname, email string) *models.Candidate {
	t.Helper()
	c := &models.Candidate{Fullname: fullname, Email: email}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("failed to seed candidate %s: %v", email, err)
	}
	return c
}

func TestCandidateRepository_DuplicateEmail(t *testing.T) {
	repo := NewCandidateRepository(newTestDB(t), nil)
	ctx := context.Background()

	seedCandidate(t, repo, "Jane Doe", "jane@x.com")

	err := repo.Create(ctx, &models.Candidate{Fullname: "Jane Clone", Email: "jane@x.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestCandidateRepository_EmailReusableAfterSoftDelete(t *testing.T) {
	repo := NewCandidateRepository(newTestDB(t), nil)
	ctx := context.Background()

	first := seedCandidate(t, repo, "Jane Doe", "jane@x.com")
	if _, err := repo.SoftDelete(ctx, first.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	// Uniqueness only applies among non-deleted rows.
	if err := repo.Create(ctx, &models.Candidate{Fullname: "Jane Again", Email: "jane@x.com"}); err != nil {
		t.Fatalf("expected email to be reusable after soft delete, got %v", err)
	}
}

func TestCandidateRepository_SoftDeleteExclusion(t *testing.T) {
	repo := NewCandidateRepository(newTestDB(t), nil)
	ctx := context.Background()

	kept := seedCandidate(t, repo, "Jane Doe", "jane@x.com")
	gone := seedCandidate(t, repo, "John Roe", "john@x.com")

	deleted, err := repo.SoftDelete(ctx, gone.ID)
	if err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if deleted.DeletedAt == nil {
		t.Fatal("soft delete must set the deletion timestamp")
	}

	t.Run("excluded from FindByID", func(t *testing.T) {
		if _, err := repo.FindByID(ctx, gone.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for soft-deleted candidate, got %v", err)
		}
	})

	t.Run("excluded from GetAll", func(t *testing.T) {
		items, total, err := repo.GetAll(ctx, 1, 10)
		if err != nil {
			t.Fatalf("GetAll failed: %v", err)
		}
		if total != 1 || len(items) != 1 || items[0].ID != kept.ID {
			t.Errorf("expected only the active candidate, got total=%d items=%+v", total, items)
		}
	})

	t.Run("excluded from fallback search", func(t *testing.T) {
		items, total, err := repo.SearchByNameOrEmail(ctx, "x.com", 1, 10)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if total != 1 || len(items) != 1 || items[0].ID != kept.ID {
			t.Errorf("soft-deleted candidate leaked into search: total=%d items=%+v", total, items)
		}
	})

	t.Run("excluded from FindAllActive", func(t *testing.T) {
		items, err := repo.FindAllActive(ctx)
		if err != nil {
			t.Fatalf("FindAllActive failed: %v", err)
		}
		if len(items) != 1 || items[0].ID != kept.ID {
			t.Errorf("expected only the active candidate, got %+v", items)
		}
	})
}

func TestCandidateRepository_Pagination(t *testing.T) {
	repo := NewCandidateRepository(newTestDB(t), nil)
	ctx := context.Background()

	// 25 candidates named c01..c25; fullname sort order equals seed order.
	for i := 1; i <= 25; i++ {
		seedCandidate(t, repo, fmt.Sprintf("Candidate %02d", i), fmt.Sprintf("c%02d@x.com", i))
	}

	items, total, err := repo.GetAll(ctx, 2, 10)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if total != 25 {
		t.Errorf("expected total 25, got %d", total)
	}
	if len(items) != 10 {
		t.Fatalf("expected 10 items on page 2, got %d", len(items))
	}
	if items[0].Fullname != "Candidate 11" || items[9].Fullname != "Candidate 20" {
		t.Errorf("page 2 window wrong: first=%q last=%q", items[0].Fullname, items[9].Fullname)
	}
}

func TestCandidateRepository_FallbackSearch(t *testing.T) {
	repo := NewCandidateRepository(newTestDB(t), nil)
	ctx := context.Background()

	seedCandidate(t, repo, "Jane Doe", "jane@x.com")
	seedCandidate(t, repo, "John Roe", "john.roe@corp.example")
	seedCandidate(t, repo, "Ada Lovelace", "ada@numbers.example")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"case-insensitive name match", "JANE", []string{"Jane Doe"}},
		{"email substring match", "corp.example", []string{"John Roe"}},
		{"substring across name and email, fullname order", "o", []string{"Ada Lovelace", "Jane Doe", "John Roe"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.SearchByNameOrEmail(ctx, tt.query, 1, 10)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if int(total) != len(tt.want) {
				t.Fatalf("expected %d matches, got %d", len(tt.want), total)
			}
			for i, want := range tt.want {
				if items[i].Fullname != want {
					t.Errorf("result[%d] = %q, want %q", i, items[i].Fullname, want)
				}
			}
		})
	}
}

func TestCandidateRepository_IndexNotifications(t *testing.T) {
	indexer := &recordingIndexer{}
	repo := NewCandidateRepository(newTestDB(t), indexer)
	ctx := context.Background()

	candidate := seedCandidate(t, repo, "Jane Doe", "jane@x.com")
	if len(indexer.created) != 1 || indexer.created[0] != candidate.ID {
		t.Errorf("create notification missing: %+v", indexer.created)
	}

	if _, err := repo.Update(ctx, candidate.ID, &models.Candidate{Fullname: "Jane D. Doe"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(indexer.updated) != 1 {
		t.Errorf("update notification missing: %+v", indexer.updated)
	}

	if _, err := repo.SoftDelete(ctx, candidate.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if len(indexer.deleted) != 1 {
		t.Errorf("delete notification missing: %+v", indexer.deleted)
	}
}

func TestCandidateRepository_UpdateKeepsResumeWithoutNewFile(t *testing.T) {
	repo := NewCandidateRepository(newTestDB(t), nil)
	ctx := context.Background()

	candidate := &models.Candidate{Fullname: "Jane Doe", Email: "jane@x.com", ResumePath: "resume_old.pdf"}
	if err := repo.Create(ctx, candidate); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := repo.Update(ctx, candidate.ID, &models.Candidate{Fullname: "Jane Doe", Phone: "555-0100"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ResumePath != "resume_old.pdf" {
		t.Errorf("resume path lost on update without new file: %q", updated.ResumePath)
	}

	updated, err = repo.Update(ctx, candidate.ID, &models.Candidate{Fullname: "Jane Doe", ResumePath: "resume_new.pdf"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ResumePath != "resume_new.pdf" {
		t.Errorf("resume path not replaced: %q", updated.ResumePath)
	}
}
