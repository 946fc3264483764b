package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hrsystem/internal/models"
	"hrsystem/internal/repositories"
)

// substringIndex keeps the index contract over in-memory documents: matching
// is a case-insensitive substring scan of the indexed text fields, with the
// deletion filter and fullname ordering of the real index.
type substringIndex struct {
	docs map[string]models.SearchDocument
}

func newSubstringIndex() *substringIndex {
	return &substringIndex{docs: map[string]models.SearchDocument{}}
}

func (s *substringIndex) EnsureIndex(ctx context.Context) error { return nil }

func (s *substringIndex) Upsert(ctx context.Context, doc *models.SearchDocument) error {
	s.docs[doc.ID] = *doc
	return nil
}

func (s *substringIndex) Remove(ctx context.Context, id string) error {
	delete(s.docs, id)
	return nil
}

func (s *substringIndex) Search(ctx context.Context, query string, page, size int) ([]models.SearchDocument, int64, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	var matches []models.SearchDocument
	for _, doc := range s.docs {
		if doc.IsDeleted {
			continue
		}
		if q == "" || s.matches(doc, q) {
			matches = append(matches, doc)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return strings.ToLower(matches[i].Fullname) < strings.ToLower(matches[j].Fullname)
	})

	return paginateDocuments(matches, page, size), int64(len(matches)), nil
}

func (s *substringIndex) matches(doc models.SearchDocument, q string) bool {
	if strings.Contains(strings.ToLower(doc.Fullname), q) ||
		strings.Contains(strings.ToLower(doc.Email), q) {
		return true
	}
	return doc.ResumeContent != nil && strings.Contains(strings.ToLower(*doc.ResumeContent), q)
}

type mappedExtractor struct {
	texts map[string]string
}

func (m *mappedExtractor) ExtractText(name string) string { return m.texts[name] }

// The database fallback matches on name and email only, a strict subset of
// the index's fields, so with a synchronized index every fallback hit must
// also be an index hit.
func TestSearch_FallbackRecallIsSubsetOfIndex(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:TestSearch_FallbackRecallIsSubsetOfIndex?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Candidate{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	index := newSubstringIndex()
	indexer := NewIndexer(index, &mappedExtractor{texts: map[string]string{
		"resume_jane.pdf": "golang kubernetes engineer",
	}})
	repo := repositories.NewCandidateRepository(db, indexer)
	ctx := context.Background()

	seed := []models.Candidate{
		{Fullname: "Jane Doe", Email: "jane@x.com", ResumePath: "resume_jane.pdf"},
		{Fullname: "John Roe", Email: "john.roe@corp.example"},
		{Fullname: "Ada Lovelace", Email: "ada@numbers.example"},
		{Fullname: "Janet Gone", Email: "janet@x.com"},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("failed to seed candidate %s: %v", seed[i].Email, err)
		}
	}
	if _, err := repo.SoftDelete(ctx, seed[3].ID); err != nil {
		t.Fatalf("failed to soft delete candidate: %v", err)
	}

	queries := []string{"", "jan", "JANE", "x.com", "o", "golang", "zzz"}

	for _, query := range queries {
		t.Run(fmt.Sprintf("query %q", query), func(t *testing.T) {
			primary, _, err := index.Search(ctx, query, 1, 100)
			if err != nil {
				t.Fatalf("index search failed: %v", err)
			}
			indexed := make(map[string]bool, len(primary))
			for _, doc := range primary {
				indexed[doc.ID] = true
			}

			fallback, _, err := repo.SearchByNameOrEmail(ctx, query, 1, 100)
			if err != nil {
				t.Fatalf("fallback search failed: %v", err)
			}
			for _, c := range fallback {
				if !indexed[c.ID.String()] {
					t.Errorf("fallback returned %s (%s) which the index would not match for %q",
						c.Fullname, c.ID, query)
				}
			}
		})
	}
}
