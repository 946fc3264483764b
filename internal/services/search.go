package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"hrsystem/internal/models"
)

// SearchSource records which path produced a search result.
type SearchSource string

const (
	SourceIndex    SearchSource = "index"
	SourceDatabase SearchSource = "database"
)

// SearchResult carries one page of candidate matches plus the path that
// produced it, so degraded (fallback) results are visible to callers instead
// of being hidden behind an exception path.
type SearchResult struct {
	Items      []models.Candidate
	TotalCount int64
	Page       int
	PageSize   int
	Source     SearchSource
}

// fallbackSearcher is the slice of the candidate repository the search
// service uses when the index is unavailable.
type fallbackSearcher interface {
	SearchByNameOrEmail(ctx context.Context, query string, page, size int) ([]models.Candidate, int64, error)
}

// SearchService answers free-text candidate search, favoring the search
// index and transparently degrading to a relational substring scan. Fallback
// results match on name/email only, so recall is reduced while degraded.
type SearchService struct {
	index      CandidateIndex
	candidates fallbackSearcher
}

func NewSearchService(index CandidateIndex, candidates fallbackSearcher) *SearchService {
	return &SearchService{index: index, candidates: candidates}
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func (s *SearchService) Search(ctx context.Context, query string, page, size int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	docs, totalCount, err := s.index.Search(ctx, query, page, size)
	if err == nil {
		return &SearchResult{
			Items:      candidatesFromDocuments(docs),
			TotalCount: totalCount,
			Page:       page,
			PageSize:   size,
			Source:     SourceIndex,
		}, nil
	}

	log.Printf("⚠️  Index search failed for query %q, falling back to database: %v", query, err)

	items, totalCount, err := s.candidates.SearchByNameOrEmail(ctx, query, page, size)
	if err != nil {
		return nil, fmt.Errorf("search unavailable: %w", err)
	}

	return &SearchResult{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   size,
		Source:     SourceDatabase,
	}, nil
}

// candidatesFromDocuments maps index documents back to candidate-shaped
// results using the index-held field copies. Documents with unparsable IDs
// are dropped rather than failing the whole page.
func candidatesFromDocuments(docs []models.SearchDocument) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			log.Printf("⚠️  Skipping index document with invalid id %q: %v", doc.ID, err)
			continue
		}
		candidates = append(candidates, models.Candidate{
			ID:         id,
			Fullname:   doc.Fullname,
			Email:      doc.Email,
			Phone:      doc.Phone,
			ResumePath: doc.ResumePath,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return candidates
}
