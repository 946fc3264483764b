package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"hrsystem/internal/models"
)

// Indexer keeps the search index aligned with the candidate store after every
// create, update or soft-delete. Each call is a best-effort side effect of an
// already-committed primary write: extraction and index failures are logged
// and swallowed, never propagated to the write path.
type Indexer struct {
	index     CandidateIndex
	extractor TextExtractor
}

func NewIndexer(index CandidateIndex, extractor TextExtractor) *Indexer {
	return &Indexer{index: index, extractor: extractor}
}

func (ix *Indexer) CandidateCreated(ctx context.Context, candidate *models.Candidate) {
	ix.sync(ctx, candidate, "index")
}

func (ix *Indexer) CandidateUpdated(ctx context.Context, candidate *models.Candidate) {
	ix.sync(ctx, candidate, "update")
}

// CandidateDeleted retires the document by re-upserting it with
// is_deleted=true; the document itself stays in the index, filtered out of
// normal search.
func (ix *Indexer) CandidateDeleted(ctx context.Context, candidate *models.Candidate) {
	ix.sync(ctx, candidate, "retire")
}

func (ix *Indexer) sync(ctx context.Context, candidate *models.Candidate, action string) {
	doc := ix.BuildDocument(candidate)

	if err := ix.index.Upsert(ctx, doc); err != nil {
		log.Printf("⚠️  Failed to %s candidate %s in search index: %v", action, candidate.ID, err)
		return
	}
	log.Printf("✅ Candidate %s synced to search index (%s)", candidate.ID, action)
}

// BuildDocument projects a candidate into its search document, extracting
// resume text when a resume is stored. Extraction failure leaves the content
// null; the document is still written.
func (ix *Indexer) BuildDocument(candidate *models.Candidate) *models.SearchDocument {
	doc := models.DocumentFromCandidate(candidate)

	if candidate.ResumePath != "" {
		if text := ix.extractor.ExtractText(candidate.ResumePath); text != "" {
			doc.ResumeContent = &text
		}
	}

	return doc
}

// Remove hard-deletes a candidate's document from the index. Used by index
// cleanup, not by the normal soft-delete path.
func (ix *Indexer) Remove(ctx context.Context, candidateID uuid.UUID) {
	if err := ix.index.Remove(ctx, candidateID.String()); err != nil {
		log.Printf("⚠️  Failed to remove candidate %s from search index: %v", candidateID, err)
		return
	}
	log.Printf("✅ Candidate %s removed from search index", candidateID)
}
