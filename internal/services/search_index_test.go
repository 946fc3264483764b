package services

import (
	"testing"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"hrsystem/internal/models"
)

func TestPayloadDocumentRoundTrip(t *testing.T) {
	content := "golang postgres qdrant"
	createdAt := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	doc := &models.SearchDocument{
		ID:            "0c9d2c4e-9a54-4ed4-9c7e-0a4c5a3f1b2d",
		Fullname:      "Jane Doe",
		Email:         "jane@x.com",
		Phone:         "555-0100",
		ResumePath:    "resume_jane.pdf",
		ResumeContent: &content,
		CreatedAt:     createdAt,
		IsDeleted:     false,
	}

	point := &qdrant.RetrievedPoint{
		Id:      qdrant.NewID(doc.ID),
		Payload: qdrant.NewValueMap(payloadFromDocument(doc)),
	}

	got := documentFromPoint(point)
	if got.ID != doc.ID || got.Fullname != doc.Fullname || got.Email != doc.Email ||
		got.Phone != doc.Phone || got.ResumePath != doc.ResumePath || got.IsDeleted != doc.IsDeleted {
		t.Errorf("payload round trip lost fields: %+v", got)
	}
	if got.ResumeContent == nil || *got.ResumeContent != content {
		t.Errorf("resume content lost in round trip: %v", got.ResumeContent)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at round trip mismatch: got %v, want %v", got.CreatedAt, createdAt)
	}
}

func TestPayloadFromDocument_NullResumeContent(t *testing.T) {
	doc := &models.SearchDocument{
		ID:       "a",
		Fullname: "Jane Doe",
	}

	payload := payloadFromDocument(doc)
	if _, ok := payload["resume_content"]; ok {
		t.Error("nil resume content must be omitted from the payload")
	}

	point := &qdrant.RetrievedPoint{
		Id:      qdrant.NewID("0c9d2c4e-9a54-4ed4-9c7e-0a4c5a3f1b2d"),
		Payload: qdrant.NewValueMap(payload),
	}
	if got := documentFromPoint(point); got.ResumeContent != nil {
		t.Errorf("expected nil resume content, got %q", *got.ResumeContent)
	}
}

func TestPaginateDocuments(t *testing.T) {
	docs := make([]models.SearchDocument, 25)
	for i := range docs {
		docs[i] = models.SearchDocument{ID: string(rune('a' + i))}
	}

	tests := []struct {
		name      string
		page      int
		size      int
		wantLen   int
		wantFirst int
	}{
		{"first page", 1, 10, 10, 0},
		{"second page", 2, 10, 10, 10},
		{"partial last page", 3, 10, 5, 20},
		{"page past the end", 4, 10, 0, 0},
		{"single large page", 1, 100, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paginateDocuments(docs, tt.page, tt.size)
			if len(got) != tt.wantLen {
				t.Fatalf("got %d documents, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].ID != docs[tt.wantFirst].ID {
				t.Errorf("page starts at %q, want %q", got[0].ID, docs[tt.wantFirst].ID)
			}
		})
	}
}
