package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"hrsystem/internal/models"
)

// CandidateIndex is the external full-text index over candidate documents.
// It is a disposable projection: the relational store remains authoritative.
type CandidateIndex interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, doc *models.SearchDocument) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, page, size int) ([]models.SearchDocument, int64, error)
}

type qdrantIndex struct {
	client     *qdrant.Client
	collection string
	maxWindow  int
	timeout    time.Duration
}

// Qdrant requires a vector schema per collection even for payload-only use,
// so every candidate point carries the same one-dimensional placeholder.
var placeholderVector = []float32{0}

func NewQdrantIndex(urlStr, apiKey, collection string, maxWindow int, timeout time.Duration) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	if maxWindow <= 0 {
		maxWindow = 1000
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &qdrantIndex{
		client:     client,
		collection: collection,
		maxWindow:  maxWindow,
		timeout:    timeout,
	}, nil
}

// EnsureIndex creates the candidate collection and its payload field indexes
// if absent. An existing collection is left untouched.
func (q *qdrantIndex) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Printf("✅ Search collection '%s' already exists", q.collection)
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(len(placeholderVector)),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	fieldIndexes := []struct {
		name string
		kind qdrant.FieldType
	}{
		{"fullname", qdrant.FieldType_FieldTypeText},
		{"email", qdrant.FieldType_FieldTypeText},
		{"phone", qdrant.FieldType_FieldTypeText},
		{"resume_content", qdrant.FieldType_FieldTypeText},
		{"resume_path", qdrant.FieldType_FieldTypeKeyword},
		{"created_at", qdrant.FieldType_FieldTypeDatetime},
		{"is_deleted", qdrant.FieldType_FieldTypeBool},
	}

	for _, fi := range fieldIndexes {
		_, err := q.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: q.collection,
			FieldName:      fi.name,
			FieldType:      fi.kind.Enum(),
		})
		if err != nil {
			return fmt.Errorf("failed to create field index %q: %w", fi.name, err)
		}
	}

	log.Printf("✅ Search collection '%s' created successfully", q.collection)
	return nil
}

// Upsert writes the document keyed by candidate ID, overwriting all fields.
// Writing the same document twice leaves the index unchanged.
func (q *qdrantIndex) Upsert(ctx context.Context, doc *models.SearchDocument) error {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(doc.ID),
		Vectors: qdrant.NewVectors(placeholderVector...),
		Payload: qdrant.NewValueMap(payloadFromDocument(doc)),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points:         []*qdrant.PointStruct{point},
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert candidate document: %w", err)
	}
	return nil
}

// Remove hard-deletes a candidate document. Normal soft-deletes go through
// Upsert with is_deleted=true instead; this exists for index cleanup.
func (q *qdrantIndex) Remove(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collection,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete candidate document: %w", err)
	}
	return nil
}

// Search runs a full-text query over fullname, email and resume content,
// filtered to non-deleted documents, ordered by fullname ascending with
// skip/take pagination. A blank query matches all non-deleted documents.
//
// Qdrant cannot order results by a keyword payload field, so matches are
// pulled into a bounded window, sorted here, then paginated. A match set
// larger than the window is reported as an error so the caller can fall back
// to the relational search.
func (q *qdrantIndex) Search(ctx context.Context, query string, page, size int) ([]models.SearchDocument, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatchBool("is_deleted", false),
		},
	}
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		filter.Should = []*qdrant.Condition{
			qdrant.NewMatchText("fullname", trimmed),
			qdrant.NewMatchText("email", trimmed),
			qdrant.NewMatchText("resume_content", trimmed),
		}
	}

	totalCount, err := q.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: q.collection,
		Filter:         filter,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count matching documents: %w", err)
	}

	if totalCount == 0 {
		return []models.SearchDocument{}, 0, nil
	}
	if totalCount > uint64(q.maxWindow) {
		return nil, 0, fmt.Errorf("match set of %d exceeds index search window of %d", totalCount, q.maxWindow)
	}

	points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: q.collection,
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint32(totalCount)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch matching documents: %w", err)
	}

	docs := make([]models.SearchDocument, 0, len(points))
	for _, point := range points {
		docs = append(docs, documentFromPoint(point))
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return strings.ToLower(docs[i].Fullname) < strings.ToLower(docs[j].Fullname)
	})

	return paginateDocuments(docs, page, size), int64(totalCount), nil
}

func paginateDocuments(docs []models.SearchDocument, page, size int) []models.SearchDocument {
	skip := (page - 1) * size
	if skip >= len(docs) {
		return []models.SearchDocument{}
	}
	end := skip + size
	if end > len(docs) {
		end = len(docs)
	}
	return docs[skip:end]
}

func payloadFromDocument(doc *models.SearchDocument) map[string]any {
	payload := map[string]any{
		"fullname":    doc.Fullname,
		"email":       doc.Email,
		"phone":       doc.Phone,
		"resume_path": doc.ResumePath,
		"created_at":  doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		"is_deleted":  doc.IsDeleted,
	}
	if doc.ResumeContent != nil {
		payload["resume_content"] = *doc.ResumeContent
	}
	return payload
}

func documentFromPoint(point *qdrant.RetrievedPoint) models.SearchDocument {
	payload := point.GetPayload()

	doc := models.SearchDocument{
		ID:         point.GetId().GetUuid(),
		Fullname:   payload["fullname"].GetStringValue(),
		Email:      payload["email"].GetStringValue(),
		Phone:      payload["phone"].GetStringValue(),
		ResumePath: payload["resume_path"].GetStringValue(),
		IsDeleted:  payload["is_deleted"].GetBoolValue(),
	}

	if v, ok := payload["resume_content"]; ok {
		if content := v.GetStringValue(); content != "" {
			doc.ResumeContent = &content
		}
	}
	if createdAt, err := time.Parse(time.RFC3339Nano, payload["created_at"].GetStringValue()); err == nil {
		doc.CreatedAt = createdAt
	}

	return doc
}
