package models

import "time"

// SearchDocument is the index-side projection of a Candidate. It is derived
// data: always reconstructable from the candidate row plus resume extraction.
type SearchDocument struct {
	ID            string    `json:"id"`
	Fullname      string    `json:"fullname"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	ResumePath    string    `json:"resume_path"`
	ResumeContent *string   `json:"resume_content,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	IsDeleted     bool      `json:"is_deleted"`
}

// DocumentFromCandidate projects a candidate row into its search document,
// without resume content. The deletion flag mirrors the soft-delete timestamp.
func DocumentFromCandidate(c *Candidate) *SearchDocument {
	return &SearchDocument{
		ID:         c.ID.String(),
		Fullname:   c.Fullname,
		Email:      c.Email,
		Phone:      c.Phone,
		ResumePath: c.ResumePath,
		CreatedAt:  c.CreatedAt,
		IsDeleted:  c.DeletedAt != nil,
	}
}
