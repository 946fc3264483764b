package models

type PagedResponse struct {
	TotalCount int64 `json:"total_count"`
	PageNumber int   `json:"page_number"`
	PageSize   int   `json:"page_size"`
	Items      any   `json:"items"`
}

type SearchResponse struct {
	TotalCount int64       `json:"total_count"`
	PageNumber int         `json:"page_number"`
	PageSize   int         `json:"page_size"`
	Source     string      `json:"source"`
	Items      []Candidate `json:"items"`
}

type AddUserRequest struct {
	Fullname    string `json:"fullname" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	UserType    string `json:"user_type" validate:"required"`
	AccessLevel string `json:"access_level,omitempty"`
	Specialty   string `json:"specialty,omitempty"`
}

type UpdateUserRequest struct {
	Fullname    string `json:"fullname"`
	AccessLevel string `json:"access_level,omitempty"`
	Specialty   string `json:"specialty,omitempty"`
}

type AddInterviewRequest struct {
	Job           string `json:"job" validate:"required"`
	CandidateID   string `json:"candidate_id" validate:"required,uuid"`
	InterviewerID string `json:"interviewer_id" validate:"required,uuid"`
	HrID          string `json:"hr_id" validate:"required,uuid"`
	InterviewedAt string `json:"interviewed_at" validate:"required"`
}

type UpdateInterviewRequest struct {
	Job           string `json:"job"`
	InterviewedAt string `json:"interviewed_at"`
	English       *int   `json:"english,omitempty"`
	Technical     *int   `json:"technical,omitempty"`
	Recommend     *int   `json:"recommend,omitempty"`
	Status        string `json:"status,omitempty"`
}
