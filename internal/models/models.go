package models

import (
	"errors"
	"fmt"
	"time"
)

// SearchRequest is one user-initiated search. Immutable once created —
// no UpdatedAt, nothing ever writes to it after Create.
type SearchRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Query           string `gorm:"not null" json:"query"`
	Location        string `json:"location"`
	JobType         string `json:"job_type"`
	ExperienceLevel string `json:"experience_level"`
	MinSalary       string `json:"min_salary"`
	Technologies    string `json:"technologies"` // comma-separated
	CompanySize     string `json:"company_size"`

	// 'omitempty' prevents loops when serialising SearchRequest -> Jobs -> ...
	Jobs []JobCandidate `gorm:"constraint:OnDelete:CASCADE" json:"jobs,omitempty"`
}

// JobCandidate is a validated, enriched, scored job posting owned by one
// SearchRequest. Rows are written once by the pipeline and never mutated;
// a re-search creates fresh rows scoped to the new SearchRequest.
type JobCandidate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SearchRequestID uint `gorm:"index" json:"search_request_id"`

	URL             string `gorm:"uniqueIndex;not null" json:"url"`
	Title           string `gorm:"not null" json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Salary          string `json:"salary"`
	ExperienceLevel string `json:"experience_level"`
	JobType         string `json:"job_type"`
	Skills          string `json:"skills"`
	RemotePolicy    string `json:"remote_policy"`
	Content         string `gorm:"type:text" json:"content"`

	// 1-10 once scored; 0 only before scoring ran.
	Score int `gorm:"default:0" json:"score"`

	SavedJob *SavedJob `gorm:"constraint:OnDelete:CASCADE" json:"saved_job,omitempty"`
}

// SavedJob is a user bookmark of exactly one JobCandidate.
type SavedJob struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobCandidateID uint         `gorm:"uniqueIndex;not null" json:"job_candidate_id"`
	Job            JobCandidate `gorm:"foreignKey:JobCandidateID" json:"job"`

	Notes  string `gorm:"type:text" json:"notes"`
	Status string `gorm:"default:'interested'" json:"status"`
}

// Saved-job statuses. A bookmark starts as "interested" and moves through
// the application workflow from there.
const (
	StatusInterested   = "interested"
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusRejected     = "rejected"
	StatusOffer        = "offer"
)

var validStatuses = map[string]bool{
	StatusInterested:   true,
	StatusApplied:      true,
	StatusInterviewing: true,
	StatusRejected:     true,
	StatusOffer:        true,
}

// ErrInvalidStatus is returned for status strings outside the enum.
var ErrInvalidStatus = errors.New("invalid saved-job status")

// ParseStatus validates a saved-job status string.
func ParseStatus(s string) (string, error) {
	if !validStatuses[s] {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return s, nil
}
