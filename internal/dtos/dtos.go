package dtos

import "jobscout/internal/models"

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Query           string   `json:"query" binding:"required"`
	Location        string   `json:"location"`
	JobType         string   `json:"jobType"`
	ExperienceLevel string   `json:"experienceLevel"`
	Salary          string   `json:"salary"`
	Technologies    []string `json:"technologies"`
	CompanySize     string   `json:"companySize"`
	NumResults      int      `json:"numResults"`
	FindSimilar     bool     `json:"findSimilar"`
}

// SearchResponse is the POST /search 200 body.
type SearchResponse struct {
	SearchID   uint                  `json:"searchId"`
	Jobs       []models.JobCandidate `json:"jobs"`
	TotalFound int                   `json:"totalFound"`
}

// SaveJobRequest is the POST /saved-jobs body.
type SaveJobRequest struct {
	JobID  uint   `json:"jobId" binding:"required"`
	Notes  string `json:"notes"`
	Status string `json:"status"`
}

// UpdateSavedJobRequest is the PUT /saved-jobs body. Pointer fields
// distinguish "omitted" from "set to empty" for partial updates.
type UpdateSavedJobRequest struct {
	ID     uint    `json:"id" binding:"required"`
	Notes  *string `json:"notes"`
	Status *string `json:"status"`
}

// DeleteSavedJobRequest is the DELETE /saved-jobs body.
type DeleteSavedJobRequest struct {
	ID uint `json:"id" binding:"required"`
}

// DeleteSearchRequest is the DELETE /jobs body.
type DeleteSearchRequest struct {
	SearchID uint `json:"searchId" binding:"required"`
}

// SearchSummary is one row of GET /searches.
type SearchSummary struct {
	models.SearchRequest
	JobCount int64 `json:"job_count"`
}
