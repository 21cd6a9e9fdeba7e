// Package pipeline implements the job-search pipeline: query
// construction, retrieval, posting validation, field extraction,
// scoring, deduplication and insight aggregation.
package pipeline

import "jobscout/internal/search"

// Preferences is the user's structured filter set. All fields optional.
type Preferences struct {
	Location        string
	JobType         string
	ExperienceLevel string
	MinSalary       string
	Technologies    []string
	CompanySize     string
}

// Enriched is a validated candidate with its extracted fields and score.
type Enriched struct {
	Doc search.Document

	Company         string
	Location        string
	Salary          string
	ExperienceLevel string
	JobType         string
	Skills          string
	ApplyMethod     string
	Benefits        string
	RemotePolicy    string

	Score int
}
