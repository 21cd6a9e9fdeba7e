package pipeline

import (
	"strings"

	"jobscout/internal/search"
)

// ValidatorConfig is policy, not contract: deployments tighten or loosen
// the accept threshold without touching the signal set.
type ValidatorConfig struct {
	MinSignals       int // signals required to accept, out of 6
	MinContentLength int // hard floor, shorter pages are never postings
}

// DefaultValidatorConfig accepts at 3 of 6 signals over 250+ chars.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{MinSignals: 3, MinContentLength: 250}
}

var urlJobPatterns = []string{
	"/job/", "/jobs/", "/careers", "/career/", "/position", "/opening",
	"/vacancy", "/vacancies", "greenhouse.io", "lever.co", "ashbyhq.com",
}

var titleHiringKeywords = []string{
	"hiring", "job", "career", "position", "opening", "vacancy",
	"engineer", "developer", "analyst", "manager", "designer",
}

var responsibilitySections = []string{
	"responsibilities", "what you'll do", "what you will do", "your role",
	"duties", "day to day", "day-to-day",
}

var requirementSections = []string{
	"requirements", "qualifications", "what we're looking for",
	"what we are looking for", "must have", "skills", "experience with",
}

var compensationSections = []string{
	"salary", "compensation", "benefits", "we offer", "perks", "equity",
}

var exclusionPhrases = []string{
	"search results", "browse jobs", "jobs found", "no jobs matched",
	"create a job alert", "sign up to see", "related articles",
	"read more on our blog", "press release",
}

var applyCues = []string{
	"apply now", "apply here", "apply at", "how to apply",
	"submit your application", "apply for this job", "apply today",
}

// IsJobPosting heuristically decides whether a raw document is an actual
// job posting. A page below the minimum content length is always
// rejected; otherwise it must hit at least MinSignals of six independent
// signals: job-path URL, hiring-keyword title, 2-of-3 semantic sections,
// no exclusion phrases, substantial length, and an apply cue.
func IsJobPosting(doc search.Document, cfg ValidatorConfig) bool {
	if len(doc.Text) < cfg.MinContentLength {
		return false
	}

	url := strings.ToLower(doc.URL)
	title := strings.ToLower(doc.Title)
	content := strings.ToLower(doc.Text)

	signals := 0
	if containsAny(url, urlJobPatterns) {
		signals++
	}
	if containsAny(title, titleHiringKeywords) {
		signals++
	}
	if countSections(content) >= 2 {
		signals++
	}
	if !containsAny(content, exclusionPhrases) {
		signals++
	}
	if len(doc.Text) >= 4*cfg.MinContentLength {
		signals++
	}
	if containsAny(content, applyCues) {
		signals++
	}

	return signals >= cfg.MinSignals
}

// countSections counts how many of the three required semantic sections
// (responsibilities-like, requirements-like, compensation-like) appear.
func countSections(content string) int {
	n := 0
	if containsAny(content, responsibilitySections) {
		n++
	}
	if containsAny(content, requirementSections) {
		n++
	}
	if containsAny(content, compensationSections) {
		n++
	}
	return n
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
