package pipeline

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jobscout/internal/llm"
)

const (
	baseScore      = 5
	maxScoreTokens = 8
)

// HeuristicScore rates a candidate 1-10 from content-quality and
// preference-match signals plus a recency bonus. Deterministic for
// identical inputs.
func HeuristicScore(e Enriched, query string, prefs Preferences, now time.Time) int {
	score := baseScore

	title := strings.ToLower(e.Doc.Title)
	content := strings.ToLower(e.Doc.Text)
	terms := strings.Fields(strings.ToLower(query))

	if matchesAnyTerm(title, terms) {
		score++
	}
	if countTermMatches(content, terms) >= 2 {
		score++
	}
	if len(e.Doc.Text) > 1500 {
		score++
	}
	if matchesLocationPref(e, prefs) {
		score++
	}
	if containsAny(content, compensationSections) {
		score++
	}
	score += recencyBonus(e.Doc.PublishedDate, now)

	return clampScore(score)
}

// matchesLocationPref treats "Remote" postings as satisfying any
// location preference.
func matchesLocationPref(e Enriched, prefs Preferences) bool {
	if prefs.Location == "" {
		return false
	}
	pref := strings.ToLower(prefs.Location)
	loc := strings.ToLower(e.Location)
	policy := strings.ToLower(e.RemotePolicy)
	if strings.Contains(loc, "remote") || policy == "remote" {
		return true
	}
	return loc != "" && strings.Contains(loc, pref)
}

// recencyBonus decays with posting age: +2 within a week, +1 within
// three weeks, nothing after that (or when the date is unknown).
func recencyBonus(publishedDate string, now time.Time) int {
	if publishedDate == "" {
		return 0
	}
	ts, err := time.Parse(time.RFC3339, publishedDate)
	if err != nil {
		ts, err = time.Parse("2006-01-02", publishedDate)
		if err != nil {
			return 0
		}
	}
	age := now.Sub(ts)
	switch {
	case age <= 7*24*time.Hour:
		return 2
	case age <= 21*24*time.Hour:
		return 1
	default:
		return 0
	}
}

var bareIntRe = regexp.MustCompile(`\b(10|[1-9])\b`)

// GenerativeScore asks the model for a holistic 1-10 fit rating. The
// reply must contain a bare integer; anything else is a parse error.
func GenerativeScore(ctx context.Context, gen llm.TextGenerator, e Enriched, query string, prefs Preferences) (int, error) {
	prompt := buildScoringPrompt(e, query, prefs)
	resp, err := gen.GenerateText(ctx, prompt, maxScoreTokens)
	if err != nil {
		return 0, err
	}
	m := bareIntRe.FindString(strings.TrimSpace(resp))
	if m == "" {
		return 0, fmt.Errorf("unparseable score reply %q", resp)
	}
	n, _ := strconv.Atoi(m)
	return clampScore(n), nil
}

func buildScoringPrompt(e Enriched, query string, prefs Preferences) string {
	var sb strings.Builder
	sb.WriteString("Rate how well this job posting fits the candidate's search, 1-10.\n")
	sb.WriteString("Rubric: 10=perfect, 7-9=strong, 4-6=moderate, 1-3=poor.\n")
	sb.WriteString("A 'Remote' posting satisfies any location preference.\n")
	sb.WriteString("Reply with only the integer.\n\n")

	sb.WriteString("Search query: " + query + "\n")
	if prefs.Location != "" {
		sb.WriteString("Preferred location: " + prefs.Location + "\n")
	}
	if prefs.JobType != "" {
		sb.WriteString("Preferred job type: " + prefs.JobType + "\n")
	}
	if prefs.ExperienceLevel != "" {
		sb.WriteString("Experience level: " + prefs.ExperienceLevel + "\n")
	}
	if prefs.MinSalary != "" {
		sb.WriteString("Minimum salary: " + prefs.MinSalary + "\n")
	}
	if len(prefs.Technologies) > 0 {
		sb.WriteString("Technologies: " + strings.Join(prefs.Technologies, ", ") + "\n")
	}

	sb.WriteString("\nPosting:\n")
	sb.WriteString("Title: " + e.Doc.Title + "\n")
	sb.WriteString("Company: " + e.Company + "\n")
	sb.WriteString("Location: " + e.Location + "\n")
	sb.WriteString("Salary: " + e.Salary + "\n")
	sb.WriteString("Experience: " + e.ExperienceLevel + "\n")
	sb.WriteString("Type: " + e.JobType + "\n")
	sb.WriteString("Skills: " + e.Skills + "\n")
	sb.WriteString("Remote policy: " + e.RemotePolicy + "\n")
	return sb.String()
}

// Score combines both strategies: the generative rating supersedes the
// heuristic one when parseable, and any failure falls back to the
// heuristic score. Always returns a value in [1,10].
func Score(ctx context.Context, gen llm.TextGenerator, e Enriched, query string, prefs Preferences, now time.Time) int {
	heuristic := HeuristicScore(e, query, prefs, now)
	if gen == nil {
		return heuristic
	}
	n, err := GenerativeScore(ctx, gen, e, query, prefs)
	if err != nil {
		log.Printf("score %s: falling back to heuristic %d: %v", e.Doc.URL, heuristic, err)
		return heuristic
	}
	return n
}

func clampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

func matchesAnyTerm(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func countTermMatches(s string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(s, t) {
			n++
		}
	}
	return n
}
