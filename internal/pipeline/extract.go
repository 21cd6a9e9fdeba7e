package pipeline

import (
	"context"
	"log"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"jobscout/internal/llm"
	"jobscout/internal/search"
)

// Field names the extractor understands.
type Field string

const (
	FieldCompany         Field = "company"
	FieldLocation        Field = "location"
	FieldSalary          Field = "salary"
	FieldExperienceLevel Field = "experienceLevel"
	FieldJobType         Field = "jobType"
	FieldSkills          Field = "skills"
	FieldApplyMethod     Field = "applyMethod"
	FieldBenefits        Field = "benefits"
	FieldRemotePolicy    Field = "remotePolicy"
)

// NotSpecified is the sentinel for a field absent from the posting.
const NotSpecified = "Not specified"

const (
	maxPromptChars = 3500
	maxFieldTokens = 120
)

// fieldInstructions are the per-field single-turn prompts for the
// generative path. Kept deliberately terse: the model returns only the
// value, never prose around it.
var fieldInstructions = map[Field]string{
	FieldCompany:         "Extract the hiring company's name from this job posting. Reply with only the name.",
	FieldLocation:        "Extract the job location from this posting (city, country, or 'Remote'). Reply with only the location.",
	FieldSalary:          "Extract the salary or salary range from this posting (e.g. '$120,000 - $150,000'). Reply with only the salary.",
	FieldExperienceLevel: "Extract the required experience level from this posting (e.g. 'Senior', 'Mid-level', 'Entry-level'). Reply with only the level.",
	FieldJobType:         "Extract the employment type from this posting (e.g. 'Full-time', 'Contract', 'Internship'). Reply with only the type.",
	FieldSkills:          "List the key skills and technologies required by this posting, comma-separated, at most 8. Reply with only the list.",
	FieldApplyMethod:     "Extract how to apply for this job (link, email, or instruction). Reply with only the method.",
	FieldBenefits:        "List the benefits offered by this posting, comma-separated, at most 6. Reply with only the list.",
	FieldRemotePolicy:    "Classify this posting's work arrangement as exactly one of: Remote, Hybrid, On-site. Reply with only the word.",
}

// Extractor derives structured fields from posting text. When Gen is
// nil it runs heuristics only (the low-cost path).
type Extractor struct {
	Gen llm.TextGenerator
}

// ExtractField returns a short value for one field, or NotSpecified.
// It never fails: a generative error degrades to the heuristic value.
func (e *Extractor) ExtractField(ctx context.Context, field Field, text string) string {
	if e.Gen != nil {
		if v, err := e.generate(ctx, field, text); err == nil && v != "" {
			return v
		} else if err != nil {
			log.Printf("extract %s: falling back to heuristics: %v", field, err)
		}
	}
	if v := heuristicExtract(field, text); v != "" {
		return v
	}
	return NotSpecified
}

func (e *Extractor) generate(ctx context.Context, field Field, text string) (string, error) {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}
	prompt := fieldInstructions[field] +
		"\nIf the posting does not state it, reply with exactly 'Not specified'.\n\n" + text

	resp, err := e.Gen.GenerateText(ctx, prompt, maxFieldTokens)
	if err != nil {
		return "", err
	}
	return cleanFieldValue(resp), nil
}

// Enrich extracts every field for one candidate, fanning the calls out
// concurrently. Individual field failures degrade to heuristic or
// sentinel values, so Enrich itself never fails the candidate.
func (e *Extractor) Enrich(ctx context.Context, doc search.Document) Enriched {
	enriched := Enriched{Doc: doc}

	targets := []struct {
		field Field
		dst   *string
	}{
		{FieldCompany, &enriched.Company},
		{FieldLocation, &enriched.Location},
		{FieldSalary, &enriched.Salary},
		{FieldExperienceLevel, &enriched.ExperienceLevel},
		{FieldJobType, &enriched.JobType},
		{FieldSkills, &enriched.Skills},
		{FieldApplyMethod, &enriched.ApplyMethod},
		{FieldBenefits, &enriched.Benefits},
		{FieldRemotePolicy, &enriched.RemotePolicy},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			*t.dst = e.ExtractField(gctx, t.field, doc.Text)
			return nil
		})
	}
	g.Wait() // goroutines never return errors

	return enriched
}

// cleanFieldValue normalises a generative reply down to a short value.
func cleanFieldValue(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "\"'`")
	if len(s) > 150 {
		s = s[:150]
	}
	if strings.EqualFold(s, "not specified") || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return NotSpecified
	}
	return strings.TrimSpace(s)
}

var (
	titleCompanyRe = regexp.MustCompile(`(?:\bat\b|@)\s+([A-Z][A-Za-z0-9&.\- ]{1,40})`)
	labelRe        = map[Field]*regexp.Regexp{
		FieldCompany:  regexp.MustCompile(`(?im)^company:\s*(.{2,60})$`),
		FieldLocation: regexp.MustCompile(`(?im)^location:\s*(.{2,60})$`),
		FieldSalary:   regexp.MustCompile(`(?im)^salary:\s*(.{2,60})$`),
	}
	salaryRe   = regexp.MustCompile(`(?i)[$€£]\s?\d{2,3}(?:,\d{3})*(?:k)?(?:\s*[-–]\s*[$€£]?\s?\d{2,3}(?:,\d{3})*(?:k)?)?`)
	cityRe     = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)?,\s*[A-Z]{2}\b`)
	applyURLRe = regexp.MustCompile(`(?i)apply(?:\s+\w+){0,3}\s+at\s+(\S+)`)
)

var knownSkills = []string{
	"go", "golang", "python", "java", "javascript", "typescript", "react",
	"node", "rust", "c++", "kubernetes", "docker", "aws", "gcp", "azure",
	"terraform", "postgresql", "postgres", "mysql", "redis", "kafka",
	"graphql", "sql", "linux", "git", "ci/cd", "machine learning",
}

var benefitKeywords = []string{
	"health insurance", "dental", "vision", "401k", "401(k)", "pension",
	"pto", "paid time off", "unlimited vacation", "parental leave",
	"stock options", "equity", "bonus", "gym",
}

// heuristicExtract is the zero-cost extraction path: regex and keyword
// matching only. Returns "" when it finds nothing.
func heuristicExtract(field Field, text string) string {
	lower := strings.ToLower(text)

	if re, ok := labelRe[field]; ok {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	switch field {
	case FieldCompany:
		// "Software Engineer at Stripe" style headers
		if m := titleCompanyRe.FindStringSubmatch(firstLines(text, 5)); m != nil {
			return strings.TrimSpace(m[1])
		}
	case FieldLocation:
		if m := cityRe.FindString(text); m != "" {
			return m
		}
		if strings.Contains(lower, "remote") {
			return "Remote"
		}
	case FieldSalary:
		if m := salaryRe.FindString(text); m != "" {
			return m
		}
	case FieldExperienceLevel:
		for _, level := range []string{"principal", "staff", "senior", "lead", "mid-level", "junior", "entry-level", "intern"} {
			if strings.Contains(lower, level) {
				return strings.Title(level)
			}
		}
	case FieldJobType:
		for _, t := range []string{"full-time", "full time", "part-time", "part time", "contract", "internship", "freelance"} {
			if strings.Contains(lower, t) {
				return strings.Title(strings.ReplaceAll(t, " ", "-"))
			}
		}
	case FieldSkills:
		var found []string
		for _, skill := range knownSkills {
			if containsWord(lower, skill) {
				found = append(found, skill)
			}
			if len(found) == 8 {
				break
			}
		}
		return strings.Join(found, ", ")
	case FieldApplyMethod:
		if m := applyURLRe.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
		if containsAny(lower, applyCues) {
			return "See posting"
		}
	case FieldBenefits:
		var found []string
		for _, b := range benefitKeywords {
			if strings.Contains(lower, b) {
				found = append(found, b)
			}
			if len(found) == 6 {
				break
			}
		}
		return strings.Join(found, ", ")
	case FieldRemotePolicy:
		if strings.Contains(lower, "hybrid") {
			return "Hybrid"
		}
		if strings.Contains(lower, "remote") {
			return "Remote"
		}
		if strings.Contains(lower, "on-site") || strings.Contains(lower, "onsite") || strings.Contains(lower, "in office") {
			return "On-site"
		}
	}
	return ""
}

func firstLines(text string, n int) string {
	lines := strings.SplitN(text, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

// containsWord matches a skill token on word boundaries so "go" does not
// fire inside "google". Multi-word skills fall back to substring match.
func containsWord(text, word string) bool {
	if strings.ContainsAny(word, " /+") {
		return strings.Contains(text, word)
	}
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}
