package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"jobscout/internal/models"
)

const (
	topCompanies = 5
	topLocations = 8
	topSkills    = 10
)

// Insights is the fixed-shape market summary computed over one search's
// final candidate list. Pure function of its inputs.
type Insights struct {
	TotalJobs        int             `json:"total_jobs"`
	TopCompanies     []NameCount     `json:"top_companies"`
	SalaryRange      *SalaryRange    `json:"salary_range,omitempty"`
	TopLocations     []NameCount     `json:"top_locations"`
	TrendingSkills   []NameCount     `json:"trending_skills"`
	ExperienceLevels map[string]int  `json:"experience_levels"`
	RemoteWork       RemoteBreakdown `json:"remote_work"`
	Recommendations  []string        `json:"recommendations"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type SalaryRange struct {
	Average int `json:"average"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// RemoteBreakdown counts always sum to TotalJobs: every candidate is
// classified remote, hybrid, or on-site.
type RemoteBreakdown struct {
	Remote        int     `json:"remote"`
	Hybrid        int     `json:"hybrid"`
	OnSite        int     `json:"on_site"`
	RemotePercent float64 `json:"remote_percent"`
}

// ComputeInsights aggregates the result set into the summary object.
func ComputeInsights(jobs []models.JobCandidate, prefs Preferences) Insights {
	ins := Insights{
		TotalJobs:        len(jobs),
		ExperienceLevels: map[string]int{},
	}

	companies := map[string]int{}
	locations := map[string]int{}
	skills := map[string]int{}
	var salaries []int
	scoreSum := 0

	for _, j := range jobs {
		scoreSum += j.Score

		if known(j.Company) {
			companies[j.Company]++
		}
		if known(j.Location) {
			locations[j.Location]++
		}
		if known(j.ExperienceLevel) {
			ins.ExperienceLevels[j.ExperienceLevel]++
		}
		for _, s := range strings.Split(j.Skills, ",") {
			s = strings.TrimSpace(s)
			if known(s) {
				skills[strings.ToLower(s)]++
			}
		}
		if v, ok := parseSalary(j.Salary); ok {
			salaries = append(salaries, v)
		}

		switch classifyRemote(j) {
		case "remote":
			ins.RemoteWork.Remote++
		case "hybrid":
			ins.RemoteWork.Hybrid++
		default:
			ins.RemoteWork.OnSite++
		}
	}

	ins.TopCompanies = topN(companies, topCompanies)
	ins.TopLocations = topN(locations, topLocations)
	ins.TrendingSkills = topN(skills, topSkills)

	if len(salaries) > 0 {
		r := &SalaryRange{Min: salaries[0], Max: salaries[0]}
		sum := 0
		for _, v := range salaries {
			sum += v
			if v < r.Min {
				r.Min = v
			}
			if v > r.Max {
				r.Max = v
			}
		}
		r.Average = sum / len(salaries)
		ins.SalaryRange = r
	}

	if ins.TotalJobs > 0 {
		ins.RemoteWork.RemotePercent = 100 * float64(ins.RemoteWork.Remote) / float64(ins.TotalJobs)
	}

	ins.Recommendations = recommend(ins, jobs, prefs, scoreSum)
	return ins
}

// classifyRemote buckets a candidate by substring match on its location
// and remote-policy fields; everything unmatched counts as on-site.
func classifyRemote(j models.JobCandidate) string {
	combined := strings.ToLower(j.Location + " " + j.RemotePolicy)
	if strings.Contains(combined, "hybrid") {
		return "hybrid"
	}
	if strings.Contains(combined, "remote") {
		return "remote"
	}
	return "onsite"
}

var salaryTokenRe = regexp.MustCompile(`(\d+)(k?)`)

// parseSalary pulls the first integer token worth at least 1000 out of a
// salary string, treating a trailing 'k' as thousands.
func parseSalary(s string) (int, bool) {
	if !known(s) {
		return 0, false
	}
	s = strings.ToLower(strings.ReplaceAll(s, ",", ""))
	for _, m := range salaryTokenRe.FindAllStringSubmatch(s, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if m[2] == "k" {
			n *= 1000
		}
		if n >= 1000 {
			return n, true
		}
	}
	return 0, false
}

func recommend(ins Insights, jobs []models.JobCandidate, prefs Preferences, scoreSum int) []string {
	var recs []string

	if len(jobs) == 0 {
		return []string{"No matching postings found — try a broader query or fewer filters."}
	}

	avg := float64(scoreSum) / float64(len(jobs))
	if avg < 6 {
		recs = append(recs, "Average match quality is low — consider broadening your search query or relaxing preferences.")
	}
	if ins.RemoteWork.RemotePercent > 30 && !strings.EqualFold(prefs.Location, "remote") {
		recs = append(recs, fmt.Sprintf("Many remote opportunities available (%.0f%% of results) — consider including remote roles.", ins.RemoteWork.RemotePercent))
	}
	if len(ins.TrendingSkills) > 0 {
		recs = append(recs, fmt.Sprintf("%q appears frequently across postings — highlighting it may improve your matches.", ins.TrendingSkills[0].Name))
	}
	if ins.SalaryRange == nil {
		recs = append(recs, "Few postings list salaries — expect to negotiate compensation directly.")
	}
	return recs
}

func known(s string) bool {
	return s != "" && !strings.EqualFold(s, "Not specified")
}

func topN(counts map[string]int, n int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
