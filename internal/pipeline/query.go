package pipeline

import (
	"fmt"
	"strings"
	"time"

	"jobscout/internal/search"
)

// Strategy is one independent query + domain-filter configuration. The
// pipeline runs every strategy and treats their failures independently.
type Strategy struct {
	Name string
	Req  search.Request
}

// Domains that host real postings rather than aggregated listings.
var jobBoardDomains = []string{
	"boards.greenhouse.io",
	"jobs.lever.co",
	"jobs.ashbyhq.com",
	"linkedin.com",
	"indeed.com",
	"glassdoor.com",
	"wellfound.com",
	"remoteok.com",
	"weworkremotely.com",
}

const maxQueryTechnologies = 3

// BuildStrategies turns the free-text query plus preferences into
// provider query strategies: a semantic phrasing plus a keyword-boolean
// variant to widen recall. Every variant embeds the raw query verbatim.
func BuildStrategies(query string, prefs Preferences, numResults int, now time.Time) []Strategy {
	remote := wantsRemote(prefs)

	var terms []string
	terms = append(terms, query, "job opening")
	if prefs.Location != "" && !remote {
		terms = append(terms, "in "+prefs.Location)
	}
	if remote {
		terms = append(terms, "remote")
	}
	if prefs.ExperienceLevel != "" {
		terms = append(terms, prefs.ExperienceLevel)
	}
	for i, tech := range prefs.Technologies {
		if i >= maxQueryTechnologies {
			break
		}
		terms = append(terms, tech)
	}
	primary := strings.Join(terms, " ")

	boolean := fmt.Sprintf("%q (hiring OR careers OR \"job opening\")", query)
	if prefs.Location != "" {
		boolean += " " + prefs.Location
	}

	half := numResults / 2
	if half < 1 {
		half = 1
	}

	return []Strategy{
		{
			Name: "semantic",
			Req: search.Request{
				Query:          primary,
				NumResults:     numResults,
				IncludeDomains: jobBoardDomains,
				PublishedAfter: now.AddDate(0, 0, -30),
			},
		},
		{
			Name: "keyword",
			Req: search.Request{
				Query:          boolean,
				NumResults:     half,
				IncludeDomains: jobBoardDomains,
				PublishedAfter: now.AddDate(0, 0, -14),
			},
		},
	}
}

func wantsRemote(prefs Preferences) bool {
	return strings.EqualFold(prefs.Location, "remote") ||
		strings.Contains(strings.ToLower(prefs.JobType), "remote")
}
