package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobscout/internal/search"
)

func candidate(url, title, company string) Enriched {
	return Enriched{
		Doc:     search.Document{URL: url, Title: title},
		Company: company,
	}
}

func TestDedupe_NormalizedURL(t *testing.T) {
	in := []Enriched{
		candidate("https://www.example.com/jobs/1", "Engineer", "Acme"),
		candidate("http://example.com/jobs/1/", "Backend Engineer", "Acme"),
		candidate("https://example.com/jobs/2", "SRE", "Acme"),
	}

	out := Dedupe(in)
	assert.Len(t, out, 2)
	// first-seen wins
	assert.Equal(t, "Engineer", out[0].Doc.Title)
}

func TestDedupe_TitleCompanyPair(t *testing.T) {
	in := []Enriched{
		candidate("https://a.example.com/1", "Software Engineer", "Acme"),
		candidate("https://b.example.com/2", "software engineer", "ACME"),
		candidate("https://c.example.com/3", "Software Engineer", "Globex"),
	}

	out := Dedupe(in)
	assert.Len(t, out, 2)
	assert.Equal(t, "https://a.example.com/1", out[0].Doc.URL)
	assert.Equal(t, "https://c.example.com/3", out[1].Doc.URL)
}

func TestDedupe_Idempotent(t *testing.T) {
	in := []Enriched{
		candidate("https://a.example.com/1", "Engineer", "Acme"),
		candidate("https://a.example.com/1", "Engineer", "Acme"),
		candidate("https://b.example.com/2", "SRE", "Globex"),
		candidate("https://c.example.com/3", "Analyst", "Initech"),
	}

	once := Dedupe(in)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"https://www.Example.com/Jobs/1/": "example.com/jobs/1",
		"http://example.com/jobs/1":       "example.com/jobs/1",
		"example.com/jobs/1":              "example.com/jobs/1",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeURL(in))
	}
}
