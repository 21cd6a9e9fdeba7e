package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/search"
)

// stubRetriever serves canned documents and records calls.
type stubRetriever struct {
	docs        []search.Document
	err         error
	searchCalls int
}

func (s *stubRetriever) Search(_ context.Context, _ search.Request) ([]search.Document, error) {
	s.searchCalls++
	return s.docs, s.err
}

func (s *stubRetriever) FindSimilar(_ context.Context, _ string, _ search.Request) ([]search.Document, error) {
	return s.docs, s.err
}

func remotePosting(url, title string, filler int) search.Document {
	return search.Document{
		URL:   url,
		Title: title,
		Text: strings.Repeat("We build software engineer tooling for remote teams. ", filler) + `
Responsibilities: ship backend services.
Requirements: strong engineering background.
Benefits: health insurance, competitive salary.
Apply now to join us.`,
	}
}

func TestRun_ValidatesScoresAndSorts(t *testing.T) {
	retriever := &stubRetriever{docs: []search.Document{
		remotePosting("https://boards.greenhouse.io/acme/jobs/1", "Senior Software Engineer", 40),
		remotePosting("https://jobs.lever.co/globex/2", "Software Engineer", 10),
		{URL: "https://example.com/blog", Title: "Industry news", Text: "too short"},
	}}

	p := New(retriever, nil, DefaultValidatorConfig(), 5)
	jobs, err := p.Run(context.Background(), Params{
		Query:      "Software Engineer",
		Prefs:      Preferences{Location: "Remote"},
		NumResults: 20,
	})
	require.NoError(t, err)

	// 3 retrieved, 2 validated
	require.Len(t, jobs, 2)

	// both strategies ran; identical URLs merged before enrichment
	assert.Equal(t, 2, retriever.searchCalls)

	// sorted descending by score
	assert.GreaterOrEqual(t, jobs[0].Score, jobs[1].Score)

	for _, j := range jobs {
		assert.GreaterOrEqual(t, j.Score, 1)
		assert.LessOrEqual(t, j.Score, 10)
		// remote postings matched the Remote location preference, so the
		// score sits above the heuristic base
		assert.Greater(t, j.Score, 5)
		assert.Equal(t, "Remote", j.Location)
	}
}

func TestRun_RetrievalFailureSurfacesError(t *testing.T) {
	retriever := &stubRetriever{err: &search.RetrievalError{StatusCode: 500, Message: "boom"}}

	p := New(retriever, nil, DefaultValidatorConfig(), 5)
	jobs, err := p.Run(context.Background(), Params{Query: "engineer", NumResults: 10})

	require.Error(t, err)
	assert.Nil(t, jobs)
	var retrievalErr *search.RetrievalError
	assert.ErrorAs(t, err, &retrievalErr)
}

func TestRun_EmptyRetrievalIsAnError(t *testing.T) {
	retriever := &stubRetriever{}

	p := New(retriever, nil, DefaultValidatorConfig(), 5)
	_, err := p.Run(context.Background(), Params{Query: "engineer", NumResults: 10})
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestRun_NothingValidatedIsAnError(t *testing.T) {
	retriever := &stubRetriever{docs: []search.Document{
		{URL: "https://example.com/a", Title: "A", Text: "short"},
		{URL: "https://example.com/b", Title: "B", Text: "short"},
	}}

	p := New(retriever, nil, DefaultValidatorConfig(), 5)
	_, err := p.Run(context.Background(), Params{Query: "engineer", NumResults: 10})
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestRun_FindSimilarUsesReferenceURL(t *testing.T) {
	retriever := &stubRetriever{docs: []search.Document{
		remotePosting("https://boards.greenhouse.io/acme/jobs/1", "Software Engineer", 40),
	}}

	p := New(retriever, nil, DefaultValidatorConfig(), 5)
	jobs, err := p.Run(context.Background(), Params{
		Query:       "https://boards.greenhouse.io/acme/jobs/99",
		NumResults:  10,
		FindSimilar: true,
	})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Zero(t, retriever.searchCalls, "find-similar must not run the query strategies")
}

func TestRun_GenerativeScoringWins(t *testing.T) {
	retriever := &stubRetriever{docs: []search.Document{
		remotePosting("https://boards.greenhouse.io/acme/jobs/1", "Software Engineer", 40),
	}}

	gen := genFunc(func(_ context.Context, prompt string, _ int) (string, error) {
		if strings.Contains(prompt, "Rate how well") {
			return "3", nil
		}
		return "Not specified", nil
	})

	p := New(retriever, gen, DefaultValidatorConfig(), 5)
	jobs, err := p.Run(context.Background(), Params{Query: "Software Engineer", NumResults: 10})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 3, jobs[0].Score)
}
