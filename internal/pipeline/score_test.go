package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/search"
)

// genFunc adapts a function to llm.TextGenerator.
type genFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

func (f genFunc) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f(ctx, prompt, maxTokens)
}

func TestHeuristicScore_AlwaysInRange(t *testing.T) {
	now := time.Now()
	docs := []Enriched{
		{},
		{Doc: search.Document{Title: "x", Text: "y"}},
		{
			Doc: search.Document{
				Title:         "Senior Software Engineer",
				Text:          strings.Repeat("software engineer benefits salary ", 100),
				PublishedDate: now.Add(-24 * time.Hour).Format(time.RFC3339),
			},
			Location:     "Remote",
			RemotePolicy: "Remote",
		},
	}
	for _, e := range docs {
		score := HeuristicScore(e, "software engineer", Preferences{Location: "Remote"}, now)
		assert.GreaterOrEqual(t, score, 1)
		assert.LessOrEqual(t, score, 10)
	}
}

func TestHeuristicScore_LocationBonus(t *testing.T) {
	now := time.Now()
	base := Enriched{Doc: search.Document{Title: "Accountant", Text: "short"}}

	without := HeuristicScore(base, "engineer", Preferences{Location: "Berlin"}, now)

	matched := base
	matched.Location = "Berlin, Germany"
	with := HeuristicScore(matched, "engineer", Preferences{Location: "Berlin"}, now)

	assert.Equal(t, without+1, with)
}

func TestHeuristicScore_RemoteSatisfiesAnyLocation(t *testing.T) {
	now := time.Now()
	e := Enriched{
		Doc:      search.Document{Title: "Accountant", Text: "short"},
		Location: "Remote",
	}
	with := HeuristicScore(e, "engineer", Preferences{Location: "Tokyo"}, now)
	e.Location = "Paris"
	without := HeuristicScore(e, "engineer", Preferences{Location: "Tokyo"}, now)

	assert.Equal(t, without+1, with)
}

func TestHeuristicScore_RecencyDecay(t *testing.T) {
	now := time.Now()
	mk := func(age time.Duration) Enriched {
		return Enriched{Doc: search.Document{
			Title:         "Accountant",
			Text:          "short",
			PublishedDate: now.Add(-age).Format(time.RFC3339),
		}}
	}
	prefs := Preferences{}

	fresh := HeuristicScore(mk(2*24*time.Hour), "engineer", prefs, now)
	recent := HeuristicScore(mk(14*24*time.Hour), "engineer", prefs, now)
	stale := HeuristicScore(mk(60*24*time.Hour), "engineer", prefs, now)

	assert.Equal(t, stale+2, fresh)
	assert.Equal(t, stale+1, recent)
}

func TestGenerativeScore_ParsesBareInteger(t *testing.T) {
	gen := genFunc(func(_ context.Context, _ string, _ int) (string, error) {
		return " 8 \n", nil
	})
	n, err := GenerativeScore(context.Background(), gen, Enriched{}, "q", Preferences{})
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestGenerativeScore_RejectsProse(t *testing.T) {
	gen := genFunc(func(_ context.Context, _ string, _ int) (string, error) {
		return "This posting is a great fit!", nil
	})
	_, err := GenerativeScore(context.Background(), gen, Enriched{}, "q", Preferences{})
	assert.Error(t, err)
}

func TestScore_GenerativeSupersedesHeuristic(t *testing.T) {
	now := time.Now()
	e := Enriched{Doc: search.Document{Title: "Accountant", Text: "short"}}

	gen := genFunc(func(_ context.Context, _ string, _ int) (string, error) {
		return "9", nil
	})
	assert.Equal(t, 9, Score(context.Background(), gen, e, "engineer", Preferences{}, now))
}

func TestScore_FallsBackOnGenerativeFailure(t *testing.T) {
	now := time.Now()
	e := Enriched{Doc: search.Document{Title: "Accountant", Text: "short"}}
	heuristic := HeuristicScore(e, "engineer", Preferences{}, now)

	failing := genFunc(func(_ context.Context, _ string, _ int) (string, error) {
		return "", errors.New("provider down")
	})
	assert.Equal(t, heuristic, Score(context.Background(), failing, e, "engineer", Preferences{}, now))

	unparseable := genFunc(func(_ context.Context, _ string, _ int) (string, error) {
		return "excellent", nil
	})
	assert.Equal(t, heuristic, Score(context.Background(), unparseable, e, "engineer", Preferences{}, now))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 1, clampScore(-3))
	assert.Equal(t, 1, clampScore(0))
	assert.Equal(t, 5, clampScore(5))
	assert.Equal(t, 10, clampScore(12))
}
