package pipeline

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jobscout/internal/llm"
	"jobscout/internal/models"
	"jobscout/internal/search"
)

// ErrNoResults means every retrieval strategy failed or came back empty.
var ErrNoResults = errors.New("no job postings retrieved")

const defaultBatchSize = 5

// Pipeline runs one search end to end: retrieval strategies, validation,
// enrichment, scoring, dedup and ranking. Stateless; one instance is
// shared across requests.
type Pipeline struct {
	Retriever search.Retriever
	Extractor *Extractor
	Gen       llm.TextGenerator
	Validator ValidatorConfig
	BatchSize int
}

// New wires a pipeline. gen may be nil, which drops it to the pure
// heuristic extraction and scoring paths.
func New(retriever search.Retriever, gen llm.TextGenerator, validator ValidatorConfig, batchSize int) *Pipeline {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &Pipeline{
		Retriever: retriever,
		Extractor: &Extractor{Gen: gen},
		Gen:       gen,
		Validator: validator,
		BatchSize: batchSize,
	}
}

// Params is one search invocation.
type Params struct {
	Query       string
	Prefs       Preferences
	NumResults  int
	FindSimilar bool // treat Query as a reference URL and retrieve similar pages
}

// Run executes the full pipeline and returns ranked candidates. Partial
// strategy failures are logged and skipped; Run fails only when nothing
// at all was retrieved.
func (p *Pipeline) Run(ctx context.Context, params Params) ([]models.JobCandidate, error) {
	now := time.Now()

	docs, retrievalErr := p.retrieve(ctx, params, now)
	if len(docs) == 0 {
		if retrievalErr != nil {
			return nil, retrievalErr
		}
		return nil, ErrNoResults
	}

	// Validation filter
	valid := docs[:0]
	for _, doc := range docs {
		if IsJobPosting(doc, p.Validator) {
			valid = append(valid, doc)
		}
	}
	log.Printf("pipeline: %d of %d retrieved documents look like job postings", len(valid), len(docs))
	if len(valid) == 0 {
		return nil, ErrNoResults
	}

	enriched := p.enrich(ctx, valid, params, now)
	enriched = Dedupe(enriched)

	sort.SliceStable(enriched, func(i, j int) bool {
		return enriched[i].Score > enriched[j].Score
	})

	jobs := make([]models.JobCandidate, 0, len(enriched))
	for _, e := range enriched {
		jobs = append(jobs, toModel(e))
	}
	return jobs, nil
}

// retrieve runs every strategy in its own failure domain and merges the
// results, dropping URL duplicates early so they are never enriched.
func (p *Pipeline) retrieve(ctx context.Context, params Params, now time.Time) ([]search.Document, error) {
	if params.FindSimilar {
		req := search.Request{
			NumResults:     params.NumResults,
			IncludeDomains: jobBoardDomains,
			PublishedAfter: now.AddDate(0, 0, -45),
		}
		docs, err := p.Retriever.FindSimilar(ctx, params.Query, req)
		if err != nil {
			log.Printf("pipeline: find-similar retrieval failed: %v", err)
			return nil, err
		}
		return docs, nil
	}

	var (
		merged  []search.Document
		seen    = make(map[string]bool)
		lastErr error
	)
	for _, strat := range BuildStrategies(params.Query, params.Prefs, params.NumResults, now) {
		docs, err := p.Retriever.Search(ctx, strat.Req)
		if err != nil {
			log.Printf("pipeline: strategy %q failed, skipping: %v", strat.Name, err)
			lastErr = err
			continue
		}
		if len(docs) == 0 {
			log.Printf("pipeline: strategy %q returned no documents", strat.Name)
			continue
		}
		for _, doc := range docs {
			key := NormalizeURL(doc.URL)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, doc)
		}
	}
	return merged, lastErr
}

// enrich extracts fields and scores candidates in fixed-size batches to
// bound outstanding provider calls. All field extractions for a
// candidate finish (or fall back) before its scoring starts.
func (p *Pipeline) enrich(ctx context.Context, docs []search.Document, params Params, now time.Time) []Enriched {
	out := make([]Enriched, len(docs))

	for start := 0; start < len(docs); start += p.BatchSize {
		end := start + p.BatchSize
		if end > len(docs) {
			end = len(docs)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				e := p.Extractor.Enrich(gctx, docs[i])
				e.Score = Score(gctx, p.Gen, e, params.Query, params.Prefs, now)
				out[i] = e
				return nil
			})
		}
		g.Wait() // per-candidate failures already degraded to fallbacks
	}
	return out
}

func toModel(e Enriched) models.JobCandidate {
	title := strings.TrimSpace(e.Doc.Title)
	if title == "" {
		title = "Untitled posting"
	}
	return models.JobCandidate{
		URL:             e.Doc.URL,
		Title:           title,
		Company:         e.Company,
		Location:        e.Location,
		Salary:          e.Salary,
		ExperienceLevel: e.ExperienceLevel,
		JobType:         e.JobType,
		Skills:          e.Skills,
		RemotePolicy:    e.RemotePolicy,
		Content:         e.Doc.Text,
		Score:           e.Score,
	}
}
