package services

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	"jobscout/internal/dtos"
	"jobscout/internal/models"
	"jobscout/internal/pipeline"
)

const defaultNumResults = 20

// SearchService runs the pipeline for one request and persists the
// outcome. The SearchRequest row is only created after retrieval
// succeeded, so a failed search leaves no half-written state behind.
type SearchService struct {
	DB       *gorm.DB
	Pipeline *pipeline.Pipeline
}

func NewSearchService(db *gorm.DB, p *pipeline.Pipeline) *SearchService {
	return &SearchService{DB: db, Pipeline: p}
}

// Run executes a search and returns the ranked candidates. Candidates
// whose insert fails (e.g. a URL already stored by an earlier search)
// are still returned in-memory so the user sees the full result set.
func (s *SearchService) Run(ctx context.Context, req dtos.SearchRequest) (*dtos.SearchResponse, error) {
	params := pipeline.Params{
		Query:       req.Query,
		Prefs:       toPreferences(req),
		NumResults:  req.NumResults,
		FindSimilar: req.FindSimilar,
	}
	if params.NumResults <= 0 {
		params.NumResults = defaultNumResults
	}

	jobs, err := s.Pipeline.Run(ctx, params)
	if err != nil {
		return nil, err
	}

	record := models.SearchRequest{
		Query:           req.Query,
		Location:        req.Location,
		JobType:         req.JobType,
		ExperienceLevel: req.ExperienceLevel,
		MinSalary:       req.Salary,
		Technologies:    strings.Join(req.Technologies, ","),
		CompanySize:     req.CompanySize,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return nil, err
	}

	saved := 0
	for i := range jobs {
		jobs[i].SearchRequestID = record.ID
		if err := s.DB.Create(&jobs[i]).Error; err != nil {
			// Keep the unsaved candidate in the response anyway.
			log.Printf("search %d: failed to persist candidate %s: %v", record.ID, jobs[i].URL, err)
			continue
		}
		saved++
	}
	log.Printf("search %d: persisted %d of %d candidates", record.ID, saved, len(jobs))

	return &dtos.SearchResponse{
		SearchID:   record.ID,
		Jobs:       jobs,
		TotalFound: len(jobs),
	}, nil
}

func toPreferences(req dtos.SearchRequest) pipeline.Preferences {
	return pipeline.Preferences{
		Location:        req.Location,
		JobType:         req.JobType,
		ExperienceLevel: req.ExperienceLevel,
		MinSalary:       req.Salary,
		Technologies:    req.Technologies,
		CompanySize:     req.CompanySize,
	}
}
