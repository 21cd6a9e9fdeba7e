package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"jobscout/internal/dtos"
	"jobscout/internal/models"
	"jobscout/internal/pipeline"
)

// JobFilter narrows a GET /jobs listing. Zero values mean "no filter".
type JobFilter struct {
	SearchID uint
	MinScore int
	Location string
	Company  string
}

type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{DB: db}
}

// ListJobs returns matching candidates sorted by score descending, each
// with its SavedJob preloaded if one exists.
func (s *JobService) ListJobs(f JobFilter) ([]models.JobCandidate, error) {
	q := s.DB.Preload("SavedJob").Order("score DESC")
	if f.SearchID != 0 {
		q = q.Where("search_request_id = ?", f.SearchID)
	}
	if f.MinScore != 0 {
		q = q.Where("score >= ?", f.MinScore)
	}
	if f.Location != "" {
		q = q.Where("location ILIKE ?", "%"+f.Location+"%")
	}
	if f.Company != "" {
		q = q.Where("company ILIKE ?", "%"+f.Company+"%")
	}

	var jobs []models.JobCandidate
	if err := q.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// DeleteSearch removes a SearchRequest; its JobCandidates (and their
// SavedJobs) go with it via the ON DELETE CASCADE constraints.
func (s *JobService) DeleteSearch(searchID uint) error {
	res := s.DB.Delete(&models.SearchRequest{}, searchID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("search %d not found", searchID)
	}
	return nil
}

// ListSearches returns recent searches, newest first, with their
// candidate counts.
func (s *JobService) ListSearches() ([]dtos.SearchSummary, error) {
	var searches []models.SearchRequest
	if err := s.DB.Order("created_at DESC").Limit(50).Find(&searches).Error; err != nil {
		return nil, err
	}

	out := make([]dtos.SearchSummary, 0, len(searches))
	for _, sr := range searches {
		var count int64
		if err := s.DB.Model(&models.JobCandidate{}).Where("search_request_id = ?", sr.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		out = append(out, dtos.SearchSummary{SearchRequest: sr, JobCount: count})
	}
	return out, nil
}

// InsightsForSearch recomputes the market summary over a stored search.
func (s *JobService) InsightsForSearch(searchID uint) (*pipeline.Insights, error) {
	var sr models.SearchRequest
	if err := s.DB.First(&sr, searchID).Error; err != nil {
		return nil, err
	}

	var jobs []models.JobCandidate
	if err := s.DB.Where("search_request_id = ?", searchID).Find(&jobs).Error; err != nil {
		return nil, err
	}

	prefs := pipeline.Preferences{
		Location:        sr.Location,
		JobType:         sr.JobType,
		ExperienceLevel: sr.ExperienceLevel,
		MinSalary:       sr.MinSalary,
		CompanySize:     sr.CompanySize,
	}
	if sr.Technologies != "" {
		prefs.Technologies = splitCSV(sr.Technologies)
	}

	ins := pipeline.ComputeInsights(jobs, prefs)
	return &ins, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
