package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jobscout/internal/dtos"
	"jobscout/internal/models"
)

// ErrNotFound is returned for lookups of rows that don't exist.
var ErrNotFound = errors.New("not found")

type SavedJobService struct {
	DB *gorm.DB
}

func NewSavedJobService(db *gorm.DB) *SavedJobService {
	return &SavedJobService{DB: db}
}

// Save bookmarks a JobCandidate. Status defaults to "interested".
func (s *SavedJobService) Save(req dtos.SaveJobRequest) (*models.SavedJob, error) {
	status := req.Status
	if status == "" {
		status = models.StatusInterested
	}
	if _, err := models.ParseStatus(status); err != nil {
		return nil, err
	}

	var job models.JobCandidate
	if err := s.DB.First(&job, req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job %d: %w", req.JobID, ErrNotFound)
		}
		return nil, err
	}

	saved := models.SavedJob{
		JobCandidateID: job.ID,
		Notes:          req.Notes,
		Status:         status,
	}
	if err := s.DB.Create(&saved).Error; err != nil {
		return nil, err
	}
	saved.Job = job
	return &saved, nil
}

// List returns saved jobs, optionally filtered by status, newest first,
// each with its job embedded.
func (s *SavedJobService) List(status string) ([]models.SavedJob, error) {
	if status != "" {
		if _, err := models.ParseStatus(status); err != nil {
			return nil, err
		}
	}

	q := s.DB.Preload("Job").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var saved []models.SavedJob
	if err := q.Find(&saved).Error; err != nil {
		return nil, err
	}
	return saved, nil
}

// Update applies a partial update: only the fields present in the
// request change, plus UpdatedAt.
func (s *SavedJobService) Update(req dtos.UpdateSavedJobRequest) (*models.SavedJob, error) {
	var saved models.SavedJob
	if err := s.DB.First(&saved, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("saved job %d: %w", req.ID, ErrNotFound)
		}
		return nil, err
	}

	updates := map[string]any{}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Status != nil {
		if _, err := models.ParseStatus(*req.Status); err != nil {
			return nil, err
		}
		updates["status"] = *req.Status
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&saved).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.DB.Preload("Job").First(&saved, req.ID).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// Delete removes a bookmark. The JobCandidate itself is untouched.
func (s *SavedJobService) Delete(id uint) error {
	res := s.DB.Delete(&models.SavedJob{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("saved job %d: %w", id, ErrNotFound)
	}
	return nil
}
