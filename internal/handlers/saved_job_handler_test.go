package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/dtos"
	"jobscout/internal/models"
	"jobscout/internal/services"
)

// memSavedJobStore mirrors SavedJobService semantics in memory: status
// validation, partial updates, embedded job on reads.
type memSavedJobStore struct {
	jobs   map[uint]models.JobCandidate
	saved  map[uint]*models.SavedJob
	nextID uint
}

func newMemStore(jobs ...models.JobCandidate) *memSavedJobStore {
	s := &memSavedJobStore{
		jobs:   map[uint]models.JobCandidate{},
		saved:  map[uint]*models.SavedJob{},
		nextID: 1,
	}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *memSavedJobStore) Save(req dtos.SaveJobRequest) (*models.SavedJob, error) {
	status := req.Status
	if status == "" {
		status = models.StatusInterested
	}
	if _, err := models.ParseStatus(status); err != nil {
		return nil, err
	}
	job, ok := s.jobs[req.JobID]
	if !ok {
		return nil, fmt.Errorf("job %d: %w", req.JobID, services.ErrNotFound)
	}
	saved := &models.SavedJob{
		ID:             s.nextID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		JobCandidateID: job.ID,
		Job:            job,
		Notes:          req.Notes,
		Status:         status,
	}
	s.saved[saved.ID] = saved
	s.nextID++
	return saved, nil
}

func (s *memSavedJobStore) List(status string) ([]models.SavedJob, error) {
	if status != "" {
		if _, err := models.ParseStatus(status); err != nil {
			return nil, err
		}
	}
	var out []models.SavedJob
	for _, saved := range s.saved {
		if status == "" || saved.Status == status {
			out = append(out, *saved)
		}
	}
	return out, nil
}

func (s *memSavedJobStore) Update(req dtos.UpdateSavedJobRequest) (*models.SavedJob, error) {
	saved, ok := s.saved[req.ID]
	if !ok {
		return nil, fmt.Errorf("saved job %d: %w", req.ID, services.ErrNotFound)
	}
	if req.Status != nil {
		if _, err := models.ParseStatus(*req.Status); err != nil {
			return nil, err
		}
		saved.Status = *req.Status
	}
	if req.Notes != nil {
		saved.Notes = *req.Notes
	}
	saved.UpdatedAt = time.Now()
	return saved, nil
}

func (s *memSavedJobStore) Delete(id uint) error {
	if _, ok := s.saved[id]; !ok {
		return fmt.Errorf("saved job %d: %w", id, services.ErrNotFound)
	}
	delete(s.saved, id)
	return nil
}

func savedJobRouter(store SavedJobStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSavedJobHandler(store)
	r := gin.New()
	r.POST("/api/v1/saved-jobs", h.Save)
	r.GET("/api/v1/saved-jobs", h.List)
	r.PUT("/api/v1/saved-jobs", h.Update)
	r.DELETE("/api/v1/saved-jobs", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSavedJobs_SaveThenListRoundTrip(t *testing.T) {
	job := models.JobCandidate{
		ID:      7,
		URL:     "https://boards.greenhouse.io/acme/jobs/7",
		Title:   "Senior Software Engineer",
		Company: "Acme",
	}
	r := savedJobRouter(newMemStore(job))

	w := doJSON(t, r, http.MethodPost, "/api/v1/saved-jobs",
		dtos.SaveJobRequest{JobID: 7, Notes: "looks great"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.SavedJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.StatusInterested, created.Status)

	w = doJSON(t, r, http.MethodGet, "/api/v1/saved-jobs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		SavedJobs []models.SavedJob `json:"saved_jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.SavedJobs, 1)

	got := listed.SavedJobs[0].Job
	assert.Equal(t, job.URL, got.URL)
	assert.Equal(t, job.Title, got.Title)
	assert.Equal(t, job.Company, got.Company)
}

func TestSavedJobs_StatusUpdateLeavesNotesUntouched(t *testing.T) {
	job := models.JobCandidate{ID: 7, URL: "https://a.example.com/7", Title: "Engineer"}
	store := newMemStore(job)
	r := savedJobRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/v1/saved-jobs",
		dtos.SaveJobRequest{JobID: 7, Notes: "my notes"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.SavedJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// status-only update: notes field omitted from the body entirely
	w = doJSON(t, r, http.MethodPut, "/api/v1/saved-jobs",
		map[string]any{"id": created.ID, "status": models.StatusApplied})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.SavedJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusApplied, updated.Status)
	assert.Equal(t, "my notes", updated.Notes)
	assert.Equal(t, created.JobCandidateID, updated.JobCandidateID)
}

func TestSavedJobs_InvalidStatusIs400(t *testing.T) {
	job := models.JobCandidate{ID: 7, URL: "https://a.example.com/7", Title: "Engineer"}
	r := savedJobRouter(newMemStore(job))

	w := doJSON(t, r, http.MethodPost, "/api/v1/saved-jobs",
		dtos.SaveJobRequest{JobID: 7, Status: "ghosted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSavedJobs_SaveUnknownJobIs404(t *testing.T) {
	r := savedJobRouter(newMemStore())

	w := doJSON(t, r, http.MethodPost, "/api/v1/saved-jobs",
		dtos.SaveJobRequest{JobID: 99})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSavedJobs_Delete(t *testing.T) {
	job := models.JobCandidate{ID: 7, URL: "https://a.example.com/7", Title: "Engineer"}
	store := newMemStore(job)
	r := savedJobRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/v1/saved-jobs", dtos.SaveJobRequest{JobID: 7})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.SavedJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodDelete, "/api/v1/saved-jobs", dtos.DeleteSavedJobRequest{ID: created.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/saved-jobs", dtos.DeleteSavedJobRequest{ID: created.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
