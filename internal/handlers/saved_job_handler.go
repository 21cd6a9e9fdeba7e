package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobscout/internal/dtos"
	"jobscout/internal/models"
	"jobscout/internal/services"
)

// SavedJobStore is what the handler needs from the saved-job service.
type SavedJobStore interface {
	Save(req dtos.SaveJobRequest) (*models.SavedJob, error)
	List(status string) ([]models.SavedJob, error)
	Update(req dtos.UpdateSavedJobRequest) (*models.SavedJob, error)
	Delete(id uint) error
}

type SavedJobHandler struct {
	Saved SavedJobStore
}

func NewSavedJobHandler(saved SavedJobStore) *SavedJobHandler {
	return &SavedJobHandler{Saved: saved}
}

// Save is the POST /saved-jobs endpoint.
func (h *SavedJobHandler) Save(c *gin.Context) {
	var req dtos.SaveJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	saved, err := h.Saved.Save(req)
	if err != nil {
		c.JSON(savedJobErrorStatus(err), gin.H{"error": "Failed to save job: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// List is the GET /saved-jobs endpoint.
func (h *SavedJobHandler) List(c *gin.Context) {
	saved, err := h.Saved.List(c.Query("status"))
	if err != nil {
		c.JSON(savedJobErrorStatus(err), gin.H{"error": "Failed to list saved jobs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_jobs": saved, "total": len(saved)})
}

// Update is the PUT /saved-jobs endpoint: partial update of notes and
// status.
func (h *SavedJobHandler) Update(c *gin.Context) {
	var req dtos.UpdateSavedJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	saved, err := h.Saved.Update(req)
	if err != nil {
		c.JSON(savedJobErrorStatus(err), gin.H{"error": "Failed to update saved job: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Delete is the DELETE /saved-jobs endpoint.
func (h *SavedJobHandler) Delete(c *gin.Context) {
	var req dtos.DeleteSavedJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.Saved.Delete(req.ID); err != nil {
		c.JSON(savedJobErrorStatus(err), gin.H{"error": "Failed to delete saved job: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": req.ID})
}

func savedJobErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
