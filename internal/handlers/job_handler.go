package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobscout/internal/dtos"
	"jobscout/internal/models"
	"jobscout/internal/pipeline"
	"jobscout/internal/services"
)

// JobStore is what the handler needs from the job service.
type JobStore interface {
	ListJobs(f services.JobFilter) ([]models.JobCandidate, error)
	DeleteSearch(searchID uint) error
	ListSearches() ([]dtos.SearchSummary, error)
	InsightsForSearch(searchID uint) (*pipeline.Insights, error)
}

type JobHandler struct {
	Jobs JobStore
}

func NewJobHandler(jobs JobStore) *JobHandler {
	return &JobHandler{Jobs: jobs}
}

// ListJobs is the GET /jobs endpoint.
func (h *JobHandler) ListJobs(c *gin.Context) {
	filter := services.JobFilter{
		SearchID: uintQuery(c, "searchId"),
		MinScore: intQuery(c, "minScore"),
		Location: c.Query("location"),
		Company:  c.Query("company"),
	}

	jobs, err := h.Jobs.ListJobs(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": len(jobs)})
}

// DeleteSearch is the DELETE /jobs endpoint: removes a search and
// cascades its candidates.
func (h *JobHandler) DeleteSearch(c *gin.Context) {
	var req dtos.DeleteSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.Jobs.DeleteSearch(req.SearchID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete search: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": req.SearchID})
}

// ListSearches is the GET /searches endpoint.
func (h *JobHandler) ListSearches(c *gin.Context) {
	searches, err := h.Jobs.ListSearches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list searches: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"searches": searches})
}

// Insights is the GET /insights endpoint: recomputes the market summary
// over a stored search without re-running retrieval.
func (h *JobHandler) Insights(c *gin.Context) {
	searchID := uintQuery(c, "searchId")
	if searchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "searchId query parameter is required"})
		return
	}
	ins, err := h.Jobs.InsightsForSearch(searchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute insights: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, ins)
}

func uintQuery(c *gin.Context, key string) uint {
	v, _ := strconv.ParseUint(c.Query(key), 10, 64)
	return uint(v)
}

func intQuery(c *gin.Context, key string) int {
	v, _ := strconv.Atoi(c.Query(key))
	return v
}
