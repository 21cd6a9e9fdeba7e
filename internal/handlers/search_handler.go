package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobscout/internal/dtos"
	"jobscout/internal/pipeline"
	"jobscout/internal/search"
)

// SearchRunner is what the handler needs from the search service.
type SearchRunner interface {
	Run(ctx context.Context, req dtos.SearchRequest) (*dtos.SearchResponse, error)
}

type SearchHandler struct {
	Searches SearchRunner
}

func NewSearchHandler(searches SearchRunner) *SearchHandler {
	return &SearchHandler{Searches: searches}
}

// Search is the POST /search endpoint: runs the whole pipeline and
// returns ranked candidates.
func (h *SearchHandler) Search(c *gin.Context) {
	var req dtos.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.Searches.Run(c.Request.Context(), req)
	if err != nil {
		status, body := searchErrorResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// searchErrorResponse maps pipeline failures to status codes and
// human-readable tips: rate limits pass through as 429, everything else
// is a 500 with a hint about what to check.
func searchErrorResponse(err error) (int, gin.H) {
	var retrievalErr *search.RetrievalError
	if errors.As(err, &retrievalErr) {
		if retrievalErr.IsRateLimited() {
			return http.StatusTooManyRequests, gin.H{
				"error": "Search provider rate limit reached",
				"tip":   "Wait a minute and try again, or reduce numResults.",
			}
		}
		return http.StatusInternalServerError, gin.H{
			"error":   "Search provider request failed",
			"message": retrievalErr.Error(),
			"tip":     "Check that your EXA_API_KEY is valid and the provider is reachable.",
		}
	}

	if errors.Is(err, pipeline.ErrNoResults) {
		return http.StatusInternalServerError, gin.H{
			"error": "No job postings found",
			"tip":   "Try a broader query or fewer filters.",
		}
	}

	return http.StatusInternalServerError, gin.H{
		"error":   "Search failed",
		"message": err.Error(),
	}
}
