package http

import (
	"errors"
	"net/http"

	"github.com/aescanero/kdpniche/internal/application/analysis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Greeting is the body of GET /
const Greeting = "KDP Niche Tool Backend is running!"

// AnalyzeQuery holds the query parameters of GET /analyze
type AnalyzeQuery struct {
	Keyword string `form:"keyword"`
	Market  string `form:"market"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleRoot answers with the service greeting
func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, Greeting)
}

// handleAnalyze handles keyword analysis requests
func (s *Server) handleAnalyze(c *gin.Context) {
	var q AnalyzeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: analysis.ErrMissingParameter.Error()})
		return
	}

	result, err := s.analysis.Analyze(c.Request.Context(), q.Keyword, q.Market)
	if err != nil {
		if errors.Is(err, analysis.ErrMissingParameter) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		s.logger.Error("analysis failed",
			zap.String("keyword", q.Keyword),
			zap.String("market", q.Market),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Analysis failed."})
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "checks": gin.H{}})
		return
	}

	status := s.health.Status()
	code := http.StatusOK
	label := "healthy"
	if !status.Healthy {
		code = http.StatusServiceUnavailable
		label = "unhealthy"
	}

	c.JSON(code, gin.H{
		"status":    label,
		"timestamp": status.Timestamp,
		"checks":    status.Checks,
	})
}
