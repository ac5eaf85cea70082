package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/bitsctl/internal/observability"
	"github.com/danmuck/bitsctl/internal/transmission"
)

type decodeRequest struct {
	Hex string `json:"hex" binding:"required"`
}

func (s *Server) registerRoutes() {
	observability.RegisterMetrics()

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": s.name,
		})
	})

	s.router.POST("/decode", s.handleDecode)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) handleDecode(c *gin.Context) {
	var req decodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := s.decoder.Decode(req.Hex)
	if err != nil {
		var decodeErr *transmission.Error
		if errors.As(err, &decodeErr) {
			c.Set(observability.RequestIDKey, decodeErr.ID.String())
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"id":      decodeErr.ID.String(),
				"outcome": decodeErr.Outcome,
				"error":   decodeErr.Err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Set(observability.RequestIDKey, report.ID.String())
	c.JSON(http.StatusOK, report)
}
