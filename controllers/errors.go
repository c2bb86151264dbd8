package controllers

import (
	"errors"
	"net/http"

	"symptracker/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors to HTTP codes. Data-quality problems
// become user-facing messages; storage failures are surfaced verbatim.
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	var insufficient *services.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "Not enough complete data to generate the tree.",
			"complete": insufficient.Complete,
			"required": insufficient.Required,
		})
	case errors.Is(err, services.ErrNoFeatures):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Please select at least one feature."})
	case errors.Is(err, services.ErrTargetInFeatures),
		errors.Is(err, services.ErrUnknownColumn),
		errors.Is(err, services.ErrInvalidDepth):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if logger != nil {
			logger.Error(msg, zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
