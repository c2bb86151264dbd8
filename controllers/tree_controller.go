package controllers

import (
	"fmt"
	"net/http"

	"symptracker/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TreeController struct {
	Svc    *services.TrainerService
	Logger *zap.Logger
}

func NewTreeController(svc *services.TrainerService, logger *zap.Logger) *TreeController {
	return &TreeController{Svc: svc, Logger: logger}
}

type TreeInput struct {
	Target   string   `json:"target" binding:"required"`
	Features []string `json:"features"`
	MaxDepth int      `json:"max_depth"` // 0 means default
}

func (h *TreeController) GetOptions(c *gin.Context) {
	out, err := h.Svc.Setup(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, "Failed to load tree options", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GenerateTree trains a depth-limited tree and reports score and importances.
func (h *TreeController) GenerateTree(c *gin.Context) {
	var input TreeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.MaxDepth == 0 {
		input.MaxDepth = services.DefaultMaxDepth
	}
	if input.MaxDepth < services.MinMaxDepth || input.MaxDepth > services.MaxMaxDepth {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("max_depth must be between %d and %d",
			services.MinMaxDepth, services.MaxMaxDepth)})
		return
	}

	report, err := h.Svc.Generate(c.Request.Context(), input.Target, input.Features, input.MaxDepth)
	if err != nil {
		respondError(c, h.Logger, "Failed to generate tree", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
