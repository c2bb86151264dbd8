package controllers

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"symptracker/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Uploader pushes an export somewhere durable and returns its location.
type Uploader interface {
	ExportKey(now time.Time) string
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type ExportController struct {
	Store    services.StorageManager
	Uploader Uploader // nil when S3 is not configured
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewExportController(store services.StorageManager, uploader Uploader, logger *zap.Logger) *ExportController {
	return &ExportController{Store: store, Uploader: uploader, Logger: logger, Now: time.Now}
}

// DownloadCSV streams the table in the persistence format.
func (h *ExportController) DownloadCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := services.ExportCSV(c.Request.Context(), h.Store, &buf); err != nil {
		respondError(c, h.Logger, "Failed to export CSV", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="symptoms.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// UploadS3 stores a timestamped copy of the table in the configured bucket.
func (h *ExportController) UploadS3(c *gin.Context) {
	if h.Uploader == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "S3 export is not configured"})
		return
	}
	ctx := c.Request.Context()

	var buf bytes.Buffer
	if err := services.ExportCSV(ctx, h.Store, &buf); err != nil {
		respondError(c, h.Logger, "Failed to export CSV", err)
		return
	}
	key := h.Uploader.ExportKey(h.Now())
	url, err := h.Uploader.Upload(ctx, key, buf.Bytes(), "text/csv")
	if err != nil {
		h.Logger.Error("S3 export failed", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.Logger.Info("S3 export stored", zap.String("key", key), zap.Int("bytes", buf.Len()))
	c.JSON(http.StatusCreated, gin.H{"key": key, "url": url})
}
