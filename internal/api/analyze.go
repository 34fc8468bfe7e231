package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/service"
)

type AnalyzeHandler struct {
	analysis  *service.AnalysisService
	maxUpload int64
}

func NewAnalyzeHandler(analysis *service.AnalysisService, maxUpload int64) *AnalyzeHandler {
	return &AnalyzeHandler{analysis: analysis, maxUpload: maxUpload}
}

// AnalyzeImage accepts a multipart image upload, runs the analysis pipeline
// and returns the created recipe. A missing upload is rejected before any
// backend call is made.
func (h *AnalyzeHandler) AnalyzeImage(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
		return
	}
	if h.maxUpload > 0 && fileHeader.Size > h.maxUpload {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded image"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded image"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	recipe, err := h.analysis.AnalyzeImage(c.Request.Context(), userID, imageData, contentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrRecognition), errors.Is(err, service.ErrMalformedGeneration):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze image"})
		}
		return
	}

	c.JSON(http.StatusOK, recipe)
}
