package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/extract"
)

type ScanHandler struct {
	Extractor *extract.Extractor
}

type ScanTextRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *ScanHandler) ScanText(c *gin.Context) {
	var req ScanTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, err := h.Extractor.FromText(c.Request.Context(), req.Text)
	if err != nil {
		h.scanError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

type ScanImageRequest struct {
	Image string `json:"image" binding:"required"` // base64, data-URI prefix optional
}

func (h *ScanHandler) ScanImage(c *gin.Context) {
	var req ScanImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, err := h.Extractor.FromImage(c.Request.Context(), req.Image)
	if err != nil {
		h.scanError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

func (h *ScanHandler) scanError(c *gin.Context, err error) {
	if errors.Is(err, extract.ErrNotConfigured) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
