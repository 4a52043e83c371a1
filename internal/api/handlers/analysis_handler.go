package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/influencerinsights/backend-go/internal/engine"
	"github.com/influencerinsights/backend-go/internal/service"
)

type AnalysisHandler struct {
	service *service.AnalysisService
	export  *service.ExportService
}

// NewAnalysisHandler wires the analysis endpoints. export may be nil when no
// object storage is configured.
func NewAnalysisHandler(svc *service.AnalysisService, export *service.ExportService) *AnalysisHandler {
	return &AnalysisHandler{service: svc, export: export}
}

// RunAnalysis runs one analysis against the external engine and saves the
// result as the new active record.
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	var req domain.RunAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	rec, report, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		var apiErr *engine.APIError
		if errors.As(err, &apiErr) {
			// Pass the engine's verdict through so the UI can display it.
			c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis": rec,
		"report":   report,
	})
}

// ListRecent returns the stored records, most recent first.
func (h *AnalysisHandler) ListRecent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"analyses": h.service.Recent()})
}

// GetActive returns the currently selected record.
func (h *AnalysisHandler) GetActive(c *gin.Context) {
	rec, ok := h.service.Active()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active analysis"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// SetActive promotes a known record to active.
func (h *AnalysisHandler) SetActive(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	if !h.service.SetActive(c.Request.Context(), req.ID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active_id": req.ID})
}

// GetAnalysis returns one record by id.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	rec, ok := h.service.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// RemoveAnalysis deletes one record.
func (h *AnalysisHandler) RemoveAnalysis(c *gin.Context) {
	if !h.service.Remove(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearAnalyses resets the store to empty.
func (h *AnalysisHandler) ClearAnalyses(c *gin.Context) {
	h.service.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// ExportAnalysis uploads a record to object storage.
func (h *AnalysisHandler) ExportAnalysis(c *gin.Context) {
	if h.export == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage is not configured"})
		return
	}

	rec, ok := h.service.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}

	key, err := h.export.Export(c.Request.Context(), rec)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key})
}

// ListExports lists previously exported analyses.
func (h *AnalysisHandler) ListExports(c *gin.Context) {
	if h.export == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage is not configured"})
		return
	}

	exports, err := h.export.ListExports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exports": exports})
}

// FetchExport streams one exported analysis back.
func (h *AnalysisHandler) FetchExport(c *gin.Context) {
	if h.export == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage is not configured"})
		return
	}

	data, err := h.export.FetchExport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "export not found"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
