package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/team"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func boolQuery(c *gin.Context, name string, fallback bool) bool {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func (h *httpHandler) teamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, team.ErrManagerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "manager_not_found"})
	case errors.Is(err, team.ErrNotAManager):
		c.JSON(http.StatusBadRequest, gin.H{"error": "not_a_manager"})
	case errors.Is(err, team.ErrDirectoryUnavailable):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "directory_unavailable"})
	case errors.Is(err, team.ErrNotAReportee):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_a_reportee"})
	default:
		h.logger.Error("team aggregation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "aggregation_failed"})
	}
}

func (h *httpHandler) handleGetReportees(c *gin.Context) {
	managerID := c.Param("manager_id")
	defaults := team.DefaultOptions()
	opts := team.Options{
		IncludeSkills:         boolQuery(c, "include_skills", defaults.IncludeSkills),
		IncludeProjects:       boolQuery(c, "include_projects", defaults.IncludeProjects),
		IncludeAssets:         boolQuery(c, "include_assets", defaults.IncludeAssets),
		IncludeCertifications: boolQuery(c, "include_certifications", defaults.IncludeCertifications),
		IncludeEminence:       boolQuery(c, "include_eminence", defaults.IncludeEminence),
	}

	view, err := h.teamService.GetReportees(c.Request.Context(), managerID, opts)
	if err != nil {
		h.teamError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *httpHandler) handleGetSummary(c *gin.Context) {
	summary, err := h.teamService.GetSummary(c.Request.Context(), c.Param("manager_id"))
	if err != nil {
		h.teamError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *httpHandler) handleGetCertificationsSummary(c *gin.Context) {
	summary, err := h.teamService.GetCertificationsSummary(c.Request.Context(), c.Param("manager_id"))
	if err != nil {
		h.teamError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *httpHandler) handleGetReporteeCertifications(c *gin.Context) {
	detail, err := h.teamService.GetReporteeCertifications(
		c.Request.Context(),
		c.Param("manager_id"),
		c.Param("reportee_id"),
	)
	if err != nil {
		h.teamError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
