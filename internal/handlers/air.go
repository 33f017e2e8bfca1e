package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"purpleair_monitor/internal/config"
)

const (
	statusRefreshRequested = "refresh_requested"

	errNoReading = "no reading available"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Latest sensor reading
// @Description  Returns the cached reading. The headline "reported" value is the AQI or the PM2.5 density depending on the configured report mode.
// @Tags         air
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "reading, reported, active"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string       "no reading cached"
// @Router       /api/v1/air/reading [get]
// @Security     BearerAuth
func (h *Handler) getReading(c *gin.Context) {
	r := h.services.AirQuality.LastReading()
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoReading})
		return
	}

	reported := r.AQI
	if h.report == config.ReportDensity {
		reported = r.PM25
	}
	c.JSON(http.StatusOK, gin.H{
		"reading":  r,
		"reported": reported,
		"active":   h.services.AirQuality.IsActive(time.Now().UTC()),
	})
}

// @Summary      Reading freshness
// @Description  Reports whether the cached reading is younger than the update interval. Probing status schedules an opportunistic refresh.
// @Tags         air
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "active, last_updated"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/air/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	active := h.services.AirQuality.IsActive(time.Now().UTC())
	resp := gin.H{"active": active}
	if r := h.services.AirQuality.LastReading(); r != nil {
		resp["last_updated"] = r.UpdatedAt
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Request an on-demand poll
// @Description  Schedules a refresh; the fixed minimum spacing between fetches still applies, so a very recent reading makes this a no-op.
// @Tags         air
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/air/refresh [post]
// @Security     BearerAuth
func (h *Handler) postRefresh(c *gin.Context) {
	h.services.AirQuality.Refresh()
	c.JSON(http.StatusAccepted, gin.H{"status": statusRefreshRequested})
}
