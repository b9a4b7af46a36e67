package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kpidash/internal/report"
)

// CreateReport 生成报表并返回一次性下载令牌
// POST /api/report
func (h *Handler) CreateReport(c *gin.Context) {
	view := h.session.View()
	ds := h.session.Dataset()
	if ds == nil || view.KPIs == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no data loaded"})
		return
	}

	data, err := report.Build(ds, *view.KPIs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token := h.downloads.put(data, 10*time.Minute)
	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"downloadUrl": "/api/report/download/" + token,
		"filename":    report.Filename,
	})
}

// DownloadReport 下载报表（一次性）
// GET /api/report/download/:token
func (h *Handler) DownloadReport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	data, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(http.StatusOK, report.MIMEType, data)

	h.downloads.delete(token)
}
