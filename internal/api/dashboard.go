package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kpidash/internal/chart"
	"kpidash/internal/dashboard"
	"kpidash/internal/model"
)

// GetDashboard 当前仪表盘视图
// GET /api/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.View())
}

// GetColumns 列选择器可选项
// GET /api/columns
func (h *Handler) GetColumns(c *gin.Context) {
	view := h.session.View()
	if view.Columns == nil {
		c.JSON(http.StatusOK, gin.H{
			"state":   view.State,
			"message": dashboard.AwaitingMessage,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":     view.State,
		"columns":   view.Columns,
		"selection": view.Selection,
	})
}

// selectionRequest 列选择 + 刷新间隔
type selectionRequest struct {
	TimeColumn     string   `json:"timeColumn"`
	MetricColumn   string   `json:"metricColumn"`
	GroupColumns   []string `json:"groupColumns"`
	RefreshSeconds int      `json:"refreshSeconds"`
}

// UpdateSelection 更新列选择并重跑管道
// POST /api/selection
func (h *Handler) UpdateSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view := h.session.SetSelection(model.ColumnSelection{
		TimeColumn:   req.TimeColumn,
		MetricColumn: req.MetricColumn,
		GroupColumns: req.GroupColumns,
	}, req.RefreshSeconds)
	c.JSON(http.StatusOK, view)
}

// LineChartPNG 时间序列折线图 PNG
// GET /api/chart/line.png
func (h *Handler) LineChartPNG(c *gin.Context) {
	view := h.session.View()
	if view.Line == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no chart data"})
		return
	}
	png, err := chart.RenderLinePNG(view.Line)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// RankingChartPNG 排行榜条形图 PNG
// GET /api/chart/ranking.png
func (h *Handler) RankingChartPNG(c *gin.Context) {
	view := h.session.View()
	if view.Bar == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no ranking data"})
		return
	}
	png, err := chart.RenderBarPNG(view.Bar)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
